package hook

import (
	"regexp"
	"strings"
)

// Internal creative-framework vocabulary that must never surface in copy.
// The pattern set is data so the classifier can be tested and extended
// without touching any gating code. Matching is case-insensitive on word
// boundaries.
var frameworkPhrases = []string{
	"pattern interrupt",
	"pattern-interrupt",
	"myth bust",
	"myth-bust",
	"mechanism reveal",
	"social proof",
	"scroll stop",
	"scroll-stop",
	"awareness level",
	"problem aware",
	"solution aware",
	"product aware",
	"most aware",
	"emotional driver",
	"call to action",
	"direct response",
	"hook variant",
	"evidence pack",
	"value prop",
	"pain point",
	"target audience",
	"copywriting",
	"a/b test",
	"a-roll",
	"b-roll",
}

var frameworkWords = []string{
	"cta",
	"lane",
	"framework",
	"angle",
	"hook",
	"voiceover",
	"awareness",
	"funnel",
	"persona",
	"segment",
}

var frameworkRe = buildFrameworkRe()

func buildFrameworkRe() *regexp.Regexp {
	var alts []string
	for _, p := range frameworkPhrases {
		alts = append(alts, regexp.QuoteMeta(p))
	}
	for _, w := range frameworkWords {
		alts = append(alts, regexp.QuoteMeta(w))
	}
	return regexp.MustCompile(`(?i)\b(` + strings.Join(alts, "|") + `)\b`)
}

// ContainsFrameworkLanguage reports whether text leaks internal lane or
// framework vocabulary. This check is mandatory and independent of the
// evaluator call; it fires even when the evaluator is unavailable.
func ContainsFrameworkLanguage(text string) bool {
	return frameworkRe.MatchString(text)
}
