package hook

import (
	"regexp"
	"strings"
)

// Deterministic fallback scorers, used whenever the evaluator call fails so
// the gate never blocks solely because an optional evaluator is down.
// Scores are 0-100 and derived from lexical features only.

var (
	digitRe    = regexp.MustCompile(`\d`)
	unitRe     = regexp.MustCompile(`(?i)\b(\d+(\.\d+)?\s*(%|percent|days?|weeks?|months?|years?|minutes?|hours?|x)|\$\d+)\b`)
	absoluteRe = regexp.MustCompile(`(?i)\b(guaranteed?|cures?|100%|always|never fails?|miracle|instantly|permanent(ly)?|risk.free)\b`)
)

// LexicalScrollStop scores how likely the line is to arrest attention:
// short punchy openers, questions, direct address, and contrast markers.
func LexicalScrollStop(text string) int {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}
	words := strings.Fields(text)
	score := 40
	switch {
	case len(words) <= 12:
		score += 20
	case len(words) <= 18:
		score += 10
	default:
		score -= 10
	}
	lower := strings.ToLower(text)
	if strings.Contains(text, "?") {
		score += 10
	}
	if strings.Contains(lower, "you") || strings.Contains(lower, "your") {
		score += 10
	}
	for _, marker := range []string{"stop", "but", "instead", "actually", "nobody", "everyone", "wrong", "truth"} {
		if strings.Contains(lower, marker) {
			score += 5
			break
		}
	}
	if digitRe.MatchString(text) {
		score += 10
	}
	return clampScore(score)
}

// LexicalSpecificity scores concreteness: numbers, units, named details,
// penalizing vague filler.
func LexicalSpecificity(text string) int {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}
	score := 35
	if digitRe.MatchString(text) {
		score += 20
	}
	if unitRe.MatchString(text) {
		score += 15
	}
	lower := strings.ToLower(text)
	for _, vague := range []string{"amazing", "incredible", "game-changing", "revolutionary", "the best", "so good"} {
		if strings.Contains(lower, vague) {
			score -= 15
		}
	}
	words := strings.Fields(text)
	long := 0
	for _, w := range words {
		if len(w) >= 7 {
			long++
		}
	}
	if len(words) > 0 && long*3 >= len(words) {
		score += 10
	}
	if len(words) >= 6 {
		score += 10
	}
	return clampScore(score)
}

// ClaimWithinBounds is the deterministic claim-boundary fallback: absolute
// or medical-grade promises fail; everything else passes.
func ClaimWithinBounds(text string) bool {
	return !absoluteRe.MatchString(text)
}

func clampScore(s int) int {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}
