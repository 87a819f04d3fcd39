package script

import "adforge/internal/artifact"

// Word-count bounds by awareness level. Colder audiences need more setup,
// so unaware briefs get a longer script allowance.
var wordBounds = map[string][2]int{
	"unaware":        {110, 180},
	"problem_aware":  {100, 170},
	"solution_aware": {90, 160},
	"product_aware":  {80, 150},
	"most_aware":     {70, 140},
}

var defaultBounds = [2]int{90, 160}

// Tone by emotional driver.
var tones = map[string]string{
	"pain":        "empathetic, direct",
	"desire":      "aspirational, vivid",
	"fear":        "urgent, reassuring",
	"frustration": "validating, candid",
	"hope":        "warm, confident",
}

// CompileSpec derives the deterministic drafting constraints for one unit.
// Pure function of (BriefUnit, EvidencePack); no generation call.
func CompileSpec(unit artifact.BriefUnit, pack artifact.EvidencePack) artifact.ScriptSpec {
	bounds, ok := wordBounds[unit.AwarenessLevel]
	if !ok {
		bounds = defaultBounds
	}
	tone, ok := tones[unit.EmotionKey]
	if !ok {
		tone = "conversational, direct"
	}
	return artifact.ScriptSpec{
		UnitID:        unit.ID,
		Tone:          tone,
		Sections:      artifact.ScriptSections(),
		MinWords:      bounds[0],
		MaxWords:      bounds[1],
		OneCTA:        true,
		CiteEveryLine: true,
	}
}
