package llmtool

// PromptPreset holds reusable constraints and rules for structured prompts.
type PromptPreset struct {
	Constraints []string
	Rules       []string
}

// ApplyPresets prepends preset constraints/rules to a structured prompt spec.
func ApplyPresets(spec StructuredPromptSpec, presets ...PromptPreset) StructuredPromptSpec {
	if len(presets) == 0 {
		return spec
	}
	var merged PromptPreset
	for _, p := range presets {
		merged.Constraints = append(merged.Constraints, p.Constraints...)
		merged.Rules = append(merged.Rules, p.Rules...)
	}
	spec.Constraints = append(merged.Constraints, spec.Constraints...)
	spec.Rules = append(merged.Rules, spec.Rules...)
	return spec
}

// PresetStrictJSON enforces strict JSON-only output.
func PresetStrictJSON() PromptPreset {
	return PromptPreset{
		Constraints: []string{
			"Return strict JSON only.",
			"Match the schema exactly; no extra fields.",
			"No markdown, comments, or trailing commas.",
		},
	}
}

// PresetEvidenceOnly restricts citations to the provided evidence pack.
func PresetEvidenceOnly() PromptPreset {
	return PromptPreset{
		Constraints: []string{
			"Cite only evidence_ids present in the provided evidence pack; never invent IDs.",
			"Do not state claims that go beyond what the cited evidence supports.",
		},
	}
}

// PresetNoMetaVocabulary keeps internal creative-framework terms out of copy.
func PresetNoMetaVocabulary() PromptPreset {
	return PromptPreset{
		Constraints: []string{
			"Never mention lanes, hooks, frameworks, awareness levels, or any internal vocabulary in the copy itself.",
			"Output conversational spoken copy only; no camera or visual direction.",
		},
	}
}
