package scene

import (
	"context"
	"strings"

	"adforge/internal/artifact"
	"adforge/internal/jsonutil"
	"adforge/internal/llm"
	"adforge/internal/llmtool"
)

type polishEntryOut struct {
	LineID      string `json:"line_id" prompt_desc:"ID of the scene line being polished."`
	Description string `json:"description" prompt_desc:"Rewritten human-facing description, same meaning, sharper prose."`
}

type polishPromptOut struct {
	Descriptions []polishEntryOut `json:"descriptions" prompt_desc:"One rewritten description per scene line."`
}

var polishPromptSpec = llmtool.ApplyPresets(llmtool.StructuredPromptSpec{
	Purpose:      "Polish the prose of scene descriptions without changing what any shot shows or says.",
	OutputFields: llmtool.MustFieldsFromStruct(polishPromptOut{}),
	Constraints: []string{
		"Rewrite descriptions only; never reference shot order, modes, or IDs in the text.",
	},
	OutputFormat: "JSON only.",
	Language:     "English",
}, llmtool.PresetStrictJSON())

// polish rewrites only the human-facing description text of each line.
// Mode, ordering, lineage, durations, and citations are never touched. A
// failed polish call is non-fatal; the plan keeps its unpolished text.
func (e *Engine) polish(ctx context.Context, plan artifact.ScenePlan) artifact.ScenePlan {
	if len(plan.Lines) == 0 {
		return plan
	}
	type entry struct {
		LineID      string `json:"line_id"`
		Description string `json:"description"`
	}
	payload := make([]entry, 0, len(plan.Lines))
	for _, l := range plan.Lines {
		payload = append(payload, entry{LineID: l.ID, Description: l.Description})
	}
	input := map[string]any{"lines": payload}
	prompt, err := llmtool.BuildPrompt(polishPromptSpec, input)
	if err != nil {
		return plan
	}
	raw, err := e.LLM.GenerateJSON(llm.WithPhase(ctx, "scene_polish"), prompt, input)
	if err != nil {
		return plan
	}
	var out polishPromptOut
	if err := jsonutil.UnmarshalRaw(raw, &out); err != nil {
		return plan
	}
	byID := make(map[string]string, len(out.Descriptions))
	for _, d := range out.Descriptions {
		if strings.TrimSpace(d.Description) != "" {
			byID[d.LineID] = strings.TrimSpace(d.Description)
		}
	}
	for i := range plan.Lines {
		if text, ok := byID[plan.Lines[i].ID]; ok {
			plan.Lines[i].Description = text
		}
	}
	return plan
}
