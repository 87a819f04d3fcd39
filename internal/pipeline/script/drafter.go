package script

import (
	"context"
	"fmt"
	"time"

	"adforge/internal/artifact"
	"adforge/internal/jsonutil"
	"adforge/internal/llm"
	"adforge/internal/llmtool"
)

// Per-token cost estimate used for arm comparison accounting.
const costPerToken = 0.0000005

type draftLineOut struct {
	ID          string   `json:"id" prompt_desc:"Stable line ID, e.g. l1, l2."`
	Section     string   `json:"section" prompt_desc:"One of: hook, problem, mechanism, proof, cta."`
	Text        string   `json:"text" prompt_desc:"Spoken copy for this line."`
	EvidenceIDs []string `json:"evidence_ids" prompt_desc:"Evidence IDs from the pack this line is grounded on."`
}

type draftPromptOut struct {
	Lines []draftLineOut `json:"lines" prompt_desc:"Ordered script lines covering all five sections."`
}

var draftPromptSpec = llmtool.ApplyPresets(llmtool.StructuredPromptSpec{
	Purpose:      "Write a short-form direct-response video ad script grounded in the provided evidence pack.",
	Background:   "The script covers five sections in order (hook, problem, mechanism, proof, cta) and every line must cite at least one evidence ID.",
	OutputFields: llmtool.MustFieldsFromStruct(draftPromptOut{}),
	Constraints: []string{
		"Exactly one call to action, inside the cta section.",
		"Total word count must stay within the provided min/max bounds.",
		"Every section must contain at least one line.",
	},
	OutputFormat: "JSON only.",
	Language:     "English",
}, llmtool.PresetStrictJSON(), llmtool.PresetEvidenceOnly())

// Drafter requests one script draft per (unit, arm). State machine:
// blocked (terminal) -> requested -> ok | error. Generation failures fold
// into status error with the message preserved; nothing here panics out and
// aborts sibling units.
type Drafter struct {
	LLM llm.LLMClient
}

// DraftIn carries everything one draft call needs.
type DraftIn struct {
	Unit artifact.BriefUnit
	Pack artifact.EvidencePack
	Spec artifact.ScriptSpec
	Arm  artifact.Arm
}

// Run produces the draft for one (unit, arm). A blocked pack short-circuits
// with status blocked before any generation call.
func (d *Drafter) Run(ctx context.Context, in DraftIn) artifact.CoreScriptDraft {
	draft := artifact.CoreScriptDraft{UnitID: in.Unit.ID, Arm: in.Arm}
	if in.Pack.Coverage.Blocked {
		draft.Status = artifact.StatusBlocked
		return draft
	}

	input := map[string]any{
		"unit":          in.Unit,
		"evidence_pack": in.Pack,
		"spec":          in.Spec,
		"arm":           in.Arm,
		"style":         armStyle(in.Arm),
	}
	prompt, err := llmtool.BuildPrompt(draftPromptSpec, input)
	if err != nil {
		draft.Status = artifact.StatusError
		draft.Error = err.Error()
		return draft
	}

	start := time.Now()
	raw, err := d.LLM.GenerateJSON(llm.WithPhase(ctx, "script_draft"), prompt, input)
	draft.LatencyMS = time.Since(start).Milliseconds()
	if err != nil {
		draft.Status = artifact.StatusError
		draft.Error = err.Error()
		return draft
	}
	draft.CostUSD = float64(d.LLM.CountTokens(prompt)+d.LLM.CountTokens(string(raw))) * costPerToken

	var out draftPromptOut
	if err := jsonutil.UnmarshalRaw(raw, &out); err != nil {
		draft.Status = artifact.StatusError
		draft.Error = fmt.Sprintf("script draft JSON invalid: %v", err)
		return draft
	}
	for i, l := range out.Lines {
		id := l.ID
		if id == "" {
			id = fmt.Sprintf("l%d", i+1)
		}
		draft.Lines = append(draft.Lines, artifact.ScriptLine{
			ID:          id,
			Section:     l.Section,
			Text:        l.Text,
			EvidenceIDs: l.EvidenceIDs,
		})
	}
	draft.Status = artifact.StatusOK
	draft.Gate = EvaluateDraft(draft, in.Spec, in.Pack)
	return draft
}

// armStyle differentiates the two generation strategies under comparison.
func armStyle(arm artifact.Arm) string {
	if arm == artifact.ArmAlternate {
		return "Lead with the mechanism before naming the problem; shorter sentences; second person throughout."
	}
	return "Classic problem-agitate-solve ordering; plain conversational register."
}
