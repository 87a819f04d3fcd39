package hook

import (
	"context"
	"fmt"
	"strings"

	"adforge/internal/artifact"
	"adforge/internal/jsonutil"
	"adforge/internal/llm"
	"adforge/internal/llmtool"
)

type divergeCandidateOut struct {
	Lane        string   `json:"lane" prompt_desc:"One of the provided lane IDs."`
	Copy        string   `json:"copy" prompt_desc:"Spoken opening line, conversational register."`
	EvidenceIDs []string `json:"evidence_ids" prompt_desc:"Evidence IDs from the pack grounding this line."`
}

type divergePromptOut struct {
	Candidates []divergeCandidateOut `json:"candidates" prompt_desc:"Hook candidates spread roughly evenly across the lanes."`
}

var divergePromptSpec = llmtool.ApplyPresets(llmtool.StructuredPromptSpec{
	Purpose:      "Generate opening-line variants for a short-form video ad, spread across the given creative lanes.",
	Background:   "Each candidate opens the same script; the first two seconds decide whether a viewer keeps watching.",
	OutputFields: llmtool.MustFieldsFromStruct(divergePromptOut{}),
	Constraints: []string{
		"Produce roughly the same number of candidates per lane.",
		"One sentence per candidate, under twenty words.",
	},
	OutputFormat: "JSON only.",
	Language:     "English",
}, llmtool.PresetStrictJSON(), llmtool.PresetEvidenceOnly(), llmtool.PresetNoMetaVocabulary())

// Suffix catalog for deterministic templated top-up. Built from script
// lines so topped-up candidates stay grounded in the draft itself.
var topUpSuffixes = []string{
	"Here's what changed everything.",
	"Most people get this part wrong.",
	"Watch what happens next.",
	"Nobody talks about this.",
}

// Diverge requests candidates across the lane catalog, forces the anchor
// candidate to the script's first usable line verbatim, and deterministically
// tops up from script lines when the raw output falls short. The stage can
// never produce zero candidates for a non-empty script.
func (e *Engine) diverge(ctx context.Context, draft artifact.CoreScriptDraft, pack artifact.EvidencePack) []artifact.HookCandidate {
	var candidates []artifact.HookCandidate

	// Anchor first: its copy is never model output.
	anchorLine, hasAnchor := draft.FirstUsableLine()
	if hasAnchor {
		candidates = append(candidates, artifact.HookCandidate{
			ID:          "hc-anchor",
			Lane:        artifact.LaneScriptAnchor,
			Copy:        anchorLine.Text,
			EvidenceIDs: anchorLine.EvidenceIDs,
		})
	}

	perLane := e.targetCount() / len(artifact.HookLanes())
	if perLane < 1 {
		perLane = 1
	}
	input := map[string]any{
		"script_lines":  draft.Lines,
		"evidence_pack": pack,
		"lanes":         artifact.HookLanes(),
		"per_lane":      perLane,
	}
	prompt, err := llmtool.BuildPrompt(divergePromptSpec, input)
	if err == nil {
		raw, gerr := e.LLM.GenerateJSON(llm.WithPhase(ctx, "hook_diverge"), prompt, input)
		if gerr == nil {
			var out divergePromptOut
			if uerr := jsonutil.UnmarshalRaw(raw, &out); uerr == nil {
				for i, c := range out.Candidates {
					lane := artifact.HookLane(strings.TrimSpace(c.Lane))
					if !validLane(lane) || strings.TrimSpace(c.Copy) == "" {
						continue
					}
					candidates = append(candidates, artifact.HookCandidate{
						ID:          fmt.Sprintf("hc-%d", i+1),
						Lane:        lane,
						Copy:        strings.TrimSpace(c.Copy),
						EvidenceIDs: c.EvidenceIDs,
					})
				}
			}
		}
	}

	return e.topUp(candidates, draft)
}

// topUp fills the candidate list from script lines plus a small suffix
// catalog until the minimum count is reached. Deterministic: same draft
// always yields the same templated variants.
func (e *Engine) topUp(candidates []artifact.HookCandidate, draft artifact.CoreScriptDraft) []artifact.HookCandidate {
	minCount := e.minCandidates()
	if len(candidates) >= minCount {
		return candidates
	}
	lanes := artifact.HookLanes()
	n := 0
	for _, line := range draft.Lines {
		if len(candidates) >= minCount {
			break
		}
		text := strings.TrimSpace(line.Text)
		if text == "" {
			continue
		}
		suffix := topUpSuffixes[n%len(topUpSuffixes)]
		candidates = append(candidates, artifact.HookCandidate{
			ID:          fmt.Sprintf("hc-tpl-%d", n+1),
			Lane:        lanes[n%len(lanes)],
			Copy:        strings.TrimSuffix(text, ".") + ". " + suffix,
			EvidenceIDs: line.EvidenceIDs,
		})
		n++
	}
	return candidates
}

func validLane(l artifact.HookLane) bool {
	for _, want := range artifact.HookLanes() {
		if l == want {
			return true
		}
	}
	return false
}
