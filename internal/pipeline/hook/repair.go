package hook

import (
	"context"
	"strings"

	"adforge/internal/artifact"
	"adforge/internal/jsonutil"
	"adforge/internal/llm"
	"adforge/internal/llmtool"
)

// Repair bounds.
const (
	DefaultMaxRepairRounds = 2
	repairBatchCap         = 4
)

type repairRewriteOut struct {
	CandidateID string   `json:"candidate_id" prompt_desc:"ID of the candidate being rewritten."`
	Copy        string   `json:"copy" prompt_desc:"Rewritten spoken line fixing the listed problems."`
	EvidenceIDs []string `json:"evidence_ids" prompt_desc:"Evidence IDs from the pack grounding the rewrite."`
}

type repairPromptOut struct {
	Rewrites []repairRewriteOut `json:"rewrites" prompt_desc:"One rewrite per failed candidate."`
}

var repairPromptSpec = llmtool.ApplyPresets(llmtool.StructuredPromptSpec{
	Purpose:      "Rewrite failed opening-line candidates so each fixes its listed problems while keeping the original intent.",
	OutputFields: llmtool.MustFieldsFromStruct(repairPromptOut{}),
	OutputFormat: "JSON only.",
	Language:     "English",
}, llmtool.PresetStrictJSON(), llmtool.PresetEvidenceOnly(), llmtool.PresetNoMetaVocabulary())

// repairRound sends a capped batch of gate-failed candidates for targeted
// rewriting. The anchor is never rewritten. Empty repair output keeps the
// originals unchanged; repair never discards progress.
func (e *Engine) repairRound(ctx context.Context, candidates []artifact.HookCandidate, results map[string]artifact.HookGateResult, pack artifact.EvidencePack) []artifact.HookCandidate {
	type failing struct {
		cand    artifact.HookCandidate
		reasons []string
	}
	var batch []failing
	for _, c := range candidates {
		if c.IsAnchor() {
			continue
		}
		res, ok := results[c.ID]
		if !ok || res.Pass {
			continue
		}
		batch = append(batch, failing{cand: c, reasons: res.Reasons})
		if len(batch) >= repairBatchCap {
			break
		}
	}
	if len(batch) == 0 {
		return candidates
	}

	payload := make([]map[string]any, 0, len(batch))
	for _, f := range batch {
		payload = append(payload, map[string]any{
			"candidate": f.cand,
			"problems":  f.reasons,
		})
	}
	input := map[string]any{
		"failed":        payload,
		"evidence_pack": pack,
	}
	prompt, err := llmtool.BuildPrompt(repairPromptSpec, input)
	if err != nil {
		return candidates
	}
	raw, err := e.LLM.GenerateJSON(llm.WithPhase(ctx, "hook_repair"), prompt, input)
	if err != nil {
		return candidates
	}
	var out repairPromptOut
	if err := jsonutil.UnmarshalRaw(raw, &out); err != nil || len(out.Rewrites) == 0 {
		return candidates
	}

	rewrites := make(map[string]repairRewriteOut, len(out.Rewrites))
	for _, r := range out.Rewrites {
		if strings.TrimSpace(r.Copy) == "" {
			continue
		}
		rewrites[r.CandidateID] = r
	}
	next := make([]artifact.HookCandidate, len(candidates))
	copy(next, candidates)
	for i, c := range next {
		r, ok := rewrites[c.ID]
		if !ok || c.IsAnchor() {
			continue
		}
		next[i].Copy = strings.TrimSpace(r.Copy)
		if len(r.EvidenceIDs) > 0 {
			next[i].EvidenceIDs = r.EvidenceIDs
		}
	}
	return next
}
