package hook

import (
	"context"
	"strings"

	"adforge/internal/artifact"
	"adforge/internal/jsonutil"
	"adforge/internal/llm"
	"adforge/internal/llmtool"
)

// Fixed gate thresholds (0-100).
const (
	MinScrollStop  = 55
	MinSpecificity = 45
)

type evalResultOut struct {
	CandidateID string `json:"candidate_id" prompt_desc:"ID of the candidate being scored."`
	Aligned     bool   `json:"aligned" prompt_desc:"Whether the line fits the brief's awareness level and emotion."`
	ClaimSafe   bool   `json:"claim_safe" prompt_desc:"Whether every claim stays within what the cited evidence supports."`
	ScrollStop  int    `json:"scroll_stop" prompt_desc:"0-100 attention-arrest score."`
	Specificity int    `json:"specificity" prompt_desc:"0-100 concreteness score."`
}

type evalPromptOut struct {
	Results []evalResultOut `json:"results" prompt_desc:"One result per candidate."`
}

var evalPromptSpec = llmtool.ApplyPresets(llmtool.StructuredPromptSpec{
	Purpose:      "Score opening-line candidates for a short-form video ad against the brief and its evidence.",
	OutputFields: llmtool.MustFieldsFromStruct(evalPromptOut{}),
	OutputFormat: "JSON only.",
	Language:     "English",
}, llmtool.PresetStrictJSON())

// gateAll evaluates every candidate. The evaluator call is best-effort:
// when it fails, alignment and claim checks fall back to deterministic
// heuristics and scores come from the lexical scorers. Evidence-subset and
// meta-language checks never depend on the evaluator.
func (e *Engine) gateAll(ctx context.Context, unit artifact.BriefUnit, candidates []artifact.HookCandidate, pack artifact.EvidencePack) map[string]artifact.HookGateResult {
	evals := e.evaluate(ctx, unit, candidates, pack)
	allowed := pack.AllowedIDs()

	results := make(map[string]artifact.HookGateResult, len(candidates))
	for _, c := range candidates {
		res := artifact.HookGateResult{CandidateID: c.ID}

		if ev, ok := evals[c.ID]; ok {
			res.Aligned = ev.Aligned
			res.ClaimSafe = ev.ClaimSafe
			res.ScrollStop = clampScore(ev.ScrollStop)
			res.Specificity = clampScore(ev.Specificity)
		} else {
			res.ScoreFallback = true
			res.Aligned = true
			res.ClaimSafe = ClaimWithinBounds(c.Copy)
			res.ScrollStop = LexicalScrollStop(c.Copy)
			res.Specificity = LexicalSpecificity(c.Copy)
		}

		res.EvidenceValid = true
		for _, id := range c.EvidenceIDs {
			if _, ok := allowed[id]; !ok {
				res.EvidenceValid = false
				res.Reasons = append(res.Reasons, "foreign evidence id: "+id)
			}
		}

		// Mandatory, evaluator-independent.
		res.MetaFree = !ContainsFrameworkLanguage(c.Copy)
		if !res.MetaFree {
			res.Reasons = append(res.Reasons, "framework vocabulary in copy")
		}
		if !res.Aligned {
			res.Reasons = append(res.Reasons, "misaligned with brief")
		}
		if !res.ClaimSafe {
			res.Reasons = append(res.Reasons, "claim exceeds evidence")
		}

		res.Pass = res.Aligned && res.EvidenceValid && res.ClaimSafe && res.MetaFree &&
			res.ScrollStop >= MinScrollStop && res.Specificity >= MinSpecificity
		results[c.ID] = res
	}
	return results
}

// evaluate runs the optional evaluator call. A failed call returns an empty
// map and callers fall back to heuristics.
func (e *Engine) evaluate(ctx context.Context, unit artifact.BriefUnit, candidates []artifact.HookCandidate, pack artifact.EvidencePack) map[string]evalResultOut {
	evals := make(map[string]evalResultOut)
	if len(candidates) == 0 {
		return evals
	}
	input := map[string]any{
		"unit":          unit,
		"candidates":    candidates,
		"evidence_pack": pack,
	}
	prompt, err := llmtool.BuildPrompt(evalPromptSpec, input)
	if err != nil {
		return evals
	}
	raw, err := e.LLM.GenerateJSON(llm.WithPhase(ctx, "hook_eval"), prompt, input)
	if err != nil {
		return evals
	}
	var out evalPromptOut
	if err := jsonutil.UnmarshalRaw(raw, &out); err != nil {
		return evals
	}
	for _, r := range out.Results {
		if strings.TrimSpace(r.CandidateID) == "" {
			continue
		}
		evals[r.CandidateID] = r
	}
	return evals
}
