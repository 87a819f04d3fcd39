package hook

import (
	"context"

	"adforge/internal/artifact"
	"adforge/internal/llm"
)

// Default selection target.
const DefaultTargetCount = 5

// Engine runs Diverge -> Gate -> Repair -> Rank for one (unit, arm).
// Repair rounds are strictly bounded; there is no retry loop without a cap.
type Engine struct {
	LLM             llm.LLMClient
	TargetCount     int
	MaxRepairRounds int
}

func (e *Engine) targetCount() int {
	if e.TargetCount > 0 {
		return e.TargetCount
	}
	return DefaultTargetCount
}

func (e *Engine) minCandidates() int {
	// Enough raw material for the diversity-constrained selection.
	return e.targetCount() + 2
}

func (e *Engine) maxRepairRounds() int {
	if e.MaxRepairRounds > 0 {
		return e.MaxRepairRounds
	}
	return DefaultMaxRepairRounds
}

// Run consumes a completed script draft and produces the ranked hook bundle.
// A blocked or failed draft short-circuits with the matching status.
func (e *Engine) Run(ctx context.Context, unit artifact.BriefUnit, draft artifact.CoreScriptDraft, pack artifact.EvidencePack) artifact.HookBundle {
	bundle := artifact.HookBundle{UnitID: unit.ID, Arm: draft.Arm}
	switch draft.Status {
	case artifact.StatusBlocked:
		bundle.Status = artifact.StatusBlocked
		return bundle
	case artifact.StatusError:
		bundle.Status = artifact.StatusSkipped
		return bundle
	}

	candidates := e.diverge(ctx, draft, pack)
	results := e.gateAll(ctx, unit, candidates, pack)

	for round := 0; round < e.maxRepairRounds(); round++ {
		if allPass(candidates, results) {
			break
		}
		repaired := e.repairRound(ctx, candidates, results, pack)
		if same(repaired, candidates) {
			break
		}
		candidates = repaired
		results = e.gateAll(ctx, unit, candidates, pack)
	}

	bundle.Variants, bundle.Flags = e.rank(candidates, results)
	bundle.Status = artifact.StatusOK
	return bundle
}

func allPass(candidates []artifact.HookCandidate, results map[string]artifact.HookGateResult) bool {
	for _, c := range candidates {
		if c.IsAnchor() {
			continue
		}
		if res, ok := results[c.ID]; !ok || !res.Pass {
			return false
		}
	}
	return true
}

func same(a, b []artifact.HookCandidate) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID || a[i].Copy != b[i].Copy {
			return false
		}
	}
	return true
}
