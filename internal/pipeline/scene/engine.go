package scene

import (
	"context"

	"adforge/internal/artifact"
	"adforge/internal/llm"
)

// Engine runs beat split -> draft -> gate -> repair -> polish for one
// (unit, hook, arm). Repair is a single bounded deterministic round.
type Engine struct {
	LLM llm.LLMClient
}

// Result pairs the finished plan with its final gate report.
type Result struct {
	Plan   artifact.ScenePlan
	Report artifact.SceneGateReport
	Beats  []artifact.Beat
}

// Run consumes a completed script and a selected hook variant. A blocked or
// failed draft short-circuits without any generation call.
func (e *Engine) Run(ctx context.Context, draft artifact.CoreScriptDraft, hook artifact.HookVariant, pack artifact.EvidencePack) Result {
	plan := artifact.ScenePlan{UnitID: draft.UnitID, Arm: draft.Arm, HookID: hook.ID}
	switch draft.Status {
	case artifact.StatusBlocked:
		plan.Status = artifact.StatusBlocked
		return Result{Plan: plan}
	case artifact.StatusError:
		plan.Status = artifact.StatusSkipped
		return Result{Plan: plan}
	}

	beats := SplitBeats(draft.Lines)
	plan.Lines = e.draft(ctx, beats, hook, pack)
	plan.Recompute()

	plan, report := Gate(plan, beats, pack)
	if !report.OverallPass {
		plan = Repair(plan, beats, pack)
		plan, report = Gate(plan, beats, pack)
	}

	plan = e.polish(ctx, plan)
	plan.Status = artifact.StatusOK
	if !report.OverallPass {
		plan.Status = artifact.StatusError
	}
	return Result{Plan: plan, Report: report, Beats: beats}
}
