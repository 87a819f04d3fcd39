package runner

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"adforge/internal/artifact"
	"adforge/internal/llm"
	"adforge/internal/pipeline/absummary"
	"adforge/internal/pipeline/brief"
	"adforge/internal/pipeline/evidence"
	"adforge/internal/pipeline/hook"
	"adforge/internal/pipeline/scene"
	"adforge/internal/pipeline/script"
)

// Batch drives the full pipeline over a planning matrix. Per-unit work is
// embarrassingly parallel and runs on a bounded worker pool; a unit's
// failure never aborts or blocks sibling units. There is no cross-unit
// shared mutable state: results land in index-addressed slots so output
// ordering is independent of completion order.
type Batch struct {
	LLM          llm.LLMClient
	MaxParallel  int
	PilotSize    int
	SamplingMode brief.SamplingMode
	Arms         []artifact.Arm

	Evidence evidence.Builder
	Hooks    hook.Engine
	Scenes   scene.Engine
}

// ArmResult is everything one arm produced for one unit.
type ArmResult struct {
	Draft  artifact.CoreScriptDraft `json:"draft"`
	Hooks  artifact.HookBundle      `json:"hooks"`
	Scene  artifact.ScenePlan       `json:"scene"`
	Report artifact.SceneGateReport `json:"scene_report"`
}

// UnitResult is the terminal state of one brief unit.
type UnitResult struct {
	Unit   artifact.BriefUnit          `json:"unit"`
	Pack   artifact.EvidencePack       `json:"pack"`
	Status string                      `json:"status"`
	Error  string                      `json:"error,omitempty"`
	Arms   map[artifact.Arm]*ArmResult `json:"arms,omitempty"`
}

// BatchResult is the ordered outcome of one run.
type BatchResult struct {
	RunID    string             `json:"run_id"`
	PlanHash string             `json:"plan_hash"`
	Units    []UnitResult       `json:"units"`
	Summary  artifact.ABSummary `json:"summary"`
}

// Run expands the matrix and processes every unit. The only aggregation
// step (the A/B summary) runs after all units complete and reads immutable
// snapshots.
func (b *Batch) Run(ctx context.Context, plan artifact.PlanMatrix, research artifact.ResearchArtifact) (BatchResult, error) {
	expander := &brief.Expander{Mode: b.SamplingMode}
	units, err := expander.Expand(plan, b.pilotSize())
	if err != nil {
		return BatchResult{}, fmt.Errorf("runner: expand matrix: %w", err)
	}

	result := BatchResult{RunID: uuid.NewString(), Units: make([]UnitResult, len(units))}
	if len(units) > 0 {
		result.PlanHash = units[0].PlanHash
	}
	log.Printf("batch %s: %d units, parallel=%d", result.RunID, len(units), b.maxParallel())

	sem := make(chan struct{}, b.maxParallel())
	var wg sync.WaitGroup
	for i, unit := range units {
		wg.Add(1)
		go func(slot int, unit artifact.BriefUnit) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			result.Units[slot] = b.runUnit(ctx, unit, research)
		}(i, unit)
	}
	wg.Wait()

	result.Summary = absummary.Compute(Outcomes(result.Units), nil)
	return result, nil
}

// runUnit executes the per-unit stage chain. Any panic inside a worker is
// converted into a terminal error result for that unit alone.
func (b *Batch) runUnit(ctx context.Context, unit artifact.BriefUnit, research artifact.ResearchArtifact) (res UnitResult) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("unit %s: worker panic: %v", unit.ID, r)
			res = UnitResult{Unit: unit, Status: artifact.StatusError, Error: fmt.Sprintf("worker panic: %v", r)}
		}
	}()

	res = UnitResult{Unit: unit, Arms: make(map[artifact.Arm]*ArmResult)}
	res.Pack = b.Evidence.Build(unit, research)
	if res.Pack.Coverage.Blocked {
		res.Status = artifact.StatusBlocked
	} else {
		res.Status = artifact.StatusOK
	}

	spec := script.CompileSpec(unit, res.Pack)
	drafter := &script.Drafter{LLM: b.LLM}
	hooks := b.Hooks
	hooks.LLM = b.LLM
	scenes := b.Scenes
	scenes.LLM = b.LLM

	for _, arm := range b.arms() {
		ar := &ArmResult{}
		ar.Draft = drafter.Run(ctx, script.DraftIn{Unit: unit, Pack: res.Pack, Spec: spec, Arm: arm})
		ar.Hooks = hooks.Run(ctx, unit, ar.Draft, res.Pack)

		selected := artifact.HookVariant{}
		if len(ar.Hooks.Variants) > 0 {
			selected = ar.Hooks.Variants[0]
		}
		sceneRes := scenes.Run(ctx, ar.Draft, selected, res.Pack)
		ar.Scene = sceneRes.Plan
		ar.Report = sceneRes.Report
		res.Arms[arm] = ar

		if ar.Draft.Status == artifact.StatusError && res.Status == artifact.StatusOK {
			res.Status = artifact.StatusError
			res.Error = ar.Draft.Error
		}
	}
	return res
}

// Outcomes flattens unit results into immutable arm outcome snapshots for
// the A/B computer.
func Outcomes(units []UnitResult) []artifact.ArmOutcome {
	var out []artifact.ArmOutcome
	for _, u := range units {
		for _, arm := range artifact.Arms() {
			ar, ok := u.Arms[arm]
			if !ok {
				continue
			}
			out = append(out, artifact.ArmOutcome{
				UnitID:    u.Unit.ID,
				Arm:       arm,
				Status:    ar.Draft.Status,
				GatePass:  ar.Draft.Gate.Pass && ar.Report.OverallPass,
				LatencyMS: ar.Draft.LatencyMS,
				CostUSD:   ar.Draft.CostUSD,
			})
		}
	}
	return out
}

func (b *Batch) maxParallel() int {
	if b.MaxParallel > 0 {
		return b.MaxParallel
	}
	return 4
}

func (b *Batch) pilotSize() int {
	if b.PilotSize > 0 {
		return b.PilotSize
	}
	return 8
}

func (b *Batch) arms() []artifact.Arm {
	if len(b.Arms) > 0 {
		return b.Arms
	}
	return artifact.Arms()
}
