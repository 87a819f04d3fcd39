package brief

import (
	"fmt"
	"sort"

	"adforge/internal/artifact"
	"adforge/internal/jsonutil"
)

// SamplingMode selects how cells are drained into units.
type SamplingMode string

const (
	// ModeRoundRobin takes one unit per cell per pass so no cell dominates
	// the pilot sample just because it sorts first.
	ModeRoundRobin SamplingMode = "round_robin"
	// ModeFlatten drains each cell completely before moving to the next.
	ModeFlatten SamplingMode = "flatten"
)

// Expander turns a planning matrix into an ordered, deterministic list of
// brief units. No randomness anywhere: two calls with identical input
// produce identical ordered ID lists.
type Expander struct {
	Mode SamplingMode
}

// Expand produces at most pilot units. Cells are first sorted by
// (awareness index, emotion index) so output order is independent of input
// order; ordinals run 1..N within each cell.
func (e *Expander) Expand(plan artifact.PlanMatrix, pilot int) ([]artifact.BriefUnit, error) {
	if pilot <= 0 {
		return nil, fmt.Errorf("brief: pilot size must be positive, got %d", pilot)
	}
	cells := make([]artifact.MatrixCell, 0, len(plan.Cells))
	for _, c := range plan.Cells {
		if c.TargetCount <= 0 {
			continue
		}
		if plan.AwarenessIndex(c.AwarenessLevel) < 0 {
			return nil, fmt.Errorf("brief: unknown awareness level %q", c.AwarenessLevel)
		}
		if plan.EmotionIndex(c.EmotionKey) < 0 {
			return nil, fmt.Errorf("brief: unknown emotion key %q", c.EmotionKey)
		}
		cells = append(cells, c)
	}
	sort.SliceStable(cells, func(i, j int) bool {
		ai, aj := plan.AwarenessIndex(cells[i].AwarenessLevel), plan.AwarenessIndex(cells[j].AwarenessLevel)
		if ai != aj {
			return ai < aj
		}
		return plan.EmotionIndex(cells[i].EmotionKey) < plan.EmotionIndex(cells[j].EmotionKey)
	})

	hash := jsonutil.Fingerprint(plan)
	mode := e.Mode
	if mode == "" {
		mode = ModeRoundRobin
	}
	switch mode {
	case ModeRoundRobin:
		return roundRobin(cells, pilot, hash), nil
	case ModeFlatten:
		return flatten(cells, pilot, hash), nil
	default:
		return nil, fmt.Errorf("brief: unknown sampling mode %q", mode)
	}
}

func roundRobin(cells []artifact.MatrixCell, pilot int, hash string) []artifact.BriefUnit {
	var units []artifact.BriefUnit
	taken := make([]int, len(cells))
	for len(units) < pilot {
		progressed := false
		for i, c := range cells {
			if len(units) >= pilot {
				break
			}
			if taken[i] >= c.TargetCount {
				continue
			}
			taken[i]++
			units = append(units, newUnit(c, taken[i], hash))
			progressed = true
		}
		if !progressed {
			break
		}
	}
	return units
}

func flatten(cells []artifact.MatrixCell, pilot int, hash string) []artifact.BriefUnit {
	var units []artifact.BriefUnit
	for _, c := range cells {
		for n := 1; n <= c.TargetCount; n++ {
			if len(units) >= pilot {
				return units
			}
			units = append(units, newUnit(c, n, hash))
		}
	}
	return units
}

func newUnit(c artifact.MatrixCell, ordinal int, hash string) artifact.BriefUnit {
	return artifact.BriefUnit{
		ID:             artifact.UnitID(c.AwarenessLevel, c.EmotionKey, ordinal),
		AwarenessLevel: c.AwarenessLevel,
		EmotionKey:     c.EmotionKey,
		Ordinal:        ordinal,
		PlanHash:       hash,
	}
}
