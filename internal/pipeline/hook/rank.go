package hook

import (
	"sort"
	"strings"

	"adforge/internal/artifact"
)

// Pairwise diversity cap: token-set Jaccard similarity must stay below this
// against every already-selected candidate.
const jaccardCap = 0.6

// rank sorts passing candidates by composite score, greedily selects up to
// the target under the diversity constraint, then relaxes diversity and
// finally the gate-pass requirement to fill the quota. Meta-contaminated
// candidates are never backfilled under any relaxation. The anchor, if
// present, is always rank 1.
func (e *Engine) rank(candidates []artifact.HookCandidate, results map[string]artifact.HookGateResult) ([]artifact.HookVariant, artifact.HookDeficiencyFlags) {
	var flags artifact.HookDeficiencyFlags
	target := e.targetCount()

	type scored struct {
		cand artifact.HookCandidate
		res  artifact.HookGateResult
		comp float64
	}
	var anchor *scored
	var passing, failed []scored
	for _, c := range candidates {
		res := results[c.ID]
		s := scored{cand: c, res: res, comp: composite(res)}
		if c.IsAnchor() {
			a := s
			anchor = &a
			continue
		}
		if !res.MetaFree {
			continue // meta contamination is terminal, never backfilled
		}
		if res.Pass {
			passing = append(passing, s)
		} else {
			failed = append(failed, s)
		}
	}
	byScore := func(list []scored) {
		sort.SliceStable(list, func(i, j int) bool {
			if list[i].comp != list[j].comp {
				return list[i].comp > list[j].comp
			}
			return list[i].cand.ID < list[j].cand.ID
		})
	}
	byScore(passing)
	byScore(failed)

	slots := target
	if anchor != nil {
		slots--
	}

	var selected []scored
	var selectedCopy []string
	statusOf := make(map[string]string)
	pick := func(list []scored, requireDiversity bool, status string) []scored {
		var rest []scored
		for _, s := range list {
			if len(selected) >= slots {
				rest = append(rest, s)
				continue
			}
			if requireDiversity && tooSimilar(s.cand.Copy, selectedCopy) {
				rest = append(rest, s)
				continue
			}
			selected = append(selected, s)
			selectedCopy = append(selectedCopy, s.cand.Copy)
			statusOf[s.cand.ID] = status
		}
		return rest
	}

	remaining := pick(passing, true, artifact.SelectionGated)
	if len(selected) < slots && len(remaining) > 0 {
		flags.DiversityHigh = true
		remaining = pick(remaining, false, artifact.SelectionRelaxed)
	}
	if len(selected) < slots && len(failed) > 0 {
		flags.QualityGateRelax = true
		_ = pick(failed, false, artifact.SelectionQualityReleased)
	}
	if len(selected) < slots {
		flags.TargetShortfall = true
	}

	// Lane coverage check over what was actually selected.
	lanesSeen := map[artifact.HookLane]bool{}
	for _, s := range selected {
		lanesSeen[s.cand.Lane] = true
	}
	if len(lanesSeen) < len(artifact.HookLanes())/2 {
		flags.LaneShortfall = true
	}

	var variants []artifact.HookVariant
	rank := 1
	if anchor != nil {
		variants = append(variants, artifact.HookVariant{
			HookCandidate:   anchor.cand,
			Rank:            rank,
			SelectionStatus: artifact.SelectionPrimary,
			Composite:       anchor.comp,
			Gate:            anchor.res,
		})
		rank++
	}
	for _, s := range selected {
		variants = append(variants, artifact.HookVariant{
			HookCandidate:   s.cand,
			Rank:            rank,
			SelectionStatus: statusOf[s.cand.ID],
			Composite:       s.comp,
			Gate:            s.res,
		})
		rank++
	}
	return variants, flags
}

func composite(res artifact.HookGateResult) float64 {
	return 0.6*float64(res.ScrollStop) + 0.4*float64(res.Specificity)
}

func tooSimilar(text string, against []string) bool {
	for _, prev := range against {
		if jaccard(tokenSet(text), tokenSet(prev)) >= jaccardCap {
			return true
		}
	}
	return false
}

func tokenSet(text string) map[string]struct{} {
	set := map[string]struct{}{}
	for _, w := range strings.Fields(strings.ToLower(text)) {
		w = strings.Trim(w, ".,!?;:\"'")
		if w != "" {
			set[w] = struct{}{}
		}
	}
	return set
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	inter := 0
	for w := range a {
		if _, ok := b[w]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
