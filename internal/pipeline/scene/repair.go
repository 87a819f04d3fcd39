package scene

import (
	"fmt"
	"strings"

	"adforge/internal/artifact"
)

// Repair is deterministic, not generative: for every known beat it reuses
// and coerces the existing line into a valid state from its own content and
// the fallback templates. One bounded round is always enough to converge.
func Repair(plan artifact.ScenePlan, beats []artifact.Beat, pack artifact.EvidencePack) artifact.ScenePlan {
	byBeat := make(map[string]artifact.SceneLinePlan, len(plan.Lines))
	for _, l := range plan.Lines {
		if _, dup := byBeat[l.BeatID]; dup {
			continue // keep the first occurrence, drop duplicates
		}
		byBeat[l.BeatID] = l
	}

	allowed := pack.AllowedIDs()
	repaired := artifact.ScenePlan{
		UnitID: plan.UnitID,
		Arm:    plan.Arm,
		HookID: plan.HookID,
		Status: plan.Status,
	}
	for i, b := range beats {
		l, ok := byBeat[b.ID]
		if !ok {
			repaired.Lines = append(repaired.Lines, fallbackLine(i, b, allowed))
			continue
		}
		l.ID = fmt.Sprintf("sl-%d", i+1)
		l.SourceScriptLineID = b.SourceScriptLineID
		l.BeatIndex = b.BeatIndex
		if !artifact.ValidSceneMode(l.Mode) {
			l.Mode = artifact.ModeBRoll
		}
		if strings.TrimSpace(l.Description) == "" {
			l.Description = b.Text
		}
		if strings.TrimSpace(l.Direction) == "" {
			l.Direction = defaultDirection(l.Mode)
		}
		if l.DurationSec < MinDurationSec || l.DurationSec > MaxDurationSec {
			l.DurationSec = defaultDuration(b.Text)
		}
		kept := allowedSubset(l.EvidenceIDs, allowed)
		if len(kept) == 0 {
			kept = allowedSubset(b.EvidenceIDs, allowed)
		}
		l.EvidenceIDs = kept
		if l.Difficulty < 1 || l.Difficulty > 5 {
			l.Difficulty = 1
		}
		repaired.Lines = append(repaired.Lines, l)
	}
	repaired.Recompute()
	return repaired
}
