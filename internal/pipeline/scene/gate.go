package scene

import (
	"adforge/internal/artifact"
)

// Gate validates a scene plan against its beats and evidence pack. Pacing
// is not merely flagged: adjacent a_roll pairs are rewritten in place (the
// second becomes b_roll) and the rewrite is recorded in the report. The
// possibly-rewritten plan is returned alongside the report.
func Gate(plan artifact.ScenePlan, beats []artifact.Beat, pack artifact.EvidencePack) (artifact.ScenePlan, artifact.SceneGateReport) {
	report := artifact.SceneGateReport{}

	// 1) Line coverage: every beat exactly once.
	want := make(map[string]bool, len(beats))
	for _, b := range beats {
		want[b.ID] = false
	}
	report.Coverage = true
	for _, l := range plan.Lines {
		seen, known := want[l.BeatID]
		if !known {
			report.Coverage = false
			report.UnknownBeatIDs = append(report.UnknownBeatIDs, l.BeatID)
			continue
		}
		if seen {
			report.Coverage = false
			report.DuplicateBeatIDs = append(report.DuplicateBeatIDs, l.BeatID)
			continue
		}
		want[l.BeatID] = true
	}
	for _, b := range beats {
		if !want[b.ID] {
			report.Coverage = false
			report.MissingBeatIDs = append(report.MissingBeatIDs, b.ID)
		}
	}

	// 2) Mode validity.
	report.ModesValid = true
	for _, l := range plan.Lines {
		if !artifact.ValidSceneMode(l.Mode) || l.Direction == "" {
			report.ModesValid = false
			report.ModeFailures = append(report.ModeFailures, l.ID)
		}
	}

	// 3) Evidence subset.
	allowed := pack.AllowedIDs()
	report.EvidenceValid = true
	for _, l := range plan.Lines {
		for _, id := range l.EvidenceIDs {
			if _, ok := allowed[id]; !ok {
				report.EvidenceValid = false
				report.EvidenceFailures = append(report.EvidenceFailures, l.ID)
				break
			}
		}
	}

	// 4) Duration sanity.
	report.DurationsValid = true
	for _, l := range plan.Lines {
		if l.DurationSec < MinDurationSec || l.DurationSec > MaxDurationSec {
			report.DurationsValid = false
			report.DurationFailures = append(report.DurationFailures, l.ID)
		}
	}

	// 5) Pacing: hard rewrite, no two consecutive a_roll lines survive.
	for i := 1; i < len(plan.Lines); i++ {
		if plan.Lines[i-1].Mode == artifact.ModeARoll && plan.Lines[i].Mode == artifact.ModeARoll {
			plan.Lines[i].Mode = artifact.ModeBRoll
			// The old direction described an a_roll delivery; it cannot
			// survive the mode change.
			plan.Lines[i].Direction = defaultDirection(artifact.ModeBRoll)
			report.PacingRewrites = append(report.PacingRewrites, plan.Lines[i].ID)
		}
	}
	report.PacingValid = true

	report.OverallPass = report.Coverage && report.ModesValid && report.EvidenceValid &&
		report.DurationsValid && report.PacingValid
	plan.Recompute()
	return plan, report
}
