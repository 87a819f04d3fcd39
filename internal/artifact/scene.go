package artifact

// SceneMode is the closed set of shot modes.
type SceneMode string

const (
	ModeARoll          SceneMode = "a_roll"
	ModeBRoll          SceneMode = "b_roll"
	ModeAnimationBRoll SceneMode = "animation_broll"
)

// ValidSceneMode reports whether m is a recognized mode.
func ValidSceneMode(m SceneMode) bool {
	switch m {
	case ModeARoll, ModeBRoll, ModeAnimationBRoll:
		return true
	}
	return false
}

// Beat is the smallest filmable unit, split from one script line. A beat
// always retains lineage back to the single source line it came from.
type Beat struct {
	ID                 string   `json:"id"`
	SourceScriptLineID string   `json:"source_script_line_id"`
	BeatIndex          int      `json:"beat_index"`
	Text               string   `json:"text"`
	EvidenceIDs        []string `json:"evidence_ids"`
}

// SceneLinePlan is one shot covering exactly one beat.
type SceneLinePlan struct {
	ID                 string    `json:"id"`
	BeatID             string    `json:"beat_id"`
	SourceScriptLineID string    `json:"source_script_line_id"`
	BeatIndex          int       `json:"beat_index"`
	Mode               SceneMode `json:"mode"`
	Description        string    `json:"description"`
	Direction          string    `json:"direction"`
	DurationSec        float64   `json:"duration_sec"`
	EvidenceIDs        []string  `json:"evidence_ids"`
	Difficulty         int       `json:"difficulty"`
}

// ScenePlan aggregates all scene lines for one (unit, hook, arm) with
// derived totals. Plans are replaced wholesale on repair, never patched.
type ScenePlan struct {
	UnitID           string          `json:"unit_id"`
	Arm              Arm             `json:"arm"`
	HookID           string          `json:"hook_id"`
	Status           string          `json:"status"`
	Lines            []SceneLinePlan `json:"lines,omitempty"`
	TotalDurationSec float64         `json:"total_duration_sec"`
	ARollCount       int             `json:"a_roll_count"`
	BRollCount       int             `json:"b_roll_count"`
	AnimationCount   int             `json:"animation_count"`
	LongestModeRun   int             `json:"longest_mode_run"`
}

// Recompute refreshes the derived totals from the current lines.
func (p *ScenePlan) Recompute() {
	p.TotalDurationSec = 0
	p.ARollCount, p.BRollCount, p.AnimationCount = 0, 0, 0
	p.LongestModeRun = 0
	run := 0
	var prev SceneMode
	for _, l := range p.Lines {
		p.TotalDurationSec += l.DurationSec
		switch l.Mode {
		case ModeARoll:
			p.ARollCount++
		case ModeBRoll:
			p.BRollCount++
		case ModeAnimationBRoll:
			p.AnimationCount++
		}
		if l.Mode == prev {
			run++
		} else {
			run = 1
			prev = l.Mode
		}
		if run > p.LongestModeRun {
			p.LongestModeRun = run
		}
	}
}

// SceneGateReport records per-axis pass/fail plus the line IDs that failed
// each axis. OverallPass requires all five axes.
type SceneGateReport struct {
	Coverage         bool     `json:"coverage"`
	ModesValid       bool     `json:"modes_valid"`
	EvidenceValid    bool     `json:"evidence_valid"`
	DurationsValid   bool     `json:"durations_valid"`
	PacingValid      bool     `json:"pacing_valid"`
	MissingBeatIDs   []string `json:"missing_beat_ids,omitempty"`
	DuplicateBeatIDs []string `json:"duplicate_beat_ids,omitempty"`
	UnknownBeatIDs   []string `json:"unknown_beat_ids,omitempty"`
	ModeFailures     []string `json:"mode_failures,omitempty"`
	EvidenceFailures []string `json:"evidence_failures,omitempty"`
	DurationFailures []string `json:"duration_failures,omitempty"`
	PacingRewrites   []string `json:"pacing_rewrites,omitempty"`
	OverallPass      bool     `json:"overall_pass"`
}
