package scene

import (
	"context"
	"fmt"
	"strings"

	"adforge/internal/artifact"
	"adforge/internal/jsonutil"
	"adforge/internal/llm"
	"adforge/internal/llmtool"
)

// Duration bounds per scene line, seconds.
const (
	MinDurationSec = 1.0
	MaxDurationSec = 10.0
	wordsPerSecond = 2.3
)

type sceneLineOut struct {
	BeatID      string   `json:"beat_id" prompt_desc:"ID of the beat this shot covers."`
	Mode        string   `json:"mode" prompt_desc:"One of: a_roll, b_roll, animation_broll."`
	Description string   `json:"description" prompt_desc:"What the viewer sees and hears during this beat."`
	Direction   string   `json:"direction" prompt_desc:"Mode-appropriate direction: delivery notes for a_roll, footage notes for b_roll, motion notes for animation_broll."`
	DurationSec float64  `json:"duration_sec" prompt_desc:"Shot duration in seconds."`
	EvidenceIDs []string `json:"evidence_ids" prompt_desc:"Evidence IDs from the pack grounding this shot."`
	Difficulty  int      `json:"difficulty" prompt_desc:"1-5 production difficulty."`
}

type scenePromptOut struct {
	Lines []sceneLineOut `json:"lines" prompt_desc:"Exactly one line per beat, in beat order."`
}

var scenePromptSpec = llmtool.ApplyPresets(llmtool.StructuredPromptSpec{
	Purpose:      "Plan a shot-by-shot scene breakdown for a short-form video ad, one shot per beat.",
	Background:   "The selected opening hook plays first; the shots must carry the script's beats in order without skipping any.",
	OutputFields: llmtool.MustFieldsFromStruct(scenePromptOut{}),
	Constraints: []string{
		"Cover every beat exactly once.",
		"Alternate between talking-head and cutaway footage; avoid long same-mode stretches.",
	},
	OutputFormat: "JSON only.",
	Language:     "English",
}, llmtool.PresetStrictJSON(), llmtool.PresetEvidenceOnly())

// draft requests one scene line per beat. Beats missing from the response
// are filled deterministically (alternating mode, templated direction) so
// line coverage is always 1:1 with beats.
func (e *Engine) draft(ctx context.Context, beats []artifact.Beat, hook artifact.HookVariant, pack artifact.EvidencePack) []artifact.SceneLinePlan {
	allowed := pack.AllowedIDs()
	byBeat := make(map[string]sceneLineOut)
	input := map[string]any{
		"beats":         beats,
		"hook":          hook.Copy,
		"evidence_pack": pack,
	}
	prompt, err := llmtool.BuildPrompt(scenePromptSpec, input)
	if err == nil {
		raw, gerr := e.LLM.GenerateJSON(llm.WithPhase(ctx, "scene_draft"), prompt, input)
		if gerr == nil {
			var out scenePromptOut
			if uerr := jsonutil.UnmarshalRaw(raw, &out); uerr == nil {
				for _, l := range out.Lines {
					if strings.TrimSpace(l.BeatID) == "" {
						continue
					}
					if _, dup := byBeat[l.BeatID]; dup {
						continue
					}
					byBeat[l.BeatID] = l
				}
			}
		}
	}

	lines := make([]artifact.SceneLinePlan, 0, len(beats))
	for i, b := range beats {
		if l, ok := byBeat[b.ID]; ok {
			lines = append(lines, artifact.SceneLinePlan{
				ID:                 fmt.Sprintf("sl-%d", i+1),
				BeatID:             b.ID,
				SourceScriptLineID: b.SourceScriptLineID,
				BeatIndex:          b.BeatIndex,
				Mode:               artifact.SceneMode(l.Mode),
				Description:        strings.TrimSpace(l.Description),
				Direction:          strings.TrimSpace(l.Direction),
				DurationSec:        l.DurationSec,
				EvidenceIDs:        l.EvidenceIDs,
				Difficulty:         l.Difficulty,
			})
			continue
		}
		lines = append(lines, fallbackLine(i, b, allowed))
	}
	return lines
}

// fallbackLine builds the deterministic fill for a beat the model skipped.
// Inherited citations pass through the same pack filter as model output: a
// beat carries its script line's IDs, and those can be foreign when the
// script's own gate failed upstream.
func fallbackLine(i int, b artifact.Beat, allowed map[string]struct{}) artifact.SceneLinePlan {
	mode := artifact.ModeARoll
	if i%2 == 1 {
		mode = artifact.ModeBRoll
	}
	return artifact.SceneLinePlan{
		ID:                 fmt.Sprintf("sl-%d", i+1),
		BeatID:             b.ID,
		SourceScriptLineID: b.SourceScriptLineID,
		BeatIndex:          b.BeatIndex,
		Mode:               mode,
		Description:        b.Text,
		Direction:          defaultDirection(mode),
		DurationSec:        defaultDuration(b.Text),
		EvidenceIDs:        allowedSubset(b.EvidenceIDs, allowed),
		Difficulty:         1,
	}
}

// allowedSubset keeps only IDs present in the pack. An empty result stays
// empty rather than falling back to the unfiltered input.
func allowedSubset(ids []string, allowed map[string]struct{}) []string {
	var kept []string
	for _, id := range ids {
		if _, ok := allowed[id]; ok {
			kept = append(kept, id)
		}
	}
	return kept
}

func defaultDirection(mode artifact.SceneMode) string {
	switch mode {
	case artifact.ModeARoll:
		return "Speaker to camera, medium close-up, natural delivery."
	case artifact.ModeAnimationBRoll:
		return "Simple animated overlay illustrating the spoken line."
	default:
		return "Cutaway footage matching the spoken line."
	}
}

// defaultDuration derives a spoken-pace duration clamped to bounds.
func defaultDuration(text string) float64 {
	d := float64(len(strings.Fields(text))) / wordsPerSecond
	if d < MinDurationSec {
		return MinDurationSec
	}
	if d > MaxDurationSec {
		return MaxDurationSec
	}
	return d
}
