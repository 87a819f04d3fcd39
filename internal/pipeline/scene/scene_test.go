package scene

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"adforge/internal/artifact"
	"adforge/internal/llm"
)

type fakeLLM struct {
	byPhase map[string][]json.RawMessage
	calls   map[string]int
}

func (f *fakeLLM) Name() string                { return "fake" }
func (f *fakeLLM) Close() error                { return nil }
func (f *fakeLLM) CountTokens(text string) int { return len(text) / 4 }

func (f *fakeLLM) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	phase := llm.PhaseFrom(ctx)
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	i := f.calls[phase]
	f.calls[phase]++
	if q := f.byPhase[phase]; i < len(q) {
		return q[i], nil
	}
	return json.RawMessage(`{}`), nil
}

func testPack() artifact.EvidencePack {
	return artifact.EvidencePack{
		UnitID: "bu-problem_aware-pain-1",
		VoCQuotes: []artifact.EvidenceRef{
			{EvidenceID: "voc-1", Kind: artifact.EvidenceVoC, Text: "my knees ache"},
		},
		Proofs: []artifact.EvidenceRef{
			{EvidenceID: "proof-1", Kind: artifact.EvidenceProof, Text: "82% relief"},
		},
		Mechanisms: []artifact.EvidenceRef{
			{EvidenceID: "mech-1", Kind: artifact.EvidenceMechanism, Text: "collagen rebuild"},
		},
	}
}

func testDraft() artifact.CoreScriptDraft {
	mk := func(id, section, text string) artifact.ScriptLine {
		return artifact.ScriptLine{ID: id, Section: section, Text: text, EvidenceIDs: []string{"voc-1"}}
	}
	return artifact.CoreScriptDraft{
		UnitID: "bu-problem_aware-pain-1",
		Arm:    artifact.ArmControl,
		Status: artifact.StatusOK,
		Lines: []artifact.ScriptLine{
			mk("l1", artifact.SectionHook, "Your knees were not built to ache at 40"),
			mk("l2", artifact.SectionProblem, "Every morning the first steps hurt the most"),
			mk("l3", artifact.SectionMechanism, "Cartilage wears down faster than it rebuilds"),
			mk("l4", artifact.SectionProof, "82% of people reported relief in four weeks"),
			mk("l5", artifact.SectionCTA, "Try the peptides your joints are missing"),
		},
	}
}

func testHook() artifact.HookVariant {
	return artifact.HookVariant{
		HookCandidate: artifact.HookCandidate{
			ID:   "hc-anchor",
			Lane: artifact.LaneScriptAnchor,
			Copy: "Your knees were not built to ache at 40",
		},
		Rank: 1,
	}
}

func TestSplitBeatsShortLine(t *testing.T) {
	lines := []artifact.ScriptLine{
		{ID: "l1", Text: "Your knees were not built to ache daily", EvidenceIDs: []string{"voc-1"}},
	}
	beats := SplitBeats(lines)
	if len(beats) != 1 {
		t.Fatalf("nine-word line should stay a single beat, got %d", len(beats))
	}
	b := beats[0]
	if b.ID != "l1-b1" || b.SourceScriptLineID != "l1" || b.BeatIndex != 1 {
		t.Fatalf("beat identity wrong: %+v", b)
	}
	if b.Text != lines[0].Text {
		t.Fatalf("beat text altered: %q", b.Text)
	}
}

func TestSplitBeatsLongLineTwoBeats(t *testing.T) {
	text := "Every single morning when you get out of bed the very first steps of the day hurt far more than they should"
	lines := []artifact.ScriptLine{{ID: "l2", Text: text, EvidenceIDs: []string{"voc-1"}}}
	beats := SplitBeats(lines)
	if len(beats) != 2 {
		t.Fatalf("long line should split into two beats, got %d", len(beats))
	}
	for i, b := range beats {
		if b.SourceScriptLineID != "l2" {
			t.Fatalf("beat %d lost lineage: %+v", i, b)
		}
		if b.BeatIndex != i+1 {
			t.Fatalf("beat index = %d, want %d", b.BeatIndex, i+1)
		}
		if len(strings.Fields(b.Text)) < minFragmentWords {
			t.Fatalf("fragment too short: %q", b.Text)
		}
	}
	joined := strings.Fields(beats[0].Text + " " + beats[1].Text)
	if len(joined) != len(strings.Fields(text)) {
		t.Fatalf("words lost in split: %v", joined)
	}
}

func TestSplitBeatsClauseBoundary(t *testing.T) {
	lines := []artifact.ScriptLine{
		{ID: "l3", Text: "The mornings hurt the most, and the evenings are not much better"},
	}
	beats := SplitBeats(lines)
	if len(beats) != 2 {
		t.Fatalf("two-clause line should split, got %d beats", len(beats))
	}
	if beats[0].Text != "The mornings hurt the most" {
		t.Fatalf("first fragment = %q", beats[0].Text)
	}
}

func TestSplitBeatsRuntMerge(t *testing.T) {
	// Single clause boundary sits two words in; the runt fragment must merge
	// back so the line stays whole.
	text := "So then, the whole rest of this line keeps going for quite a while without any pause at all"
	beats := SplitBeats([]artifact.ScriptLine{{ID: "l4", Text: text}})
	if len(beats) != 1 {
		t.Fatalf("runt fragment should merge back, got %d beats", len(beats))
	}
	if beats[0].Text != text {
		t.Fatalf("merged text altered: %q", beats[0].Text)
	}
}

func TestSplitBeatsSkipsEmptyLines(t *testing.T) {
	beats := SplitBeats([]artifact.ScriptLine{
		{ID: "l1", Text: "  "},
		{ID: "l2", Text: "A real line here"},
	})
	if len(beats) != 1 || beats[0].SourceScriptLineID != "l2" {
		t.Fatalf("empty lines must not produce beats: %+v", beats)
	}
}

func validLines(beats []artifact.Beat) []artifact.SceneLinePlan {
	allowed := testPack().AllowedIDs()
	lines := make([]artifact.SceneLinePlan, 0, len(beats))
	for i, b := range beats {
		lines = append(lines, fallbackLine(i, b, allowed))
	}
	return lines
}

func TestGateCoverage(t *testing.T) {
	beats := SplitBeats(testDraft().Lines)
	plan := artifact.ScenePlan{UnitID: "u", Lines: validLines(beats)}

	// Drop one line and duplicate another.
	plan.Lines = plan.Lines[:len(plan.Lines)-1]
	plan.Lines = append(plan.Lines, plan.Lines[0])

	_, report := Gate(plan, beats, testPack())
	if report.Coverage {
		t.Fatalf("coverage should fail: %+v", report)
	}
	if len(report.MissingBeatIDs) != 1 || len(report.DuplicateBeatIDs) != 1 {
		t.Fatalf("missing=%v duplicates=%v", report.MissingBeatIDs, report.DuplicateBeatIDs)
	}
	if report.OverallPass {
		t.Fatal("overall pass with broken coverage")
	}
}

func TestGateUnknownBeatID(t *testing.T) {
	beats := SplitBeats(testDraft().Lines)
	plan := artifact.ScenePlan{UnitID: "u", Lines: validLines(beats)}
	plan.Lines[0].BeatID = "zz-b1"

	_, report := Gate(plan, beats, testPack())
	if report.Coverage {
		t.Fatalf("coverage should fail: %+v", report)
	}
	if len(report.UnknownBeatIDs) != 1 || report.UnknownBeatIDs[0] != "zz-b1" {
		t.Fatalf("unknown = %v", report.UnknownBeatIDs)
	}
	if len(report.DuplicateBeatIDs) != 0 {
		t.Fatalf("an unknown ID is not a duplicate: %v", report.DuplicateBeatIDs)
	}
	// The real beat the line abandoned is now uncovered.
	if len(report.MissingBeatIDs) != 1 {
		t.Fatalf("missing = %v", report.MissingBeatIDs)
	}
}

func TestGatePacingRewrite(t *testing.T) {
	beats := SplitBeats(testDraft().Lines)
	plan := artifact.ScenePlan{UnitID: "u", Lines: validLines(beats)}
	for i := range plan.Lines {
		plan.Lines[i].Mode = artifact.ModeARoll
		plan.Lines[i].Direction = defaultDirection(artifact.ModeARoll)
	}

	fixed, report := Gate(plan, beats, testPack())
	for i := 1; i < len(fixed.Lines); i++ {
		if fixed.Lines[i-1].Mode == artifact.ModeARoll && fixed.Lines[i].Mode == artifact.ModeARoll {
			t.Fatalf("adjacent a_roll survived at %d: %+v", i, fixed.Lines)
		}
	}
	if len(report.PacingRewrites) == 0 {
		t.Fatal("rewrites must be recorded in the report")
	}
	if !report.PacingValid || !report.OverallPass {
		t.Fatalf("rewritten plan should pass: %+v", report)
	}
	if fixed.LongestModeRun > 1 {
		t.Fatalf("derived longest run = %d after alternating rewrite", fixed.LongestModeRun)
	}
	for _, id := range report.PacingRewrites {
		for _, l := range fixed.Lines {
			if l.ID == id && l.Direction == defaultDirection(artifact.ModeARoll) {
				t.Fatalf("rewritten line %s kept a_roll direction", id)
			}
		}
	}
}

func TestGatePacingRewriteReplacesCustomDirection(t *testing.T) {
	beats := SplitBeats(testDraft().Lines)
	plan := artifact.ScenePlan{UnitID: "u", Lines: validLines(beats)}
	for i := range plan.Lines {
		plan.Lines[i].Mode = artifact.ModeARoll
		plan.Lines[i].Direction = "Lean into the lens and deliver it slowly"
	}

	fixed, report := Gate(plan, beats, testPack())
	if len(report.PacingRewrites) == 0 {
		t.Fatal("expected pacing rewrites")
	}
	for _, id := range report.PacingRewrites {
		for _, l := range fixed.Lines {
			if l.ID == id && l.Direction != defaultDirection(artifact.ModeBRoll) {
				t.Fatalf("line %s kept its a_roll delivery note after mode rewrite: %q", id, l.Direction)
			}
		}
	}
}

func TestGateEvidenceAndDurations(t *testing.T) {
	beats := SplitBeats(testDraft().Lines)
	plan := artifact.ScenePlan{UnitID: "u", Lines: validLines(beats)}
	plan.Lines[1].EvidenceIDs = []string{"stray-1"}
	plan.Lines[2].DurationSec = 0.2
	plan.Lines[3].DurationSec = 45

	_, report := Gate(plan, beats, testPack())
	if report.EvidenceValid {
		t.Fatal("foreign evidence ID should fail")
	}
	if len(report.DurationFailures) != 2 {
		t.Fatalf("duration failures = %v", report.DurationFailures)
	}
	if report.OverallPass {
		t.Fatal("overall pass with invalid lines")
	}
}

func TestRepairConverges(t *testing.T) {
	beats := SplitBeats(testDraft().Lines)
	plan := artifact.ScenePlan{UnitID: "u", Lines: validLines(beats)}
	plan.Lines[0].Mode = "drone_shot"
	plan.Lines[0].Direction = ""
	plan.Lines[1].Description = ""
	plan.Lines[1].DurationSec = 99
	plan.Lines[2].EvidenceIDs = []string{"stray-1"}
	plan.Lines = plan.Lines[:len(plan.Lines)-1] // drop one beat entirely

	repaired := Repair(plan, beats, testPack())
	if len(repaired.Lines) != len(beats) {
		t.Fatalf("repair must restore full coverage: %d lines for %d beats", len(repaired.Lines), len(beats))
	}
	_, report := Gate(repaired, beats, testPack())
	if !report.OverallPass {
		t.Fatalf("one repair round must converge: %+v", report)
	}
	if repaired.Lines[1].Description == "" {
		t.Fatal("empty description should fall back to beat text")
	}
	if artifact.ValidSceneMode("drone_shot") {
		t.Fatal("test premise broken: drone_shot should be invalid")
	}
	if !artifact.ValidSceneMode(repaired.Lines[0].Mode) {
		t.Fatalf("invalid mode not coerced: %q", repaired.Lines[0].Mode)
	}
	for _, id := range repaired.Lines[2].EvidenceIDs {
		if id == "stray-1" {
			t.Fatal("foreign evidence ID survived repair")
		}
	}
}

func TestRepairDropsInheritedForeignEvidence(t *testing.T) {
	// Beats inherit their script line's citations, and those can point
	// outside the pack when the script's own gate failed upstream. The
	// repair fallback must not reinstate them.
	draft := testDraft()
	for i := range draft.Lines {
		draft.Lines[i].EvidenceIDs = []string{"foreign-1"}
	}
	beats := SplitBeats(draft.Lines)
	plan := artifact.ScenePlan{UnitID: "u", Lines: validLines(beats)}
	for i := range plan.Lines {
		plan.Lines[i].EvidenceIDs = []string{"foreign-1"}
	}

	repaired := Repair(plan, beats, testPack())
	for _, l := range repaired.Lines {
		for _, id := range l.EvidenceIDs {
			if id == "foreign-1" {
				t.Fatalf("line %s still cites foreign evidence", l.ID)
			}
		}
	}
	_, report := Gate(repaired, beats, testPack())
	if !report.EvidenceValid || !report.OverallPass {
		t.Fatalf("repair must converge despite foreign inherited citations: %+v", report)
	}
}

func TestEngineRunForeignScriptEvidence(t *testing.T) {
	draft := testDraft()
	for i := range draft.Lines {
		draft.Lines[i].EvidenceIDs = []string{"foreign-1"}
	}
	e := &Engine{LLM: &fakeLLM{}}
	res := e.Run(context.Background(), draft, testHook(), testPack())
	if !res.Report.OverallPass {
		t.Fatalf("plan should pass once foreign citations are shed: %+v", res.Report)
	}
	if res.Plan.Status != artifact.StatusOK {
		t.Fatalf("status = %q", res.Plan.Status)
	}
	for _, l := range res.Plan.Lines {
		for _, id := range l.EvidenceIDs {
			if id == "foreign-1" {
				t.Fatalf("line %s carries foreign evidence", l.ID)
			}
		}
	}
}

func TestEngineRunShortCircuits(t *testing.T) {
	fake := &fakeLLM{}
	e := &Engine{LLM: fake}

	blocked := testDraft()
	blocked.Status = artifact.StatusBlocked
	res := e.Run(context.Background(), blocked, testHook(), testPack())
	if res.Plan.Status != artifact.StatusBlocked {
		t.Fatalf("status = %q, want blocked", res.Plan.Status)
	}

	failed := testDraft()
	failed.Status = artifact.StatusError
	res = e.Run(context.Background(), failed, testHook(), testPack())
	if res.Plan.Status != artifact.StatusSkipped {
		t.Fatalf("status = %q, want skipped", res.Plan.Status)
	}
	if len(fake.calls) != 0 {
		t.Fatalf("short-circuit must not reach the model: %v", fake.calls)
	}
}

func TestEngineRunDeterministicFallback(t *testing.T) {
	// The model returns nothing useful; deterministic fill plus the gate must
	// still produce a complete, passing plan.
	e := &Engine{LLM: &fakeLLM{}}
	res := e.Run(context.Background(), testDraft(), testHook(), testPack())
	if res.Plan.Status != artifact.StatusOK {
		t.Fatalf("status = %q", res.Plan.Status)
	}
	if len(res.Plan.Lines) != len(res.Beats) {
		t.Fatalf("%d lines for %d beats", len(res.Plan.Lines), len(res.Beats))
	}
	if !res.Report.OverallPass {
		t.Fatalf("fallback plan should pass the gate: %+v", res.Report)
	}
	seen := map[string]bool{}
	for i, l := range res.Plan.Lines {
		if seen[l.BeatID] {
			t.Fatalf("beat %s covered twice", l.BeatID)
		}
		seen[l.BeatID] = true
		if l.DurationSec < MinDurationSec || l.DurationSec > MaxDurationSec {
			t.Fatalf("line %s duration %v out of bounds", l.ID, l.DurationSec)
		}
		if i > 0 && res.Plan.Lines[i-1].Mode == artifact.ModeARoll && l.Mode == artifact.ModeARoll {
			t.Fatalf("adjacent a_roll at %d", i)
		}
	}
	if res.Plan.TotalDurationSec <= 0 {
		t.Fatal("derived totals missing")
	}
}

func TestPolishRewritesDescriptionsOnly(t *testing.T) {
	resp, _ := json.Marshal(map[string]any{"descriptions": []map[string]any{
		{"line_id": "sl-1", "description": "Tight close-up on stiff knees flexing"},
		{"line_id": "sl-99", "description": "no such line"},
	}})
	e := &Engine{LLM: &fakeLLM{byPhase: map[string][]json.RawMessage{"scene_polish": {resp}}}}
	beats := SplitBeats(testDraft().Lines)
	plan := artifact.ScenePlan{UnitID: "u", Lines: validLines(beats)}
	before := plan.Lines[0]

	out := e.polish(context.Background(), plan)
	if out.Lines[0].Description != "Tight close-up on stiff knees flexing" {
		t.Fatalf("description not polished: %q", out.Lines[0].Description)
	}
	if out.Lines[0].Mode != before.Mode || out.Lines[0].DurationSec != before.DurationSec ||
		out.Lines[0].BeatID != before.BeatID {
		t.Fatalf("polish touched more than the description: %+v", out.Lines[0])
	}
	if out.Lines[1].Description != plan.Lines[1].Description {
		t.Fatal("unmatched line should keep its description")
	}
}
