package llmtool

import (
	"strings"
	"testing"
)

type sampleOut struct {
	Title    string   `json:"title" prompt_desc:"Headline text."`
	Count    int      `json:"count"`
	Tags     []string `json:"tags" prompt:"optional"`
	Internal string   `json:"internal" prompt:"-"`
	hidden   string
}

var _ = sampleOut{}.hidden

func TestFieldsFromStruct(t *testing.T) {
	fields, err := FieldsFromStruct(sampleOut{})
	if err != nil {
		t.Fatalf("FieldsFromStruct: %v", err)
	}
	if len(fields) != 3 {
		t.Fatalf("got %d fields, want 3: %+v", len(fields), fields)
	}
	if fields[0].Name != "title" || fields[0].Type != "string" || !fields[0].Required {
		t.Fatalf("title field = %+v", fields[0])
	}
	if fields[0].Description != "Headline text." {
		t.Fatalf("description = %q", fields[0].Description)
	}
	if fields[1].Name != "count" || fields[1].Type != "integer" {
		t.Fatalf("count field = %+v", fields[1])
	}
	if fields[2].Name != "tags" || fields[2].Type != "array" || fields[2].Required {
		t.Fatalf("tags field = %+v", fields[2])
	}
}

func TestFieldsFromStructPointer(t *testing.T) {
	fields, err := FieldsFromStruct(&sampleOut{})
	if err != nil {
		t.Fatalf("pointer input: %v", err)
	}
	if len(fields) != 3 {
		t.Fatalf("got %d fields", len(fields))
	}
}

func TestFieldsFromStructRejectsNonStruct(t *testing.T) {
	if _, err := FieldsFromStruct(42); err == nil {
		t.Fatal("expected error for non-struct input")
	}
	if _, err := FieldsFromStruct(nil); err == nil {
		t.Fatal("expected error for nil input")
	}
}

func TestBuildPromptSections(t *testing.T) {
	spec := StructuredPromptSpec{
		Purpose:      "Summarize the input.",
		Background:   "Context goes here.",
		OutputFields: MustFieldsFromStruct(sampleOut{}),
		Constraints:  []string{"Keep it short."},
		OutputFormat: "JSON only.",
		Language:     "English",
	}
	prompt, err := BuildPrompt(spec, map[string]string{"text": "hello world"})
	if err != nil {
		t.Fatalf("BuildPrompt: %v", err)
	}
	for _, section := range []string{"[PURPOSE]", "[BACKGROUND]", "[INPUT]", "[OUTPUT]", "[CONSTRAINTS]", "[OUTPUT_FORMAT]", "[LANGUAGE]"} {
		if !strings.Contains(prompt, section) {
			t.Fatalf("prompt missing %s:\n%s", section, prompt)
		}
	}
	if strings.Contains(prompt, "[RULES]") {
		t.Fatal("empty sections must be omitted")
	}
	if !strings.Contains(prompt, "- title (string, required): Headline text.") {
		t.Fatalf("field rendering wrong:\n%s", prompt)
	}
	if !strings.Contains(prompt, `"text": "hello world"`) {
		t.Fatalf("input payload missing:\n%s", prompt)
	}
}

func TestBuildPromptRequiresPurposeAndFields(t *testing.T) {
	if _, err := BuildPrompt(StructuredPromptSpec{OutputFields: MustFieldsFromStruct(sampleOut{})}, nil); err == nil {
		t.Fatal("expected error for empty purpose")
	}
	if _, err := BuildPrompt(StructuredPromptSpec{Purpose: "p"}, nil); err == nil {
		t.Fatal("expected error for empty output fields")
	}
}

func TestApplyPresetsPrepends(t *testing.T) {
	spec := StructuredPromptSpec{
		Purpose:     "p",
		Constraints: []string{"own constraint"},
	}
	out := ApplyPresets(spec, PresetStrictJSON(), PresetEvidenceOnly())
	if len(out.Constraints) != 6 {
		t.Fatalf("got %d constraints: %v", len(out.Constraints), out.Constraints)
	}
	if out.Constraints[len(out.Constraints)-1] != "own constraint" {
		t.Fatalf("spec's own constraints must come last: %v", out.Constraints)
	}
	if out.Constraints[0] != "Return strict JSON only." {
		t.Fatalf("preset order lost: %v", out.Constraints)
	}
}
