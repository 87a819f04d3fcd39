package llm

import (
	"context"
	"encoding/json"
)

// FakeClient returns deterministic, minimal JSON payloads per phase for
// offline runs and tests. The payloads are deliberately sparse: the pipeline
// guarantees validity through deterministic top-up and repair, so a sparse
// model response still produces a complete batch.
type FakeClient struct{}

func NewFakeClient() *FakeClient { return &FakeClient{} }

func (f *FakeClient) Name() string { return "FakeLLM" }
func (f *FakeClient) Close() error { return nil }
func (f *FakeClient) CountTokens(text string) int {
	if len(text) == 0 {
		return 0
	}
	return len(text) / 4
}

func (f *FakeClient) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	var obj any
	switch PhaseFrom(ctx) {
	case "script_draft":
		obj = map[string]any{"lines": []any{}}
	case "hook_diverge":
		obj = map[string]any{"candidates": []any{}}
	case "hook_eval":
		obj = map[string]any{"results": []any{}}
	case "hook_repair":
		obj = map[string]any{"rewrites": []any{}}
	case "scene_draft":
		obj = map[string]any{"lines": []any{}}
	case "scene_polish":
		obj = map[string]any{"descriptions": []any{}}
	default:
		obj = map[string]any{}
	}
	b, err := json.Marshal(obj)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(b), nil
}
