package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var ErrInvalidJSON = errors.New("llm: invalid JSON from model")

// LLMClient is the structured generation capability every stage depends on.
// GenerateJSON must return the model output as raw JSON or a typed error;
// callers treat any error as a local, per-call failure.
type LLMClient interface {
	Name() string
	GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error)
	CountTokens(text string) int
	Close() error
}

// PermanentError marks failures that retry middleware must not repeat
// (auth failures, schema rejections, safety blocks).
type PermanentError struct {
	Reason string
	Err    error
}

func (e *PermanentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("llm permanent: %s: %v", e.Reason, e.Err)
	}
	return "llm permanent: " + e.Reason
}

func (e *PermanentError) Unwrap() error { return e.Err }

type ctxKeyPhase struct{}

// WithPhase tags the context with the pipeline phase issuing the call.
// Used by logging middleware and the fake client.
func WithPhase(ctx context.Context, phase string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxKeyPhase{}, phase)
}

// PhaseFrom returns the phase string stored in the context, or "".
func PhaseFrom(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxKeyPhase{}).(string); ok {
		return v
	}
	return ""
}
