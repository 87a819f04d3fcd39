package llm

import (
	"context"
	"encoding/json"
	"log"
)

// Middleware decorates an LLMClient to inject cross-cutting concerns
// (retries, logging, rate limiting).
type Middleware func(LLMClient) LLMClient

// Wrap applies middlewares in left-to-right order.
// Example: Wrap(inner, A, B) => A(B(inner))
func Wrap(inner LLMClient, mws ...Middleware) LLMClient {
	out := inner
	for i := len(mws) - 1; i >= 0; i-- {
		out = mws[i](out)
	}
	return out
}

// Logging logs request/response sizes per phase via the standard logger.
func Logging() Middleware {
	return func(next LLMClient) LLMClient {
		return &logged{next: next}
	}
}

type logged struct {
	next LLMClient
}

func (l *logged) Name() string             { return l.next.Name() }
func (l *logged) Close() error             { return l.next.Close() }
func (l *logged) CountTokens(t string) int { return l.next.CountTokens(t) }

func (l *logged) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	in, _ := json.Marshal(input)
	log.Printf("LLM request (%s): %d bytes", PhaseFrom(ctx), len(prompt)+len(in))
	raw, err := l.next.GenerateJSON(ctx, prompt, input)
	if err != nil {
		log.Printf("LLM error (%s): %v", PhaseFrom(ctx), err)
		return nil, err
	}
	log.Printf("LLM response (%s): %d bytes", PhaseFrom(ctx), len(raw))
	return raw, nil
}
