package llm

import (
	"context"
	"errors"
)

// Completer is the single capability every pipeline stage needs from a model:
// one system prompt, one user prompt, one text completion back.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// ErrCompletionFailed wraps any backend failure. Callers treat it as a hard
// failure of the current attempt; there are no retries at this layer.
var ErrCompletionFailed = errors.New("llm completion failed")

// EstimateTokens gives a rough token count for sizing the model context
// window. Four characters per token is close enough for buffer math.
func EstimateTokens(text string) int {
	return len(text) / 4
}
