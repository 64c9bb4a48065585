package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	ollama "github.com/ollama/ollama/api"

	"github.com/alantheprice/curlgen/pkg/prompts"
)

// OllamaCompleter runs completions against a local Ollama server.
type OllamaCompleter struct {
	Model       string
	Temperature float64
	Timeout     time.Duration
}

// NewOllamaCompleter returns a completer for the given model name. The model
// name may carry an "ollama:" prefix, which is stripped before the request.
func NewOllamaCompleter(model string, temperature float64, timeout time.Duration) *OllamaCompleter {
	return &OllamaCompleter{
		Model:       strings.TrimPrefix(model, "ollama:"),
		Temperature: temperature,
		Timeout:     timeout,
	}
}

// Complete sends a system+user message pair and collects the streamed
// response into a single string.
func (o *OllamaCompleter) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	client, err := ollama.ClientFromEnvironment()
	if err != nil {
		return "", fmt.Errorf("%w: could not create ollama client: %v", ErrCompletionFailed, err)
	}

	messages := []prompts.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userPrompt},
	}

	ollamaMessages := make([]ollama.Message, len(messages))
	totalTokens := 0
	for i, msg := range messages {
		ollamaMessages[i] = ollama.Message{Role: msg.Role, Content: msg.Content}
		totalTokens += EstimateTokens(msg.Content)
	}

	// Size the context window slightly larger than the prompt, with a floor.
	numCtx := totalTokens + 1000
	if numCtx < 4096 {
		numCtx = 4096
	}

	req := &ollama.ChatRequest{
		Model:    o.Model,
		Messages: ollamaMessages,
		Options: map[string]interface{}{
			"temperature": o.Temperature,
			"top_p":       1.0,
			"num_ctx":     numCtx,
			"stream":      true,
		},
	}

	if o.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.Timeout)
		defer cancel()
	}

	var response strings.Builder
	respFunc := func(res ollama.ChatResponse) error {
		response.WriteString(res.Message.Content)
		return nil
	}

	if err := client.Chat(ctx, req, respFunc); err != nil {
		return "", fmt.Errorf("%w: ollama chat with model %s: %v", ErrCompletionFailed, o.Model, err)
	}

	return response.String(), nil
}
