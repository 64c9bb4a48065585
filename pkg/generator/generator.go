package generator

import (
	"context"
	"fmt"

	"github.com/alantheprice/curlgen/pkg/artifacts"
	"github.com/alantheprice/curlgen/pkg/llm"
	"github.com/alantheprice/curlgen/pkg/parser"
	"github.com/alantheprice/curlgen/pkg/prompts"
)

// Generator produces a fresh artifact set from an operation plan. Each call
// fully replaces the previous attempt's set; there is no diffing between
// attempts. Retry policy lives entirely in the orchestrator.
type Generator struct {
	completer llm.Completer
}

// New returns a generator backed by the given completer.
func New(completer llm.Completer) *Generator {
	return &Generator{completer: completer}
}

// Generate runs a first-attempt generation from the plan alone.
func (g *Generator) Generate(ctx context.Context, plan string) (*artifacts.Set, error) {
	return g.complete(ctx, prompts.BuildCodeGenUserPrompt(plan))
}

// GenerateWithFeedback runs a regeneration, embedding the previous attempt's
// diagnostic text as an explicit fix instruction alongside the unchanged plan.
func (g *Generator) GenerateWithFeedback(ctx context.Context, plan, feedback string) (*artifacts.Set, error) {
	return g.complete(ctx, prompts.BuildCodeGenRetryPrompt(plan, feedback))
}

func (g *Generator) complete(ctx context.Context, userPrompt string) (*artifacts.Set, error) {
	response, err := g.completer.Complete(ctx, prompts.CodeGenSystemPrompt, userPrompt)
	if err != nil {
		return nil, fmt.Errorf("code generation completion failed: %w", err)
	}
	// An unparseable response yields an empty set. That is not an error here:
	// the attempt proceeds to validation, fails there, and consumes one of
	// the bounded attempts.
	return parser.Extract(response), nil
}
