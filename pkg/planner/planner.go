package planner

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alantheprice/curlgen/pkg/llm"
	"github.com/alantheprice/curlgen/pkg/prompts"
)

// ErrPlanningFailed indicates the planning model could not produce a usable
// operation plan. Planning happens before the retry loop, so this aborts the
// whole session.
var ErrPlanningFailed = errors.New("planning failed")

// Planner turns an unstructured request (a cURL command) into a structured
// operation plan. The plan is raw markdown whose field layout is a convention
// shared with the code generation prompt; nothing here validates its shape,
// so a malformed plan propagates and surfaces later as poor generated code.
type Planner struct {
	completer llm.Completer
}

// New returns a planner backed by the given completer.
func New(completer llm.Completer) *Planner {
	return &Planner{completer: completer}
}

// Plan produces the operation plan for one request. Called once per session;
// the same plan text is reused verbatim on every regeneration attempt.
func (p *Planner) Plan(ctx context.Context, request string) (string, error) {
	response, err := p.completer.Complete(ctx, prompts.PlanningSystemPrompt, prompts.BuildPlanningUserPrompt(request))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPlanningFailed, err)
	}
	if strings.TrimSpace(response) == "" {
		return "", fmt.Errorf("%w: model returned an empty plan", ErrPlanningFailed)
	}
	return response, nil
}
