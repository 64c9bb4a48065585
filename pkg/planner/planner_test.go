package planner

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubCompleter struct {
	response   string
	err        error
	lastSystem string
	lastUser   string
}

func (s *stubCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	s.lastSystem = system
	s.lastUser = user
	return s.response, s.err
}

func TestPlanReturnsRawModelOutput(t *testing.T) {
	plan := "# API: `https://api.example.com/users`\n# Operation: `createUser`\n# HTTP Method: `POST`"
	stub := &stubCompleter{response: plan}

	got, err := New(stub).Plan(context.Background(), `curl -X POST "https://api.example.com/users"`)

	assert.NoError(t, err)
	assert.Equal(t, plan, got, "plan must pass through unparsed")
	assert.True(t, strings.Contains(stub.lastUser, "curl -X POST"), "request must be embedded in the user prompt")
}

func TestPlanCompletionErrorIsPlanningFailure(t *testing.T) {
	stub := &stubCompleter{err: errors.New("connection refused")}

	_, err := New(stub).Plan(context.Background(), "curl example.com")

	assert.True(t, errors.Is(err, ErrPlanningFailed))
}

func TestPlanEmptyResponseIsPlanningFailure(t *testing.T) {
	stub := &stubCompleter{response: "   \n\t  "}

	_, err := New(stub).Plan(context.Background(), "curl example.com")

	assert.True(t, errors.Is(err, ErrPlanningFailed))
}
