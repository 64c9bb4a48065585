package orchestration

import (
	"github.com/google/uuid"

	"github.com/alantheprice/curlgen/pkg/artifacts"
	"github.com/alantheprice/curlgen/pkg/validator"
)

// Attempt is one generate/validate cycle within a session.
type Attempt struct {
	Number    int
	Artifacts *artifacts.Set
	Outcome   *validator.Outcome
}

// Session is the bounded sequence of attempts for one request. It is owned
// exclusively by the orchestrator; pipeline stages only ever see the current
// plan, feedback and artifact set, never the history.
type Session struct {
	ID       string
	Request  string
	Plan     string
	Attempts []Attempt
	Success  bool
}

// NewSession creates a session with a fresh ID. The ID doubles as the name of
// the session's private workspace directory, so concurrent sessions never
// share mutable state.
func NewSession(request string) *Session {
	return &Session{
		ID:      uuid.New().String(),
		Request: request,
	}
}

// Record appends one completed attempt.
func (s *Session) Record(number int, set *artifacts.Set, outcome *validator.Outcome) {
	s.Attempts = append(s.Attempts, Attempt{Number: number, Artifacts: set, Outcome: outcome})
}

// LastAttempt returns the most recent attempt, or nil before the first one.
func (s *Session) LastAttempt() *Attempt {
	if len(s.Attempts) == 0 {
		return nil
	}
	return &s.Attempts[len(s.Attempts)-1]
}
