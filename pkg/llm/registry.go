package llm

import (
	"sync"
	"time"
)

// Role identifies which pipeline stage a model serves.
type Role string

const (
	RolePlanning   Role = "planning"
	RoleCodegen    Role = "codegen"
	RoleValidation Role = "validation"
)

// Registry hands out one completer per role, created lazily on first use and
// cached for the rest of the process. It is constructed once and passed
// explicitly into the components that need it; there is no package-level
// instance.
type Registry struct {
	mu         sync.Mutex
	completers map[Role]Completer
	factory    func(model string) Completer
	models     map[Role]string
}

// NewRegistry builds a registry over the given role→model mapping.
func NewRegistry(models map[Role]string, temperature float64, timeout time.Duration) *Registry {
	return &Registry{
		completers: make(map[Role]Completer),
		models:     models,
		factory: func(model string) Completer {
			return NewOllamaCompleter(model, temperature, timeout)
		},
	}
}

// NewRegistryWithFactory is like NewRegistry but with a custom completer
// factory. Tests use this to substitute fakes.
func NewRegistryWithFactory(models map[Role]string, factory func(model string) Completer) *Registry {
	return &Registry{
		completers: make(map[Role]Completer),
		models:     models,
		factory:    factory,
	}
}

// For returns the completer for a role, creating it on first use.
func (r *Registry) For(role Role) Completer {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.completers[role]; ok {
		return c
	}
	c := r.factory(r.models[role])
	r.completers[role] = c
	return c
}
