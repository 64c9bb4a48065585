package artifacts

// Artifact is a single generated source unit: a relative file path and its content.
type Artifact struct {
	Name    string
	Content string
}

// Set is an ordered collection of artifacts keyed by name. Insertion order is
// preserved so file listings stay reproducible across runs.
type Set struct {
	order []string
	items map[string]string
}

// NewSet returns an empty artifact set.
func NewSet() *Set {
	return &Set{items: make(map[string]string)}
}

// Add inserts or replaces an artifact. Replacing keeps the original position.
func (s *Set) Add(name, content string) {
	if _, exists := s.items[name]; !exists {
		s.order = append(s.order, name)
	}
	s.items[name] = content
}

// Get returns the content for name and whether it exists.
func (s *Set) Get(name string) (string, bool) {
	content, ok := s.items[name]
	return content, ok
}

// Names returns the artifact names in insertion order.
func (s *Set) Names() []string {
	names := make([]string, len(s.order))
	copy(names, s.order)
	return names
}

// Len returns the number of artifacts in the set.
func (s *Set) Len() int {
	return len(s.order)
}

// All returns the artifacts in insertion order.
func (s *Set) All() []Artifact {
	out := make([]Artifact, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, Artifact{Name: name, Content: s.items[name]})
	}
	return out
}
