package opmode

import (
	"fmt"
	"sort"
	"sync"
)

// Kind classifies an op mode for driver station menus.
type Kind int

const (
	TeleOp Kind = iota
	Autonomous
)

// String returns a human-readable representation of the kind.
func (k Kind) String() string {
	switch k {
	case TeleOp:
		return "TeleOp"
	case Autonomous:
		return "Autonomous"
	default:
		return "Unknown"
	}
}

// Factory creates a fresh op mode for one session.
type Factory func() OpMode

// Entry describes a registered op mode.
type Entry struct {
	Name  string
	Kind  Kind
	Group string
	New   Factory
}

// Registry maps op mode names to factories.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Entry)}
}

// Register adds e. Names are unique.
func (r *Registry) Register(e Entry) error {
	if e.Name == "" || e.New == nil {
		return fmt.Errorf("%w: %q", ErrInvalidEntry, e.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[e.Name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateOpMode, e.Name)
	}
	r.entries[e.Name] = e
	return nil
}

// MustRegister is like Register but panics on error. Intended for package
// initialisation.
func (r *Registry) MustRegister(e Entry) {
	if err := r.Register(e); err != nil {
		panic(err)
	}
}

// Lookup returns the entry registered under name.
func (r *Registry) Lookup(name string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	return e, ok
}

// New creates a fresh op mode registered under name.
func (r *Registry) New(name string) (OpMode, error) {
	e, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOpMode, name)
	}
	mode := e.New()
	if mode == nil {
		return nil, fmt.Errorf("%w: factory for %q returned nil", ErrNilOpMode, name)
	}
	return mode, nil
}

// List returns all entries ordered by group, then name.
func (r *Registry) List() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Group != out[j].Group {
			return out[i].Group < out[j].Group
		}
		return out[i].Name < out[j].Name
	})
	return out
}
