// Package registry holds the typed global constants consulted during
// condition evaluation and constant substitution.
//
// A Registry may be mutated between expansion passes but never during
// one: the engine works against an immutable Snapshot taken at the start
// of each request, so setter calls concurrent with in-flight expansions
// are safe and simply take effect on the next request.
package registry

import (
	"fmt"
	"sync"

	"github.com/vk/wgslpp/value"
)

// Registry is a thread-safe store of named global values.
type Registry struct {
	mu      sync.RWMutex
	globals map[string]value.Value
}

// New creates a registry pre-populated with the BIT_0..BIT_63 single-bit
// integer masks.
func New() *Registry {
	globals := make(map[string]value.Value, 64)
	for i := 0; i < 64; i++ {
		globals[fmt.Sprintf("BIT_%d", i)] = value.Int(1 << i)
	}
	return &Registry{globals: globals}
}

// NewEmpty creates a registry with no predefined globals.
func NewEmpty() *Registry {
	return &Registry{globals: make(map[string]value.Value)}
}

// SetInt defines or overwrites an integer global.
func (r *Registry) SetInt(name string, v int64) {
	r.set(name, value.Int(v))
}

// SetFloat defines or overwrites a float global.
func (r *Registry) SetFloat(name string, v float64) {
	r.set(name, value.Float(v))
}

// SetBool defines or overwrites a boolean global.
func (r *Registry) SetBool(name string, v bool) {
	r.set(name, value.Bool(v))
}

func (r *Registry) set(name string, v value.Value) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.globals[name] = v
}

// Lookup returns the current value of a global.
func (r *Registry) Lookup(name string) (value.Value, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.globals[name]
	return v, ok
}

// Len returns the number of defined globals.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.globals)
}

// Snapshot copies the current globals into an immutable view for one
// expansion pass.
func (r *Registry) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	snap := make(Snapshot, len(r.globals))
	for name, v := range r.globals {
		snap[name] = v
	}
	return snap
}

// Snapshot is a point-in-time copy of a registry's globals. It satisfies
// the lookup interfaces of the condition evaluator and the engine.
type Snapshot map[string]value.Value

// Lookup returns the snapshotted value of a global.
func (s Snapshot) Lookup(name string) (value.Value, bool) {
	v, ok := s[name]
	return v, ok
}
