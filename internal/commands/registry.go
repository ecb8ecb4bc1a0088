package commands

import (
	"cmp"
	"fmt"
	"slices"
	"sync"
)

// Registry maps command names and aliases to commands.
type Registry struct {
	mu      sync.RWMutex
	byName  map[string]Command
	primary []Command
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Command)}
}

// Register adds c under its name and aliases. Nothing is added if any of
// them is taken.
func (r *Registry) Register(c Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	keys := append([]string{c.Name()}, c.Aliases()...)
	for i, key := range keys {
		if _, taken := r.byName[key]; taken {
			if i == 0 {
				return fmt.Errorf("command already registered: %s", key)
			}
			return fmt.Errorf("command alias already registered: %s", key)
		}
	}
	for _, key := range keys {
		r.byName[key] = c
	}
	r.primary = append(r.primary, c)
	return nil
}

// Find resolves a command name or alias.
func (r *Registry) Find(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byName[name]
	return c, ok
}

// All lists each command once, ordered by name.
func (r *Registry) All() []Command {
	r.mu.RLock()
	all := slices.Clone(r.primary)
	r.mu.RUnlock()

	slices.SortFunc(all, func(a, b Command) int { return cmp.Compare(a.Name(), b.Name()) })
	return all
}

// DefaultRegistry holds the commands gtodo ships with.
var DefaultRegistry = NewRegistry()

// Register adds c to DefaultRegistry. Duplicate names are a programming
// error and panic at init.
func Register(c Command) {
	if err := DefaultRegistry.Register(c); err != nil {
		panic(err)
	}
}
