package commands

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// ErrDuplicateCommand is returned when a name or alias is registered twice.
var ErrDuplicateCommand = errors.New("command already registered")

// Registry resolves command names and aliases.
type Registry struct {
	mu       sync.RWMutex
	commands []Command
	lookup   map[string]Command
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{lookup: make(map[string]Command)}
}

// Register adds c under its name and aliases. Nothing is registered when
// any of them is taken.
func (r *Registry) Register(c Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	keys := append([]string{c.Name()}, c.Aliases()...)
	for i, key := range keys {
		if _, taken := r.lookup[key]; !taken {
			continue
		}
		if i == 0 {
			return fmt.Errorf("%w: %s", ErrDuplicateCommand, key)
		}
		return fmt.Errorf("%w: alias %s", ErrDuplicateCommand, key)
	}

	for _, key := range keys {
		r.lookup[key] = c
	}
	r.commands = append(r.commands, c)
	return nil
}

// Find looks up a command by name or alias.
func (r *Registry) Find(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.lookup[name]
	return c, ok
}

// All returns the registered commands sorted by name.
func (r *Registry) All() []Command {
	r.mu.RLock()
	all := slices.Clone(r.commands)
	r.mu.RUnlock()

	slices.SortFunc(all, func(a, b Command) int {
		return strings.Compare(a.Name(), b.Name())
	})
	return all
}

// DefaultRegistry holds every command registered from init.
var DefaultRegistry = NewRegistry()

// Register adds c to DefaultRegistry and panics on a duplicate.
func Register(c Command) {
	if err := DefaultRegistry.Register(c); err != nil {
		panic(err)
	}
}
