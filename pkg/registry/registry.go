package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/arthur-debert/clickhooks/pkg/errors"
)

// Group indexes items by name, allowing several items per name.
type Group[T any] interface {
	// Add appends an item under name
	Add(name string, item T) error

	// Get returns the items registered under name
	Get(name string) ([]T, error)

	// Names returns every name with at least one item
	Names() []string

	// All returns every item, grouped by name in sorted name order
	All() []T

	// Has checks if name has any item
	Has(name string) bool
}

type group[T any] struct {
	mu    sync.RWMutex
	items map[string][]T
	count int
}

// New creates an empty Group
func New[T any]() Group[T] {
	return &group[T]{
		items: make(map[string][]T),
	}
}

func (g *group[T]) Add(name string, item T) error {
	if name == "" {
		return errors.New(errors.ErrInvalidInput, "registry name cannot be empty")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.items[name] = append(g.items[name], item)
	g.count++
	return nil
}

func (g *group[T]) Get(name string) ([]T, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	items, exists := g.items[name]
	if !exists {
		return nil, errors.Newf(errors.ErrNotFound, "'%s' not found in registry", name)
	}

	out := make([]T, len(items))
	copy(out, items)
	return out, nil
}

func (g *group[T]) Names() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	names := make([]string, 0, len(g.items))
	for name := range g.items {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}

func (g *group[T]) All() []T {
	names := g.Names()

	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]T, 0, g.count)
	for _, name := range names {
		out = append(out, g.items[name]...)
	}
	return out
}

func (g *group[T]) Has(name string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	_, exists := g.items[name]
	return exists
}

// MustAdd adds an item and panics if that fails
func MustAdd[T any](g Group[T], name string, item T) {
	if err := g.Add(name, item); err != nil {
		panic(fmt.Sprintf("failed to register %s: %v", name, err))
	}
}
