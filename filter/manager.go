package filter

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
)

// Manager holds named filters and evaluates them over catalog items
type Manager struct {
	compiler  Compiler
	evaluator Selector
	filters   map[string]CompiledFilter
	mu        sync.RWMutex
}

// ManagerOption configures a filter manager
type ManagerOption func(*Manager)

// WithCompiler sets a custom compiler
func WithCompiler(compiler Compiler) ManagerOption {
	return func(m *Manager) {
		m.compiler = compiler
	}
}

// WithEvaluator sets a custom evaluator
func WithEvaluator(evaluator Selector) ManagerOption {
	return func(m *Manager) {
		m.evaluator = evaluator
	}
}

// NewManager creates a new filter manager
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		compiler:  NewExprCompiler(WithCache(100)),
		evaluator: NewConcurrentEvaluator(),
		filters:   make(map[string]CompiledFilter),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// RegisterFilters compiles every expression before registering any of them
func (m *Manager) RegisterFilters(filters map[string]string) error {
	compiled := make(map[string]CompiledFilter, len(filters))
	for name, expression := range filters {
		f, err := m.compiler.Compile(expression)
		if err != nil {
			return fmt.Errorf("failed to compile filter '%s': %w", name, err)
		}
		compiled[name] = f
	}

	m.mu.Lock()
	maps.Copy(m.filters, compiled)
	m.mu.Unlock()
	return nil
}

// GetFilter returns a registered filter by name
func (m *Manager) GetFilter(name string) (CompiledFilter, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.filters[name]
	return f, ok
}

// ListFilters returns the registered names, sorted
func (m *Manager) ListFilters() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Sorted(maps.Keys(m.filters))
}

// Resolve returns the registered filter called nameOrExpr, or compiles it as
// an inline expression
func (m *Manager) Resolve(nameOrExpr string) (CompiledFilter, error) {
	if f, ok := m.GetFilter(nameOrExpr); ok {
		return f, nil
	}
	return m.compiler.Compile(nameOrExpr)
}

// Apply resolves nameOrExpr and selects the matching items
func (m *Manager) Apply(ctx context.Context, nameOrExpr string, items []Item) ([]Item, error) {
	f, err := m.Resolve(nameOrExpr)
	if err != nil {
		return nil, err
	}
	return m.evaluator.Select(ctx, f, items)
}
