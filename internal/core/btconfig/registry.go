package btconfig

import (
	"fmt"
	"sort"
	"sync"

	"github.com/zeusync/zeusbt/internal/core/bt"
)

// ActionFactory creates an action callback from definition params.
type ActionFactory func(params map[string]any) (bt.ActionFunc, error)

// ConditionFactory creates a condition callback from definition params.
type ConditionFactory func(params map[string]any) (bt.ConditionFunc, error)

// Registry maps the action and condition names used in definitions to host callbacks.
// It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	acts  map[string]ActionFactory
	conds map[string]ConditionFactory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		acts:  make(map[string]ActionFactory),
		conds: make(map[string]ConditionFactory),
	}
}

// RegisterAction binds name to an action factory, replacing any previous one.
func (r *Registry) RegisterAction(name string, factory ActionFactory) {
	r.mu.Lock()
	r.acts[name] = factory
	r.mu.Unlock()
}

// RegisterCondition binds name to a condition factory, replacing any previous one.
func (r *Registry) RegisterCondition(name string, factory ConditionFactory) {
	r.mu.Lock()
	r.conds[name] = factory
	r.mu.Unlock()
}

// NewAction creates the callback registered under name with the node params.
func (r *Registry) NewAction(name string, params map[string]any) (bt.ActionFunc, error) {
	r.mu.RLock()
	f := r.acts[name]
	r.mu.RUnlock()
	if f == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAction, name)
	}
	return f(params)
}

// NewCondition creates the predicate registered under name with the node params.
func (r *Registry) NewCondition(name string, params map[string]any) (bt.ConditionFunc, error) {
	r.mu.RLock()
	f := r.conds[name]
	r.mu.RUnlock()
	if f == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCondition, name)
	}
	return f(params)
}

// Actions lists registered action names in sorted order.
func (r *Registry) Actions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.acts))
	for name := range r.acts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Conditions lists registered condition names in sorted order.
func (r *Registry) Conditions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.conds))
	for name := range r.conds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
