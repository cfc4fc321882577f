// Package categories keeps the labels offered for tagging transactions: the
// built-in set plus user defined ones. The registry has no effect on how
// transactions aggregate.
package categories

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

// Persistence stores the custom category list.
type Persistence interface {
	Load(ctx context.Context) ([]string, error)
	Save(ctx context.Context, names []string) error
}

type Registry struct {
	mu      sync.RWMutex
	store   Persistence
	builtin []string
	custom  []string
	logger  *log.Logger
}

// NewRegistry loads the custom categories from p.
func NewRegistry(ctx context.Context, p Persistence, logger *log.Logger) (*Registry, error) {
	if logger == nil {
		logger = log.Discard()
	}
	r := &Registry{
		store:   p,
		builtin: append([]string{}, core.BuiltinCategories...),
		logger:  logger.WithComponent(log.ComponentCategories),
	}

	names, err := p.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load custom categories: %w", err)
	}
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n != "" && !r.has(n) {
			r.custom = append(r.custom, n)
		}
	}
	return r, nil
}

// List returns the built-in categories followed by custom ones in the order
// they were added.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.builtin)+len(r.custom))
	out = append(out, r.builtin...)
	return append(out, r.custom...)
}

func (r *Registry) Custom() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string{}, r.custom...)
}

// Add registers name. Blank names and names already present, compared
// case-insensitively, are ignored. It reports whether the list changed.
func (r *Registry) Add(ctx context.Context, name string) (bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return false, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.has(name) {
		return false, nil
	}

	next := append(append([]string{}, r.custom...), name)
	if err := r.store.Save(ctx, next); err != nil {
		return false, fmt.Errorf("save custom categories: %w", err)
	}
	r.custom = next
	r.logger.InfoContext(ctx, "Custom category added", log.FieldCategory, name)
	return true, nil
}

// Remove drops a custom category. Built-ins cannot be removed. It reports
// whether the list changed.
func (r *Registry) Remove(ctx context.Context, name string) (bool, error) {
	name = strings.TrimSpace(name)

	r.mu.Lock()
	defer r.mu.Unlock()

	idx := -1
	for i, c := range r.custom {
		if strings.EqualFold(c, name) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, nil
	}

	next := append(append([]string{}, r.custom[:idx]...), r.custom[idx+1:]...)
	if err := r.store.Save(ctx, next); err != nil {
		return false, fmt.Errorf("save custom categories: %w", err)
	}
	r.custom = next
	r.logger.InfoContext(ctx, "Custom category removed", log.FieldCategory, name)
	return true, nil
}

func (r *Registry) has(name string) bool {
	for _, list := range [][]string{r.builtin, r.custom} {
		for _, c := range list {
			if strings.EqualFold(c, name) {
				return true
			}
		}
	}
	return false
}
