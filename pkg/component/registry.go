package component

import (
	"fmt"
	"sort"

	"github.com/arbor-ui/arbor/pkg/patcher"
	"github.com/arbor-ui/arbor/pkg/vdom"
)

// Registry maps component names to render functions and mints instances
// for the patcher. Register everything up front; lookups during rendering
// do not lock.
type Registry struct {
	components map[string]RenderFunc
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{components: make(map[string]RenderFunc)}
}

// Register binds a name to a render function, replacing any previous
// binding.
func (r *Registry) Register(name string, fn RenderFunc) {
	r.components[name] = fn
}

// Names returns the registered component names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.components))
	for name := range r.components {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MountComponent implements patcher.Resolver.
func (r *Registry) MountComponent(name string, props vdom.Props) (patcher.Instance, error) {
	fn, ok := r.components[name]
	if !ok {
		return nil, fmt.Errorf("component %q not registered", name)
	}
	return New(name, fn, props), nil
}
