// Package dismiss decides which of several stacked overlays reacts to an
// outside pointerdown, an outside focus move or Escape. Only the most
// recently mounted layer still registered is considered.
package dismiss

import (
	"slices"
	"sync"

	"github.com/odvcencio/overui/pkg/ui/dom"
)

// Registry is the ordered set of mounted layer nodes. One Registry is shared
// by every dismissable layer in an application.
type Registry struct {
	mu    sync.Mutex
	nodes []*dom.Element
	// dismissed is the event that last caused a dismissal. A layer that
	// becomes topmost while that event is still being dispatched must not
	// react to it as well.
	dismissed *dom.Event
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add registers node. Adding a node that is already present keeps its
// original position.
func (r *Registry) Add(node *dom.Element) {
	if node == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if slices.Contains(r.nodes, node) {
		return
	}
	r.nodes = append(r.nodes, node)
}

// Remove deregisters node. Removing the last node forgets the dismissing
// event.
func (r *Registry) Remove(node *dom.Element) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nodes = slices.DeleteFunc(r.nodes, func(n *dom.Element) bool { return n == node })
	if len(r.nodes) == 0 {
		r.dismissed = nil
	}
}

// IsTopmost reports whether node is the last registered node.
func (r *Registry) IsTopmost(node *dom.Element) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return node != nil && len(r.nodes) > 0 && r.nodes[len(r.nodes)-1] == node
}

// Len returns the number of registered layers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.nodes)
}

// Layers returns the registered nodes in mount order.
func (r *Registry) Layers() []*dom.Element {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.nodes)
}

func (r *Registry) markDismissed(ev *dom.Event) {
	r.mu.Lock()
	r.dismissed = ev
	r.mu.Unlock()
}

func (r *Registry) alreadyDismissed(ev *dom.Event) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return ev != nil && r.dismissed == ev
}
