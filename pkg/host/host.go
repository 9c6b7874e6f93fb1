// Package host declares the capability surface a rendering target must
// provide. The patcher drives a Host; it never assumes a browser, so a
// target can be a real DOM bridge, a terminal, or the in-memory tree used
// in tests.
package host

// Node is an opaque handle to a host-owned node. The engine never inspects
// it; it only passes handles back to the host that created them.
type Node any

// Event is delivered to listeners bound through AddListener.
type Event struct {
	Type    string
	Payload map[string]any
}

// Listener handles a host event.
type Listener func(Event)

// Host is the set of primitive mutations the patcher needs. Implementations
// are not required to be safe for concurrent use; the patcher calls them
// from a single goroutine.
type Host interface {
	// CreateElement allocates a tagged node.
	CreateElement(tag string) Node

	// CreateText allocates a text node.
	CreateText(text string) Node

	// SetText replaces the content of a text node.
	SetText(node Node, text string)

	// SetProp sets an attribute on an element.
	SetProp(node Node, key, value string)

	// RemoveProp removes an attribute from an element.
	RemoveProp(node Node, key string)

	// AppendChild attaches child as the last child of parent.
	AppendChild(parent, child Node)

	// InsertBefore attaches child immediately before ref in parent's child
	// list. A nil ref behaves like AppendChild.
	InsertBefore(parent, child, ref Node)

	// ReplaceChild swaps old for new in parent's child list, keeping the
	// position. The old node and its subtree are detached.
	ReplaceChild(parent, old, new Node)

	// RemoveChild detaches child (and its subtree) from parent.
	RemoveChild(parent, child Node)

	// AddListener binds a handler for an event type on a node. Binding a
	// second handler for the same type replaces the first.
	AddListener(node Node, event string, fn Listener)

	// RemoveListener unbinds the handler for an event type, if any.
	RemoveListener(node Node, event string)
}
