package host

import (
	"fmt"
	"sort"
	"strings"
)

// MemoryNode is a node in the in-memory tree. Fields are exported so tests
// can assert on structure directly.
type MemoryNode struct {
	Tag       string
	Text      string
	Props     map[string]string
	Children  []*MemoryNode
	Listeners map[string]Listener

	parent *MemoryNode
}

// IsText reports whether this is a text node.
func (n *MemoryNode) IsText() bool {
	return n.Tag == ""
}

// Parent returns the node this node is attached to, or nil.
func (n *MemoryNode) Parent() *MemoryNode {
	return n.parent
}

// Dispatch invokes the listener bound for the event type, if any, and
// reports whether one was bound.
func (n *MemoryNode) Dispatch(ev Event) bool {
	fn, ok := n.Listeners[ev.Type]
	if !ok {
		return false
	}
	fn(ev)
	return true
}

// MemoryHost implements Host over an in-memory tree. It records every
// mutation in Ops so tests can assert on exactly what the patcher did.
type MemoryHost struct {
	// Root is the mount point. Realized trees become its children.
	Root *MemoryNode

	// Ops is the mutation log, one entry per Host call.
	Ops []string
}

// NewMemoryHost returns a host with an empty root.
func NewMemoryHost() *MemoryHost {
	return &MemoryHost{Root: &MemoryNode{Tag: "#root"}}
}

func (h *MemoryHost) log(format string, args ...any) {
	h.Ops = append(h.Ops, fmt.Sprintf(format, args...))
}

// CreateElement implements Host.
func (h *MemoryHost) CreateElement(tag string) Node {
	h.log("createElement %s", tag)
	return &MemoryNode{Tag: tag}
}

// CreateText implements Host.
func (h *MemoryHost) CreateText(text string) Node {
	h.log("createText %q", text)
	return &MemoryNode{Text: text}
}

// SetText implements Host.
func (h *MemoryHost) SetText(node Node, text string) {
	h.log("setText %q", text)
	node.(*MemoryNode).Text = text
}

// SetProp implements Host.
func (h *MemoryHost) SetProp(node Node, key, value string) {
	h.log("setProp %s=%q", key, value)
	n := node.(*MemoryNode)
	if n.Props == nil {
		n.Props = make(map[string]string)
	}
	n.Props[key] = value
}

// RemoveProp implements Host.
func (h *MemoryHost) RemoveProp(node Node, key string) {
	h.log("removeProp %s", key)
	delete(node.(*MemoryNode).Props, key)
}

// AppendChild implements Host.
func (h *MemoryHost) AppendChild(parent, child Node) {
	p := parent.(*MemoryNode)
	c := child.(*MemoryNode)
	h.log("appendChild -> %s", describe(p))
	c.parent = p
	p.Children = append(p.Children, c)
}

// InsertBefore implements Host.
func (h *MemoryHost) InsertBefore(parent, child, ref Node) {
	if ref == nil {
		h.AppendChild(parent, child)
		return
	}
	p := parent.(*MemoryNode)
	c := child.(*MemoryNode)
	r := ref.(*MemoryNode)
	h.log("insertBefore in %s", describe(p))
	for i, existing := range p.Children {
		if existing == r {
			c.parent = p
			p.Children = append(p.Children[:i], append([]*MemoryNode{c}, p.Children[i:]...)...)
			return
		}
	}
	c.parent = p
	p.Children = append(p.Children, c)
}

// ReplaceChild implements Host.
func (h *MemoryHost) ReplaceChild(parent, old, new Node) {
	p := parent.(*MemoryNode)
	o := old.(*MemoryNode)
	n := new.(*MemoryNode)
	h.log("replaceChild in %s", describe(p))
	for i, c := range p.Children {
		if c == o {
			p.Children[i] = n
			n.parent = p
			o.parent = nil
			return
		}
	}
}

// RemoveChild implements Host.
func (h *MemoryHost) RemoveChild(parent, child Node) {
	p := parent.(*MemoryNode)
	c := child.(*MemoryNode)
	h.log("removeChild from %s", describe(p))
	for i, existing := range p.Children {
		if existing == c {
			p.Children = append(p.Children[:i], p.Children[i+1:]...)
			c.parent = nil
			return
		}
	}
}

// AddListener implements Host.
func (h *MemoryHost) AddListener(node Node, event string, fn Listener) {
	h.log("addListener %s", event)
	n := node.(*MemoryNode)
	if n.Listeners == nil {
		n.Listeners = make(map[string]Listener)
	}
	n.Listeners[event] = fn
}

// RemoveListener implements Host.
func (h *MemoryHost) RemoveListener(node Node, event string) {
	h.log("removeListener %s", event)
	delete(node.(*MemoryNode).Listeners, event)
}

// String renders the tree under Root as HTML-ish markup with attributes in
// sorted order, stable enough for golden assertions.
func (h *MemoryHost) String() string {
	var sb strings.Builder
	for _, c := range h.Root.Children {
		writeNode(&sb, c)
	}
	return sb.String()
}

func writeNode(sb *strings.Builder, n *MemoryNode) {
	if n.IsText() {
		sb.WriteString(n.Text)
		return
	}

	sb.WriteByte('<')
	sb.WriteString(n.Tag)

	keys := make([]string, 0, len(n.Props))
	for k := range n.Props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(sb, " %s=%q", k, n.Props[k])
	}
	sb.WriteByte('>')

	for _, c := range n.Children {
		writeNode(sb, c)
	}

	sb.WriteString("</")
	sb.WriteString(n.Tag)
	sb.WriteByte('>')
}

func describe(n *MemoryNode) string {
	if n.IsText() {
		return fmt.Sprintf("text %q", n.Text)
	}
	return n.Tag
}
