// Package patcher realizes declarative trees against a host and applies
// structural patches in place. A Mount owns one realized tree: the first
// Render builds host nodes for the whole tree, and every later Render diffs
// against the current tree and performs only the mutations the diff names.
package patcher

import (
	"fmt"

	"github.com/arbor-ui/arbor/pkg/host"
	"github.com/arbor-ui/arbor/pkg/vdom"
)

// Instance is a live component as the patcher sees it. The component
// package provides the real implementation; the patcher only renders it,
// routes its self-updates, and unmounts it when its reference leaves the
// tree.
type Instance interface {
	// Render returns the instance's current tree.
	Render() *vdom.VNode

	// SetUpdateHandler registers the callback invoked when the instance
	// re-renders on its own (a state write, not a prop change).
	SetUpdateHandler(fn func(next *vdom.VNode))

	// Unmount releases the instance. Idempotent.
	Unmount()
}

// Resolver turns a component reference into a live instance.
type Resolver interface {
	MountComponent(name string, props vdom.Props) (Instance, error)
}

// rnode shadows one vnode with its realized host state.
type rnode struct {
	vnode      *vdom.VNode
	node       host.Node // element and text nodes only
	hostParent host.Node // element the subtree's host nodes live under
	children   []*rnode  // element and fragment nodes
	instance   Instance  // component nodes only
	rendered   *rnode    // component nodes only
}

// Mount binds a tree to a position in the host.
type Mount struct {
	host      host.Host
	resolver  Resolver
	container host.Node
	root      *rnode
}

// Option configures a Mount.
type Option func(*Mount)

// WithResolver supplies the component resolver. Trees containing component
// references cannot be realized without one.
func WithResolver(r Resolver) Option {
	return func(m *Mount) {
		m.resolver = r
	}
}

// NewMount returns a mount that renders under container.
func NewMount(h host.Host, container host.Node, opts ...Option) *Mount {
	m := &Mount{host: h, container: container}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Render makes the host reflect next. The first call realizes the whole
// tree; later calls diff against the current tree and patch in place.
// Rendering nil tears the tree down.
func (m *Mount) Render(next *vdom.VNode) {
	if m.root == nil {
		if next == nil {
			return
		}
		m.root = m.realize(next)
		m.attachBefore(m.root, m.container, nil)
		return
	}

	patches := vdom.Diff(m.root.vnode, next)
	m.root = m.applyAt(m.root, patches)
}

// Tree returns the currently rendered tree, nil when nothing is mounted.
func (m *Mount) Tree() *vdom.VNode {
	if m.root == nil {
		return nil
	}
	return m.root.vnode
}

// Close unmounts every component instance and detaches all host nodes.
func (m *Mount) Close() {
	if m.root == nil {
		return
	}
	m.destroy(m.root)
	m.root = nil
}

// realize builds host nodes for v. The returned subtree is detached; the
// caller attaches it with attachBefore.
func (m *Mount) realize(v *vdom.VNode) *rnode {
	r := &rnode{vnode: v}

	switch v.Kind {
	case vdom.KindText:
		r.node = m.host.CreateText(v.Text)

	case vdom.KindElement:
		r.node = m.host.CreateElement(v.Tag)
		for key, val := range v.Props {
			if key == "key" {
				continue
			}
			if vdom.IsEventHandler(key) {
				m.bindListener(r.node, key, val)
				continue
			}
			m.setProp(r.node, key, val)
		}
		for _, child := range v.Children {
			cr := m.realize(child)
			m.attachBefore(cr, r.node, nil)
			r.children = append(r.children, cr)
		}

	case vdom.KindFragment:
		for _, child := range v.Children {
			r.children = append(r.children, m.realize(child))
		}

	case vdom.KindComponent:
		if m.resolver == nil {
			panic(fmt.Sprintf("[ARBOR E001] component %q in tree but no resolver configured", v.Name))
		}
		inst, err := m.resolver.MountComponent(v.Name, v.Props)
		if err != nil {
			panic(fmt.Sprintf("[ARBOR E001] mount component %q: %v", v.Name, err))
		}
		r.instance = inst
		r.rendered = m.realize(inst.Render())
		inst.SetUpdateHandler(func(next *vdom.VNode) {
			patches := vdom.Diff(r.rendered.vnode, next)
			r.rendered = m.applyAt(r.rendered, patches)
		})
	}

	return r
}

// attachBefore connects r's host nodes under parent, before ref (nil ref
// appends). Fragments and components contribute the host nodes of their
// contents.
func (m *Mount) attachBefore(r *rnode, parent host.Node, ref host.Node) {
	r.hostParent = parent

	switch r.vnode.Kind {
	case vdom.KindText, vdom.KindElement:
		m.host.InsertBefore(parent, r.node, ref)
	case vdom.KindFragment:
		for _, c := range r.children {
			m.attachBefore(c, parent, ref)
		}
	case vdom.KindComponent:
		m.attachBefore(r.rendered, parent, ref)
	}
}

// detach removes r's host nodes from their parent. Subtrees go with their
// top nodes, so only the tops are removed explicitly.
func (m *Mount) detach(r *rnode) {
	switch r.vnode.Kind {
	case vdom.KindText, vdom.KindElement:
		m.host.RemoveChild(r.hostParent, r.node)
	case vdom.KindFragment:
		for _, c := range r.children {
			m.detach(c)
		}
	case vdom.KindComponent:
		m.detach(r.rendered)
	}
}

// unmount releases every component instance in r's subtree, depth-first.
func (m *Mount) unmount(r *rnode) {
	for _, c := range r.children {
		m.unmount(c)
	}
	if r.rendered != nil {
		m.unmount(r.rendered)
	}
	if r.instance != nil {
		r.instance.Unmount()
	}
}

// destroy unmounts and detaches r.
func (m *Mount) destroy(r *rnode) {
	m.unmount(r)
	m.detach(r)
}

// firstHostNode returns the first host node r contributes, nil for an
// empty fragment.
func firstHostNode(r *rnode) host.Node {
	switch r.vnode.Kind {
	case vdom.KindText, vdom.KindElement:
		return r.node
	case vdom.KindFragment:
		for _, c := range r.children {
			if n := firstHostNode(c); n != nil {
				return n
			}
		}
	case vdom.KindComponent:
		return firstHostNode(r.rendered)
	}
	return nil
}

// applyAt applies patches produced by diffing r.vnode against some next
// tree. It returns the rnode now standing at r's position: r itself for
// in-place updates, a fresh realization for a replace, nil for a remove.
func (m *Mount) applyAt(r *rnode, patches []vdom.Patch) *rnode {
	for _, p := range patches {
		switch p.Op {
		case vdom.OpText:
			m.host.SetText(r.node, p.Text)
			r.vnode.Text = p.Text

		case vdom.OpProps:
			m.applyProps(r, p.Props)

		case vdom.OpChildren:
			m.applyChildren(r, p.Children)

		case vdom.OpReplace:
			return m.replace(r, p.Node)

		case vdom.OpRemove:
			m.destroy(r)
			return nil

		default:
			panic(fmt.Sprintf("[ARBOR E003] patch %v does not match tree shape", p.Op))
		}
	}
	return r
}

func (m *Mount) applyProps(r *rnode, props []vdom.PropPatch) {
	for _, pp := range props {
		if pp.Remove {
			m.host.RemoveProp(r.node, pp.Key)
			delete(r.vnode.Props, pp.Key)
			continue
		}
		m.setProp(r.node, pp.Key, pp.Value)
		if r.vnode.Props == nil {
			r.vnode.Props = vdom.Props{}
		}
		r.vnode.Props[pp.Key] = pp.Value
	}
}

func (m *Mount) applyChildren(r *rnode, childPatches []vdom.ChildPatch) {
	// Fragment children live under the fragment's own host parent.
	parent := r.node
	if r.vnode.Kind == vdom.KindFragment {
		parent = r.hostParent
	}

	for _, cp := range childPatches {
		switch {
		case cp.Index < len(r.children):
			next := m.applyAt(r.children[cp.Index], cp.Patches)
			r.children[cp.Index] = next
			if next != nil {
				r.vnode.Children[cp.Index] = next.vnode
			}

		case cp.Index == len(r.children):
			if len(cp.Patches) != 1 || cp.Patches[0].Op != vdom.OpCreate {
				panic(fmt.Sprintf("[ARBOR E003] expected Create at new child index %d", cp.Index))
			}
			nr := m.realize(cp.Patches[0].Node)
			m.attachBefore(nr, parent, nil)
			r.children = append(r.children, nr)
			r.vnode.Children = append(r.vnode.Children, cp.Patches[0].Node)

		default:
			panic(fmt.Sprintf("[ARBOR E002] child index %d out of range (%d children)", cp.Index, len(r.children)))
		}
	}

	// Positional diffs only remove at the tail; drop the holes.
	for len(r.children) > 0 && r.children[len(r.children)-1] == nil {
		r.children = r.children[:len(r.children)-1]
		r.vnode.Children = r.vnode.Children[:len(r.vnode.Children)-1]
	}
}

// replace swaps r's subtree for a realization of next, keeping the
// position in the host child list.
func (m *Mount) replace(r *rnode, next *vdom.VNode) *rnode {
	nr := m.realize(next)
	m.attachBefore(nr, r.hostParent, firstHostNode(r))
	m.destroy(r)
	return nr
}
