// Package component hosts component instances: a render function plus the
// reactive state that belongs to one mounted occurrence of it. State lives
// in call-order slots, renders run under a tracked effect, and a state
// write re-renders the instance and hands the new tree to whoever mounted
// it.
package component

import (
	"fmt"

	"github.com/arbor-ui/arbor/pkg/reactive"
	"github.com/arbor-ui/arbor/pkg/vdom"
)

// State is an instance's lifecycle phase.
type State uint8

const (
	StateConstructed State = iota // allocated, never rendered
	StateMounted                  // first render done
	StateUpdated                  // re-rendered at least once
	StateUnmounted                // released; terminal
)

// String returns the string representation of the State.
func (s State) String() string {
	switch s {
	case StateConstructed:
		return "Constructed"
	case StateMounted:
		return "Mounted"
	case StateUpdated:
		return "Updated"
	case StateUnmounted:
		return "Unmounted"
	default:
		return "Unknown"
	}
}

// RenderFunc produces an instance's tree. It must call the Use* hooks in
// the same order on every render.
type RenderFunc func(c *Instance) *vdom.VNode

// Instance is one live occurrence of a component.
type Instance struct {
	name  string
	props vdom.Props
	fn    RenderFunc

	state   State
	updates int

	// cell stores hook slot values, one key per call-order index.
	cell   *reactive.Cell
	cursor int
	slots  int

	effect   *reactive.Effect
	update   func(*vdom.VNode)
	cleanups []func()

	mountHooks   []func()
	updateHooks  []func()
	destroyHooks []func()
}

// New constructs an instance. No render happens until Render is called.
func New(name string, fn RenderFunc, props vdom.Props) *Instance {
	return &Instance{
		name:  name,
		props: props,
		fn:    fn,
		cell:  reactive.NewCell(),
	}
}

// Name returns the component name this instance was mounted under.
func (c *Instance) Name() string { return c.name }

// Props returns the props the instance was mounted with.
func (c *Instance) Props() vdom.Props { return c.props }

// State returns the current lifecycle phase.
func (c *Instance) State() State { return c.state }

// Updates returns how many times the instance has re-rendered itself.
func (c *Instance) Updates() int { return c.updates }

// Render runs the render function under the instance's tracked effect and
// returns the produced tree. The first call transitions the instance to
// Mounted. Rendering an unmounted instance returns nil.
func (c *Instance) Render() *vdom.VNode {
	if c.state == StateUnmounted {
		return nil
	}

	if c.effect == nil {
		c.effect = reactive.NewEffect(c.render,
			reactive.Lazy(),
			reactive.WithScheduler(func(*reactive.Effect) { c.rerender() }),
		)
	}

	if c.state == StateConstructed {
		for _, fn := range c.mountHooks {
			fn()
		}
		tree := c.runRender()
		c.state = StateMounted
		return tree
	}
	return c.runRender()
}

// SetProps replaces the instance's props and, when already mounted,
// re-renders in place. State slots are kept; this is an update, not a
// remount. No-op after unmount.
func (c *Instance) SetProps(props vdom.Props) {
	if c.state == StateUnmounted {
		return
	}
	c.props = props
	if c.state != StateConstructed {
		c.rerender()
	}
}

// SetUpdateHandler registers the callback that receives trees from
// self-triggered re-renders.
func (c *Instance) SetUpdateHandler(fn func(next *vdom.VNode)) {
	c.update = fn
}

// OnMount registers fn to run when the instance mounts, before the first
// render.
func (c *Instance) OnMount(fn func()) {
	c.mountHooks = append(c.mountHooks, fn)
}

// OnUpdate registers fn to run after each update, once the new tree has
// been handed to the update handler.
func (c *Instance) OnUpdate(fn func()) {
	c.updateHooks = append(c.updateHooks, fn)
}

// OnDestroy registers fn to run at unmount, after the cleanups.
func (c *Instance) OnDestroy(fn func()) {
	c.destroyHooks = append(c.destroyHooks, fn)
}

// OnCleanup registers fn to run when the instance unmounts. Cleanups run
// in registration order.
func (c *Instance) OnCleanup(fn func()) {
	c.cleanups = append(c.cleanups, fn)
}

// Unmount releases the instance: the render effect detaches from its
// dependencies first, then cleanups run, then the destroy hooks.
// Idempotent and terminal.
func (c *Instance) Unmount() {
	if c.state == StateUnmounted {
		return
	}
	c.state = StateUnmounted

	if c.effect != nil {
		c.effect.Stop()
	}
	for _, fn := range c.cleanups {
		fn()
	}
	c.cleanups = nil
	for _, fn := range c.destroyHooks {
		fn()
	}
	c.destroyHooks = nil
}

// render is the effect body.
func (c *Instance) render() any {
	c.cursor = 0
	tree := c.fn(c)

	if c.state == StateConstructed {
		c.slots = c.cursor
	} else if c.cursor != c.slots {
		panic(fmt.Sprintf("[ARBOR E004] hook order changed in %q: expected %d slots, got %d",
			c.name, c.slots, c.cursor))
	}
	return tree
}

func (c *Instance) runRender() *vdom.VNode {
	tree, _ := c.effect.Run().(*vdom.VNode)
	return tree
}

// rerender is invoked by the effect scheduler when a state slot changes,
// and by SetProps. It runs synchronously inside the write that triggered it.
func (c *Instance) rerender() {
	if c.state == StateUnmounted {
		return
	}

	next := c.runRender()
	c.state = StateUpdated
	c.updates++

	if c.update != nil {
		c.update(next)
	}
	for _, fn := range c.updateHooks {
		fn()
	}
}
