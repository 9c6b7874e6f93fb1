package component

import (
	"strings"
	"testing"

	"github.com/arbor-ui/arbor/pkg/vdom"
)

func counter(c *Instance) *vdom.VNode {
	count, setCount := UseState(c, 0)
	return vdom.El("button",
		vdom.Props{"onClick": func() { setCount(count + 1) }},
		vdom.Textf("count: %d", count),
	)
}

func clickOn(t *testing.T, tree *vdom.VNode) {
	t.Helper()
	fn, ok := tree.Props["onClick"].(func())
	if !ok {
		t.Fatal("no onClick handler on tree")
	}
	fn()
}

func TestInstanceLifecycleStates(t *testing.T) {
	inst := New("Counter", counter, nil)
	if inst.State() != StateConstructed {
		t.Fatalf("state = %v, want Constructed", inst.State())
	}

	tree := inst.Render()
	if inst.State() != StateMounted {
		t.Errorf("state after render = %v, want Mounted", inst.State())
	}
	if tree == nil || tree.Tag != "button" {
		t.Fatalf("render returned %v", tree)
	}

	clickOn(t, tree)
	if inst.State() != StateUpdated {
		t.Errorf("state after update = %v, want Updated", inst.State())
	}
	if inst.Updates() != 1 {
		t.Errorf("updates = %d, want 1", inst.Updates())
	}

	inst.Unmount()
	if inst.State() != StateUnmounted {
		t.Errorf("state after unmount = %v, want Unmounted", inst.State())
	}

	inst.Unmount() // idempotent
	if inst.Render() != nil {
		t.Error("Render on unmounted instance returned a tree")
	}
}

func TestInstanceStateWriteRerenders(t *testing.T) {
	inst := New("Counter", counter, nil)

	var latest *vdom.VNode
	inst.SetUpdateHandler(func(next *vdom.VNode) { latest = next })

	tree := inst.Render()
	clickOn(t, tree)

	if latest == nil {
		t.Fatal("update handler not invoked")
	}
	if got := latest.Children[0].Text; got != "count: 1" {
		t.Errorf("text after click = %q, want count: 1", got)
	}

	// State persists across renders; the second click builds on the first.
	clickOn(t, latest)
	if got := latest.Children[0].Text; got != "count: 2" {
		t.Errorf("text after second click = %q, want count: 2", got)
	}
}

func TestInstanceSameValueWriteDoesNotRerender(t *testing.T) {
	var setter func(int)
	inst := New("Same", func(c *Instance) *vdom.VNode {
		v, set := UseState(c, 5)
		setter = set
		return vdom.Textf("%d", v)
	}, nil)

	inst.Render()
	setter(5)
	if inst.Updates() != 0 {
		t.Errorf("updates = %d, want 0 after same-value write", inst.Updates())
	}
}

func TestInstanceUnmountStopsUpdates(t *testing.T) {
	inst := New("Counter", counter, nil)

	called := false
	inst.SetUpdateHandler(func(*vdom.VNode) { called = true })

	tree := inst.Render()
	inst.Unmount()

	// The click handler still holds the setter; firing it must do nothing.
	clickOn(t, tree)
	if called {
		t.Error("update handler invoked after unmount")
	}
}

func TestInstanceMultipleSlots(t *testing.T) {
	inst := New("Form", func(c *Instance) *vdom.VNode {
		name, setName := UseState(c, "")
		age, setAge := UseState(c, 0)
		return vdom.El("form", vdom.Props{
			"onName": func() { setName("ada") },
			"onAge":  func() { setAge(36) },
		}, vdom.Textf("%s/%d", name, age))
	}, nil)

	var latest *vdom.VNode
	inst.SetUpdateHandler(func(next *vdom.VNode) { latest = next })

	tree := inst.Render()
	tree.Props["onName"].(func())()
	latest.Props["onAge"].(func())()

	if got := latest.Children[0].Text; got != "ada/36" {
		t.Errorf("text = %q, want ada/36", got)
	}
}

func TestInstanceHookOrderChangePanics(t *testing.T) {
	var setter func(bool)
	inst := New("Flaky", func(c *Instance) *vdom.VNode {
		cond, set := UseState(c, true)
		setter = set
		if cond {
			UseState(c, 0)
		}
		return vdom.Text("x")
	}, nil)

	inst.Render()

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("no panic on hook order change")
		}
		if !strings.Contains(r.(string), "E004") {
			t.Errorf("panic = %v, want E004", r)
		}
	}()
	setter(false)
}

func TestInstanceOnCleanup(t *testing.T) {
	inst := New("X", func(c *Instance) *vdom.VNode { return vdom.Text("x") }, nil)

	var order []int
	inst.OnCleanup(func() { order = append(order, 1) })
	inst.OnCleanup(func() { order = append(order, 2) })

	inst.Render()
	inst.Unmount()

	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Errorf("cleanup order = %v, want [1 2]", order)
	}
}

func TestInstanceLifecycleHooks(t *testing.T) {
	var order []string
	var bump func(int)
	inst := New("Hooked", func(c *Instance) *vdom.VNode {
		_, set := UseState(c, 0)
		bump = set
		order = append(order, "render")
		return vdom.Text("x")
	}, nil)

	inst.OnMount(func() { order = append(order, "mount") })
	inst.OnUpdate(func() { order = append(order, "update") })
	inst.OnCleanup(func() { order = append(order, "cleanup1") })
	inst.OnCleanup(func() { order = append(order, "cleanup2") })
	inst.OnDestroy(func() { order = append(order, "destroy") })

	inst.Render()
	bump(1)
	inst.Unmount()

	want := []string{"mount", "render", "render", "update", "cleanup1", "cleanup2", "destroy"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestInstanceSetPropsUpdatesInPlace(t *testing.T) {
	inst := New("Greeter", func(c *Instance) *vdom.VNode {
		n, set := UseState(c, 0)
		label, _ := c.Props()["label"].(string)
		return vdom.El("div", vdom.Props{"onBump": func() { set(n + 1) }},
			vdom.Textf("%s: %d", label, n))
	}, vdom.Props{"label": "a"})

	var latest *vdom.VNode
	inst.SetUpdateHandler(func(next *vdom.VNode) { latest = next })

	tree := inst.Render()
	tree.Props["onBump"].(func())()
	if got := latest.Children[0].Text; got != "a: 1" {
		t.Fatalf("text after bump = %q, want a: 1", got)
	}

	// New props re-render the same instance; state slots survive.
	inst.SetProps(vdom.Props{"label": "b"})
	if inst.State() != StateUpdated {
		t.Errorf("state after SetProps = %v, want Updated", inst.State())
	}
	if got := latest.Children[0].Text; got != "b: 1" {
		t.Errorf("text after SetProps = %q, want b: 1 (slots kept)", got)
	}

	inst.Unmount()
	inst.SetProps(vdom.Props{"label": "c"})
	if got := inst.Props()["label"]; got != "b" {
		t.Errorf("props changed after unmount: %v", got)
	}
}

func TestUseRefIsStableAndSilent(t *testing.T) {
	var seen []*int
	var bump func(int)
	inst := New("Ref", func(c *Instance) *vdom.VNode {
		box := UseRef(c, 7)
		seen = append(seen, box)
		_, set := UseState(c, 0)
		bump = set
		return vdom.Text("x")
	}, nil)

	inst.Render()
	*seen[0] = 9 // never re-renders
	if inst.Updates() != 0 {
		t.Fatalf("updates = %d, want 0", inst.Updates())
	}

	bump(1)
	if len(seen) != 2 || seen[0] != seen[1] {
		t.Errorf("ref not stable across renders: %v", seen)
	}
	if *seen[1] != 9 {
		t.Errorf("ref value = %d, want 9", *seen[1])
	}
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	reg.Register("Counter", counter)

	inst, err := reg.MountComponent("Counter", vdom.Props{"start": 1})
	if err != nil {
		t.Fatalf("MountComponent: %v", err)
	}
	if inst.Render() == nil {
		t.Error("instance renders nil")
	}

	if _, err := reg.MountComponent("Nope", nil); err == nil {
		t.Error("unknown component did not error")
	}

	reg.Register("Another", counter)
	names := reg.Names()
	if len(names) != 2 || names[0] != "Another" || names[1] != "Counter" {
		t.Errorf("Names() = %v", names)
	}
}
