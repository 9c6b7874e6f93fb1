package host

import "testing"

func TestMemoryHostTreeMutations(t *testing.T) {
	h := NewMemoryHost()

	div := h.CreateElement("div")
	h.SetProp(div, "class", "box")
	h.AppendChild(h.Root, div)

	txt := h.CreateText("hello")
	h.AppendChild(div, txt)

	if got := h.String(); got != `<div class="box">hello</div>` {
		t.Errorf("String() = %s", got)
	}

	h.SetText(txt, "bye")
	h.RemoveProp(div, "class")
	if got := h.String(); got != `<div>bye</div>` {
		t.Errorf("String() after mutations = %s", got)
	}

	span := h.CreateElement("span")
	h.ReplaceChild(div, txt, span)
	if got := h.String(); got != `<div><span></span></div>` {
		t.Errorf("String() after replace = %s", got)
	}
	if txt.(*MemoryNode).Parent() != nil {
		t.Error("replaced node still has a parent")
	}

	h.RemoveChild(div, span)
	if got := h.String(); got != `<div></div>` {
		t.Errorf("String() after remove = %s", got)
	}
}

func TestMemoryHostInsertBefore(t *testing.T) {
	h := NewMemoryHost()
	a := h.CreateText("a")
	c := h.CreateText("c")
	h.AppendChild(h.Root, a)
	h.AppendChild(h.Root, c)

	b := h.CreateText("b")
	h.InsertBefore(h.Root, b, c)
	if got := h.String(); got != "abc" {
		t.Errorf("String() = %s, want abc", got)
	}

	d := h.CreateText("d")
	h.InsertBefore(h.Root, d, nil)
	if got := h.String(); got != "abcd" {
		t.Errorf("String() with nil ref = %s, want abcd", got)
	}
}

func TestMemoryHostListeners(t *testing.T) {
	h := NewMemoryHost()
	btn := h.CreateElement("button").(*MemoryNode)

	fired := 0
	h.AddListener(btn, "click", func(Event) { fired++ })

	if !btn.Dispatch(Event{Type: "click"}) {
		t.Fatal("Dispatch(click) found no listener")
	}
	if fired != 1 {
		t.Errorf("fired = %d, want 1", fired)
	}

	// Rebinding replaces, not stacks.
	h.AddListener(btn, "click", func(Event) { fired += 10 })
	btn.Dispatch(Event{Type: "click"})
	if fired != 11 {
		t.Errorf("fired after rebind = %d, want 11", fired)
	}

	h.RemoveListener(btn, "click")
	if btn.Dispatch(Event{Type: "click"}) {
		t.Error("Dispatch found a listener after removal")
	}
}

func TestMemoryHostOpsLog(t *testing.T) {
	h := NewMemoryHost()
	div := h.CreateElement("div")
	h.AppendChild(h.Root, div)

	if len(h.Ops) != 2 {
		t.Fatalf("Ops = %v, want 2 entries", h.Ops)
	}
	if h.Ops[0] != "createElement div" {
		t.Errorf("Ops[0] = %q", h.Ops[0])
	}
}
