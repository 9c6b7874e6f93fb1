package server

import (
	"encoding/json"
	"testing"

	"github.com/arbor-ui/arbor/pkg/vdom"
)

func TestToWireNodeStripsHandlers(t *testing.T) {
	tree := vdom.El("button",
		vdom.Props{"onClick": func() {}, "id": "b", "key": "k"},
		"go",
	)

	w := toWireNode(tree)
	if w.Kind != "Element" || w.Tag != "button" {
		t.Fatalf("wire node = %+v", w)
	}
	if len(w.Events) != 1 || w.Events[0] != "click" {
		t.Errorf("Events = %v, want [click]", w.Events)
	}
	if _, ok := w.Props["onClick"]; ok {
		t.Error("handler leaked into props")
	}
	if _, ok := w.Props["key"]; ok {
		t.Error("key leaked into props")
	}
	if w.Props["id"] != "b" {
		t.Errorf("Props = %v", w.Props)
	}
	if len(w.Children) != 1 || w.Children[0].Text != "go" {
		t.Errorf("Children = %+v", w.Children)
	}

	// The result must be JSON-encodable even though the source held a func.
	if _, err := json.Marshal(w); err != nil {
		t.Errorf("marshal: %v", err)
	}
}

func TestToWirePatchesNested(t *testing.T) {
	prev := vdom.El("div", nil, "old")
	next := vdom.El("div", nil, "new")

	wire := toWirePatches(vdom.Diff(prev, next))
	if len(wire) != 1 || wire[0].Op != "Children" {
		t.Fatalf("wire = %+v", wire)
	}
	cp := wire[0].Children
	if len(cp) != 1 || cp[0].Index != 0 {
		t.Fatalf("children = %+v", cp)
	}
	if len(cp[0].Patches) != 1 || cp[0].Patches[0].Op != "Text" || cp[0].Patches[0].Text != "new" {
		t.Errorf("nested = %+v", cp[0].Patches)
	}
}

func TestDecodeFrame(t *testing.T) {
	frameType, _, err := decodeFrame([]byte(`{"type":"event","path":[0],"event":"click"}`))
	if err != nil {
		t.Fatalf("decodeFrame: %v", err)
	}
	if frameType != "event" {
		t.Errorf("type = %q, want event", frameType)
	}

	if _, _, err := decodeFrame([]byte(`not json`)); err == nil {
		t.Error("malformed frame did not error")
	}
	if _, _, err := decodeFrame([]byte(`{}`)); err == nil {
		t.Error("missing type did not error")
	}
}
