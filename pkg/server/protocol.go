package server

import (
	"encoding/json"
	"fmt"

	"github.com/arbor-ui/arbor/pkg/vdom"
)

// Frame types on the wire. Every frame is a JSON object with a "type" field.
const (
	frameEvent   = "event"
	framePatches = "patches"
	framePing    = "ping"
	framePong    = "pong"
	frameError   = "error"
)

// EventFrame is a client event. Path addresses the target node by child
// indices from the root of the expanded tree.
type EventFrame struct {
	Type    string         `json:"type"`
	Path    []int          `json:"path"`
	Event   string         `json:"event"`
	Payload map[string]any `json:"payload,omitempty"`
}

// PatchesFrame carries one render's patches to the client.
type PatchesFrame struct {
	Type    string      `json:"type"`
	Seq     uint64      `json:"seq"`
	Patches []WirePatch `json:"patches"`
}

// ErrorFrame reports a recoverable server-side problem to the client.
type ErrorFrame struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// controlFrame is a ping or pong.
type controlFrame struct {
	Type string `json:"type"`
}

// WireNode is a VNode stripped for transport: handler funcs become a list
// of event names the client should listen for.
type WireNode struct {
	Kind     string            `json:"kind"`
	Tag      string            `json:"tag,omitempty"`
	Text     string            `json:"text,omitempty"`
	Props    map[string]string `json:"props,omitempty"`
	Events   []string          `json:"events,omitempty"`
	Children []*WireNode       `json:"children,omitempty"`
}

// WirePatch mirrors vdom.Patch with transportable payloads.
type WirePatch struct {
	Op       string           `json:"op"`
	Node     *WireNode        `json:"node,omitempty"`
	Text     string           `json:"text,omitempty"`
	Props    []WirePropPatch  `json:"props,omitempty"`
	Children []WireChildPatch `json:"children,omitempty"`
}

// WirePropPatch is a transportable vdom.PropPatch.
type WirePropPatch struct {
	Key    string `json:"key"`
	Value  string `json:"value,omitempty"`
	Remove bool   `json:"remove,omitempty"`
}

// WireChildPatch is a transportable vdom.ChildPatch.
type WireChildPatch struct {
	Index   int         `json:"index"`
	Patches []WirePatch `json:"patches"`
}

// toWireNode converts an expanded tree for transport. Component references
// must already be expanded; hitting one is a programming error.
func toWireNode(v *vdom.VNode) *WireNode {
	if v == nil {
		return nil
	}

	w := &WireNode{Kind: v.Kind.String()}
	switch v.Kind {
	case vdom.KindText:
		w.Text = v.Text
	case vdom.KindElement:
		w.Tag = v.Tag
		for key, val := range v.Props {
			if key == "key" {
				continue
			}
			if vdom.IsEventHandler(key) {
				w.Events = append(w.Events, vdom.EventName(key))
				continue
			}
			if w.Props == nil {
				w.Props = make(map[string]string)
			}
			w.Props[key] = propString(val)
		}
	case vdom.KindComponent:
		panic(fmt.Sprintf("[ARBOR E001] unexpanded component %q reached the wire", v.Name))
	}

	for _, c := range v.Children {
		w.Children = append(w.Children, toWireNode(c))
	}
	return w
}

// toWirePatches converts diff output for transport.
func toWirePatches(patches []vdom.Patch) []WirePatch {
	out := make([]WirePatch, 0, len(patches))
	for _, p := range patches {
		wp := WirePatch{Op: p.Op.String(), Text: p.Text}
		if p.Node != nil {
			wp.Node = toWireNode(p.Node)
		}
		for _, pp := range p.Props {
			wpp := WirePropPatch{Key: pp.Key, Remove: pp.Remove}
			if !pp.Remove {
				wpp.Value = propString(pp.Value)
			}
			wp.Props = append(wp.Props, wpp)
		}
		for _, cp := range p.Children {
			wp.Children = append(wp.Children, WireChildPatch{
				Index:   cp.Index,
				Patches: toWirePatches(cp.Patches),
			})
		}
		out = append(out, wp)
	}
	return out
}

func propString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprintf("%v", v)
	}
}

// decodeFrame peeks the frame type, then decodes the full frame.
func decodeFrame(data []byte) (string, []byte, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return "", nil, fmt.Errorf("decode frame: %w", err)
	}
	if head.Type == "" {
		return "", nil, fmt.Errorf("decode frame: missing type")
	}
	return head.Type, data, nil
}
