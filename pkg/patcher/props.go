package patcher

import (
	"fmt"
	"strconv"

	"github.com/arbor-ui/arbor/pkg/host"
	"github.com/arbor-ui/arbor/pkg/vdom"
)

// setProp writes one prop to the host. Booleans get presence semantics:
// true sets the attribute, false removes it.
func (m *Mount) setProp(node host.Node, key string, value any) {
	if b, ok := value.(bool); ok {
		if b {
			m.host.SetProp(node, key, "true")
		} else {
			m.host.RemoveProp(node, key)
		}
		return
	}
	m.host.SetProp(node, key, stringify(value))
}

// bindListener wires a handler prop to the host event it names. Handler
// values that are neither niladic funcs nor event funcs are ignored.
func (m *Mount) bindListener(node host.Node, key string, value any) {
	event := vdom.EventName(key)
	switch fn := value.(type) {
	case func():
		m.host.AddListener(node, event, func(host.Event) { fn() })
	case func(host.Event):
		m.host.AddListener(node, event, fn)
	case host.Listener:
		m.host.AddListener(node, event, fn)
	}
}

// stringify converts a prop value to its attribute string.
func stringify(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
