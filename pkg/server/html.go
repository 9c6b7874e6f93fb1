package server

import (
	"html"
	"sort"
	"strings"

	"github.com/arbor-ui/arbor/pkg/vdom"
)

// voidElements never carry children or a closing tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// RenderHTML serializes an expanded tree to HTML for the initial response.
// Text and attribute values are escaped; event handler props are dropped
// (the client binds listeners after it connects).
func RenderHTML(tree *vdom.VNode) string {
	var sb strings.Builder
	writeHTML(&sb, tree)
	return sb.String()
}

func writeHTML(sb *strings.Builder, v *vdom.VNode) {
	if v == nil {
		return
	}

	switch v.Kind {
	case vdom.KindText:
		sb.WriteString(html.EscapeString(v.Text))

	case vdom.KindFragment:
		for _, c := range v.Children {
			writeHTML(sb, c)
		}

	case vdom.KindElement:
		sb.WriteByte('<')
		sb.WriteString(v.Tag)
		writeAttrs(sb, v.Props)

		if voidElements[v.Tag] {
			sb.WriteString("/>")
			return
		}
		sb.WriteByte('>')

		for _, c := range v.Children {
			writeHTML(sb, c)
		}

		sb.WriteString("</")
		sb.WriteString(v.Tag)
		sb.WriteByte('>')
	}
}

func writeAttrs(sb *strings.Builder, props vdom.Props) {
	if len(props) == 0 {
		return
	}

	keys := make([]string, 0, len(props))
	for k := range props {
		if k == "key" || vdom.IsEventHandler(k) {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		val := props[k]
		if b, ok := val.(bool); ok {
			if b {
				sb.WriteByte(' ')
				sb.WriteString(k)
			}
			continue
		}
		sb.WriteByte(' ')
		sb.WriteString(k)
		sb.WriteString(`="`)
		sb.WriteString(html.EscapeString(propString(val)))
		sb.WriteByte('"')
	}
}
