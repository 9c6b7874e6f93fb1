package vdom

import "strings"

// Kind is the node type discriminator.
type Kind uint8

const (
	KindElement   Kind = iota // tagged node with props and children
	KindText                  // plain text leaf
	KindFragment              // grouping without a wrapper node
	KindComponent             // reference to a registered component
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindFragment:
		return "Fragment"
	case KindComponent:
		return "Component"
	default:
		return "Unknown"
	}
}

// Props holds attributes and event handlers.
type Props map[string]any

// VNode is a node in the declarative tree. Which fields are meaningful
// depends on Kind: elements use Tag, Props and Children; text nodes use
// Text; fragments use Children; component references use Name and Props.
type VNode struct {
	Kind     Kind
	Tag      string
	Props    Props
	Children []*VNode
	Text     string
	Name     string
}

// IsInteractive reports whether this element carries event handlers.
func (v *VNode) IsInteractive() bool {
	if v == nil || v.Kind != KindElement {
		return false
	}
	for key := range v.Props {
		if IsEventHandler(key) {
			return true
		}
	}
	return false
}

// IsEventHandler reports whether a prop key names an event handler.
// Case-insensitive so onclick, onClick and ONCLICK all count.
func IsEventHandler(key string) bool {
	return len(key) > 2 && strings.EqualFold(key[:2], "on")
}

// EventName returns the event a handler prop key listens for
// ("onClick" gives "click"). Empty for non-handler keys.
func EventName(key string) string {
	if !IsEventHandler(key) {
		return ""
	}
	return strings.ToLower(key[2:])
}
