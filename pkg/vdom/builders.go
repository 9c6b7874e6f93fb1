package vdom

import "fmt"

// El creates an element node. Children may be *VNode, []*VNode or string
// (wrapped as a text node); nils are dropped.
func El(tag string, props Props, children ...any) *VNode {
	return &VNode{
		Kind:     KindElement,
		Tag:      tag,
		Props:    props,
		Children: flatten(children),
	}
}

// Text creates a text node.
func Text(content string) *VNode {
	return &VNode{
		Kind: KindText,
		Text: content,
	}
}

// Textf creates a formatted text node.
func Textf(format string, args ...any) *VNode {
	return Text(fmt.Sprintf(format, args...))
}

// Fragment groups children without a wrapper node.
func Fragment(children ...any) *VNode {
	return &VNode{
		Kind:     KindFragment,
		Children: flatten(children),
	}
}

// Component creates a reference to a registered component. The name is
// resolved against a component registry when the tree is realized.
func Component(name string, props Props) *VNode {
	return &VNode{
		Kind:  KindComponent,
		Name:  name,
		Props: props,
	}
}

func flatten(children []any) []*VNode {
	out := make([]*VNode, 0, len(children))
	for _, child := range children {
		switch v := child.(type) {
		case nil:
			continue
		case *VNode:
			if v != nil {
				out = append(out, v)
			}
		case []*VNode:
			for _, c := range v {
				if c != nil {
					out = append(out, c)
				}
			}
		case string:
			out = append(out, Text(v))
		}
	}
	return out
}

// If returns the node if condition is true, nil otherwise.
func If(condition bool, node *VNode) *VNode {
	if condition {
		return node
	}
	return nil
}

// IfElse returns the first node if condition is true, the second otherwise.
func IfElse(condition bool, ifTrue, ifFalse *VNode) *VNode {
	if condition {
		return ifTrue
	}
	return ifFalse
}

// When is like If but with lazy evaluation. The function is only called if
// condition is true.
func When(condition bool, fn func() *VNode) *VNode {
	if condition {
		return fn()
	}
	return nil
}

// Range maps a slice to nodes, dropping nils.
func Range[T any](items []T, fn func(item T, index int) *VNode) []*VNode {
	result := make([]*VNode, 0, len(items))
	for i, item := range items {
		if node := fn(item, i); node != nil {
			result = append(result, node)
		}
	}
	return result
}

// Repeat creates n nodes using the given function.
func Repeat(n int, fn func(i int) *VNode) []*VNode {
	if n <= 0 {
		return nil
	}
	result := make([]*VNode, 0, n)
	for i := 0; i < n; i++ {
		if node := fn(i); node != nil {
			result = append(result, node)
		}
	}
	return result
}
