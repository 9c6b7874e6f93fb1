package vdom

import "reflect"

// Diff compares two trees and returns the patches that transform prev into
// next. Diffing a tree against itself yields no patches.
func Diff(prev, next *VNode) []Patch {
	if prev == nil && next == nil {
		return nil
	}
	if prev == nil {
		return []Patch{{Op: OpCreate, Node: next}}
	}
	if next == nil {
		return []Patch{{Op: OpRemove}}
	}

	// Different kinds never reconcile in place.
	if prev.Kind != next.Kind {
		return []Patch{{Op: OpReplace, Node: next}}
	}

	var patches []Patch
	switch prev.Kind {
	case KindText:
		if prev.Text != next.Text {
			patches = append(patches, Patch{Op: OpText, Text: next.Text})
		}
	case KindElement:
		if prev.Tag != next.Tag {
			return []Patch{{Op: OpReplace, Node: next}}
		}
		if props := diffProps(prev.Props, next.Props); len(props) > 0 {
			patches = append(patches, Patch{Op: OpProps, Props: props})
		}
		if children := diffChildren(prev.Children, next.Children); len(children) > 0 {
			patches = append(patches, Patch{Op: OpChildren, Children: children})
		}
	case KindFragment:
		if children := diffChildren(prev.Children, next.Children); len(children) > 0 {
			patches = append(patches, Patch{Op: OpChildren, Children: children})
		}
	case KindComponent:
		// A component reference is opaque here. Same name and same props
		// means the instance is untouched; anything else replaces it so the
		// old instance can be unmounted and a fresh one constructed.
		if prev.Name != next.Name || !propsMapEqual(prev.Props, next.Props) {
			return []Patch{{Op: OpReplace, Node: next}}
		}
	}
	return patches
}

// diffProps computes the symmetric prop difference. Event handlers are not
// diffed (listeners are bound when a node is realized) and "key" is
// bookkeeping, not a real prop.
func diffProps(prev, next Props) []PropPatch {
	var out []PropPatch

	for key, prevVal := range prev {
		if IsEventHandler(key) || key == "key" {
			continue
		}
		nextVal, exists := next[key]
		if !exists {
			out = append(out, PropPatch{Key: key, Remove: true})
		} else if !propsEqual(prevVal, nextVal) {
			out = append(out, PropPatch{Key: key, Value: nextVal})
		}
	}

	for key, nextVal := range next {
		if IsEventHandler(key) || key == "key" {
			continue
		}
		if _, exists := prev[key]; !exists {
			out = append(out, PropPatch{Key: key, Value: nextVal})
		}
	}

	return out
}

// diffChildren matches children by position up to the longer list. Indices
// refer to positions in the previous tree; the patcher applies removals and
// creations against that addressing.
func diffChildren(prev, next []*VNode) []ChildPatch {
	maxLen := len(prev)
	if len(next) > maxLen {
		maxLen = len(next)
	}

	var out []ChildPatch
	for i := 0; i < maxLen; i++ {
		var prevChild, nextChild *VNode
		if i < len(prev) {
			prevChild = prev[i]
		}
		if i < len(next) {
			nextChild = next[i]
		}

		if sub := Diff(prevChild, nextChild); len(sub) > 0 {
			out = append(out, ChildPatch{Index: i, Patches: sub})
		}
	}
	return out
}

// propsMapEqual reports whether two prop maps are equal, ignoring event
// handlers and the "key" entry.
func propsMapEqual(a, b Props) bool {
	return len(diffProps(a, b)) == 0
}

// PropsEqual reports whether two prop maps carry the same data. Event
// handlers and "key" are ignored, matching what Diff compares.
func PropsEqual(a, b Props) bool {
	return propsMapEqual(a, b)
}

// propsEqual compares two prop values.
func propsEqual(a, b any) bool {
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case int:
		bv, ok := b.(int)
		return ok && av == bv
	case int64:
		bv, ok := b.(int64)
		return ok && av == bv
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case nil:
		return b == nil
	}
	return reflect.DeepEqual(a, b)
}
