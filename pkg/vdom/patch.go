package vdom

// Op is the type of patch operation.
type Op uint8

const (
	OpCreate   Op = iota // create a node at this position
	OpRemove             // remove the node at this position
	OpReplace            // replace the node at this position
	OpText               // update a text node's content
	OpProps              // set/remove individual props
	OpChildren           // recurse into children by index
)

// String returns the string representation of the Op.
func (op Op) String() string {
	switch op {
	case OpCreate:
		return "Create"
	case OpRemove:
		return "Remove"
	case OpReplace:
		return "Replace"
	case OpText:
		return "Text"
	case OpProps:
		return "Props"
	case OpChildren:
		return "Children"
	default:
		return "Unknown"
	}
}

// Patch is one instruction for transforming a tree position. Patches are
// positional: a top-level patch targets the root, and OpChildren carries
// nested patches addressed by child index.
type Patch struct {
	Op       Op
	Node     *VNode       // OpCreate, OpReplace
	Text     string       // OpText
	Props    []PropPatch  // OpProps
	Children []ChildPatch // OpChildren
}

// PropPatch sets or removes a single prop.
type PropPatch struct {
	Key    string
	Value  any
	Remove bool
}

// ChildPatch addresses one child by position and carries the patches to
// apply there.
type ChildPatch struct {
	Index   int
	Patches []Patch
}
