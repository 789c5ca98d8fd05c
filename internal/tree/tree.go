package tree

import (
	"io"
	"strings"

	"github.com/CaptShanks/markprism/internal/parser"
)

// DefaultRoot labels the synthetic root when the input does not open with a tag
const DefaultRoot = "html"

// Node is either an element (it has children) or a text leaf (it has none)
type Node struct {
	Label       string
	FirstChild  *Node
	NextSibling *Node
}

// IsLeaf reports whether n is a text leaf
func (n *Node) IsLeaf() bool {
	return n.FirstChild == nil
}

// LastSibling returns the final node of the sibling chain starting at n
func (n *Node) LastSibling() *Node {
	for n.NextSibling != nil {
		n = n.NextSibling
	}
	return n
}

// AppendChild links child as the last child of n
func (n *Node) AppendChild(child *Node) {
	if n.FirstChild == nil {
		n.FirstChild = child
		return
	}
	n.FirstChild.LastSibling().NextSibling = child
}

// Children returns the direct children of n in order
func (n *Node) Children() []*Node {
	var out []*Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return out
}

// Tree is a markup document. The zero value is an empty tree on which every
// edit is a no-op.
type Tree struct {
	root *Node
}

// Build creates a tree from document lines.
//
// Unbalanced input is not rejected: a closer with nothing left to close is
// ignored and elements still open at the end stay where they were linked.
func Build(lines []string) *Tree {
	root := &Node{Label: DefaultRoot}
	if len(lines) > 0 {
		if tok := parser.Classify(lines[0]); tok.Kind == parser.TokenOpen {
			root.Label = tok.Name
			lines = lines[1:]
		}
	}

	stack := []*Node{root}
	for _, line := range lines {
		tok := parser.Classify(line)
		top := stack[len(stack)-1]

		switch tok.Kind {
		case parser.TokenClose:
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
		case parser.TokenOpen:
			n := &Node{Label: tok.Name}
			top.AppendChild(n)
			stack = append(stack, n)
		default:
			top.AppendChild(&Node{Label: line})
		}
	}

	return &Tree{root: root}
}

// Read builds a tree from every line of r
func Read(r io.Reader) (*Tree, error) {
	lines, err := parser.ReadLines(r)
	if err != nil {
		return nil, err
	}
	return Build(lines), nil
}

// Root returns the root node, or nil for an empty tree
func (t *Tree) Root() *Node {
	if t == nil {
		return nil
	}
	return t.root
}

// Empty reports whether the tree has no root
func (t *Tree) Empty() bool {
	return t == nil || t.root == nil
}

// ValidName reports whether name can label an element: it must be non-empty,
// hold no angle brackets and not start with a slash, so that its <name> line
// parses back as an opening tag of the same name.
func ValidName(name string) bool {
	return name != "" && !strings.ContainsAny(name, "<>") && !strings.HasPrefix(name, "/")
}

// HasTag reports whether any node below the root is labeled name
func (t *Tree) HasTag(name string) bool {
	if t.Empty() {
		return false
	}
	return hasTag(t.root.FirstChild, name)
}

func hasTag(n *Node, name string) bool {
	for ; n != nil; n = n.NextSibling {
		if n.Label == name || hasTag(n.FirstChild, name) {
			return true
		}
	}
	return false
}

// WalkFunc is called for every node in document order with its depth
// (the root has depth 0). Returning false skips the node's children.
type WalkFunc func(n *Node, depth int) bool

// Walk visits every node of the tree in document order
func (t *Tree) Walk(fn WalkFunc) {
	if t.Empty() {
		return
	}
	walk(t.root, 0, fn)
}

func walk(n *Node, depth int, fn WalkFunc) {
	for ; n != nil; n = n.NextSibling {
		if fn(n, depth) {
			walk(n.FirstChild, depth+1, fn)
		}
	}
}

// Stats summarizes the shape of a tree
type Stats struct {
	Elements int
	Leaves   int
	Rows     int
	Depth    int
}

// Stats counts elements, leaves and table rows, and measures the depth
func (t *Tree) Stats() Stats {
	var s Stats
	t.Walk(func(n *Node, depth int) bool {
		if depth > s.Depth {
			s.Depth = depth
		}
		if n.IsLeaf() {
			s.Leaves++
			return true
		}
		s.Elements++
		if n.Label == RowTag {
			s.Rows++
		}
		return true
	})
	return s
}

// Clone returns a deep copy of the tree
func (t *Tree) Clone() *Tree {
	if t.Empty() {
		return &Tree{}
	}
	return &Tree{root: cloneChain(t.root)}
}

func cloneChain(n *Node) *Node {
	var head, prev *Node
	for ; n != nil; n = n.NextSibling {
		c := &Node{Label: n.Label, FirstChild: cloneChain(n.FirstChild)}
		if prev == nil {
			head = c
		} else {
			prev.NextSibling = c
		}
		prev = c
	}
	return head
}
