package handle

import "fmt"

// Node is one entry in the object tree under a Collection. Trees are
// assembled by BuildTree only and are immutable afterwards; there is no
// attach or detach API.
type Node struct {
	Handle   Handle
	parent   *Node
	children []*Node
}

// BuildTree builds the object tree rooted at the given Collection handle.
// resolve returns the child handles listed on a collection's view page;
// it is called once for the root and once for every descendant
// Collection. Document children become leaf nodes, Version handles are
// ignored (they never appear on a collection view).
func BuildTree(root Handle, resolve func(Handle) ([]Handle, error)) (*Node, error) {
	if root.Type != Collection {
		return nil, fmt.Errorf("tree root must be a Collection handle, got %s", root)
	}
	visiting := map[Handle]bool{}
	return buildNode(root, resolve, visiting)
}

func buildNode(h Handle, resolve func(Handle) ([]Handle, error), visiting map[Handle]bool) (*Node, error) {
	if visiting[h] {
		return nil, fmt.Errorf("collection cycle detected at %s", h)
	}
	visiting[h] = true
	defer delete(visiting, h)

	node := &Node{Handle: h}
	children, err := resolve(h)
	if err != nil {
		return nil, err
	}
	for _, child := range children {
		switch child.Type {
		case Document:
			node.children = append(node.children, &Node{Handle: child, parent: node})
		case Collection:
			sub, err := buildNode(child, resolve, visiting)
			if err != nil {
				return nil, err
			}
			sub.parent = node
			node.children = append(node.children, sub)
		}
	}
	return node, nil
}

// Parent returns the parent node, or nil for the root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns the child nodes in the order they were listed on the
// collection view page. The returned slice is a copy.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// Leaves returns every Document node in the subtree in depth-first
// order. Collections are never leaves, even when they have no children.
func (n *Node) Leaves() []*Node {
	var leaves []*Node
	n.walk(func(node *Node) {
		if node.Handle.Type == Document {
			leaves = append(leaves, node)
		}
	})
	return leaves
}

func (n *Node) walk(visit func(*Node)) {
	visit(n)
	for _, child := range n.children {
		child.walk(visit)
	}
}

// Path returns the chain of nodes from the tree root down to this node,
// both inclusive.
func (n *Node) Path() []*Node {
	var path []*Node
	for node := n; node != nil; node = node.parent {
		path = append(path, node)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
