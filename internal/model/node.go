package model

import (
	"sort"
)

// Node is the normalized tree every parser produces: a type tag, a flat
// attribute map, and an ordered list of children. Parsers must be
// deterministic, so identical input bytes always yield an identical tree.
type Node struct {
	Type     string            `json:"type"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Children []*Node           `json:"children,omitempty"`
}

// NewNode creates a node with the given type tag.
func NewNode(nodeType string) *Node {
	return &Node{Type: nodeType, Attrs: make(map[string]string)}
}

// Set assigns an attribute and returns the node for chaining.
func (n *Node) Set(key, value string) *Node {
	if n.Attrs == nil {
		n.Attrs = make(map[string]string)
	}
	n.Attrs[key] = value
	return n
}

// Get returns the attribute value or "" when absent.
func (n *Node) Get(key string) string {
	return n.Attrs[key]
}

// Add appends children and returns the node for chaining.
func (n *Node) Add(children ...*Node) *Node {
	n.Children = append(n.Children, children...)
	return n
}

// AttrKeys returns the attribute keys in sorted order. Walks over attributes
// must use this to stay reproducible.
func (n *Node) AttrKeys() []string {
	keys := make([]string, 0, len(n.Attrs))
	for k := range n.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a deep copy of the tree rooted at n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	clone := &Node{Type: n.Type}
	if n.Attrs != nil {
		clone.Attrs = make(map[string]string, len(n.Attrs))
		for k, v := range n.Attrs {
			clone.Attrs[k] = v
		}
	}
	if n.Children != nil {
		clone.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			clone.Children[i] = child.Clone()
		}
	}
	return clone
}

// Walk visits n and every descendant in depth-first order.
func (n *Node) Walk(visit func(*Node)) {
	if n == nil {
		return
	}
	visit(n)
	for _, child := range n.Children {
		child.Walk(visit)
	}
}

// CountType returns how many nodes in the tree have the given type tag.
func (n *Node) CountType(nodeType string) int {
	count := 0
	n.Walk(func(node *Node) {
		if node.Type == nodeType {
			count++
		}
	})
	return count
}
