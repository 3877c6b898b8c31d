package project

import "strings"

// Clone returns a deep copy of the forest
func (f Forest) Clone() Forest {
	if f == nil {
		return nil
	}
	out := make(Forest, len(f))
	for i, n := range f {
		out[i] = n.clone()
	}
	return out
}

func (n *Node) clone() *Node {
	c := &Node{Name: n.Name, Type: n.Type, Path: n.Path}
	if n.Content != nil {
		content := *n.Content
		c.Content = &content
	}
	if n.Children != nil {
		c.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			c.Children[i] = child.clone()
		}
	}
	return c
}

// Find returns the node at the given slash-joined path, or nil
func (f Forest) Find(path string) *Node {
	var found *Node
	f.Walk(func(n *Node) bool {
		if n.Path == path {
			found = n
			return false
		}
		return true
	})
	return found
}

// FindTopLevel matches name case-insensitively against top-level nodes only
func (f Forest) FindTopLevel(name string) *Node {
	for _, n := range f {
		if strings.EqualFold(n.Name, name) {
			return n
		}
	}
	return nil
}

// FindByName searches depth-first (pre-order) for the first node whose
// name matches case-insensitively.
func (f Forest) FindByName(name string) *Node {
	var found *Node
	f.Walk(func(n *Node) bool {
		if strings.EqualFold(n.Name, name) {
			found = n
			return false
		}
		return true
	})
	return found
}

// Walk visits nodes in pre-order until fn returns false
func (f Forest) Walk(fn func(*Node) bool) {
	walk(f, fn)
}

func walk(nodes []*Node, fn func(*Node) bool) bool {
	for _, n := range nodes {
		if !fn(n) {
			return false
		}
		if !walk(n.Children, fn) {
			return false
		}
	}
	return true
}

// AppendContent returns a new forest in which the first node matched by
// FindByName has "\n\n"+text appended to its content. Only the nodes on the
// path to the match are copied; the receiver is left untouched. The second
// result is the matched node as it appears in the new forest, or nil.
// Callers rule out folder matches before calling.
func (f Forest) AppendContent(name, text string) (Forest, *Node) {
	out, match := appendIn(f, name, text)
	if match == nil {
		return f, nil
	}
	return out, match
}

func appendIn(nodes []*Node, name, text string) ([]*Node, *Node) {
	for i, n := range nodes {
		var replacement *Node

		if strings.EqualFold(n.Name, name) {
			replacement = &Node{Name: n.Name, Type: n.Type, Path: n.Path, Children: n.Children}
			content := n.Text() + "\n\n" + text
			replacement.Content = &content
			out := append(append(make([]*Node, 0, len(nodes)), nodes[:i]...), replacement)
			return append(out, nodes[i+1:]...), replacement
		}

		children, match := appendIn(n.Children, name, text)
		if match == nil {
			continue
		}
		replacement = &Node{Name: n.Name, Type: n.Type, Path: n.Path, Content: n.Content, Children: children}
		out := append(append(make([]*Node, 0, len(nodes)), nodes[:i]...), replacement)
		return append(out, nodes[i+1:]...), match
	}
	return nodes, nil
}

// WithFile returns a new forest with a top-level file appended
func (f Forest) WithFile(name, content string) Forest {
	out := make(Forest, 0, len(f)+1)
	out = append(out, f...)
	return append(out, newFile(name, name, content))
}

// CountFiles returns the total number of files in the forest
func (f Forest) CountFiles() int {
	count := 0
	f.Walk(func(n *Node) bool {
		if !n.IsFolder() {
			count++
		}
		return true
	})
	return count
}

// CountDirs returns the total number of folders in the forest
func (f Forest) CountDirs() int {
	count := 0
	f.Walk(func(n *Node) bool {
		if n.IsFolder() {
			count++
		}
		return true
	})
	return count
}

// MaxDepth returns the number of levels in the forest (0 when empty)
func (f Forest) MaxDepth() int {
	return maxDepth(f)
}

func maxDepth(nodes []*Node) int {
	deepest := 0
	for _, n := range nodes {
		if d := maxDepth(n.Children); d > deepest {
			deepest = d
		}
	}
	if len(nodes) == 0 {
		return 0
	}
	return deepest + 1
}

// FilePaths lists every file path in pre-order
func (f Forest) FilePaths() []string {
	var paths []string
	f.Walk(func(n *Node) bool {
		if !n.IsFolder() {
			paths = append(paths, n.Path)
		}
		return true
	})
	return paths
}

// Names lists the names of all nodes in pre-order
func (f Forest) Names() []string {
	var names []string
	f.Walk(func(n *Node) bool {
		names = append(names, n.Name)
		return true
	})
	return names
}
