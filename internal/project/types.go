package project

import "encoding/json"

// NodeType distinguishes files from folders in the virtual tree
type NodeType string

const (
	TypeFile   NodeType = "file"
	TypeFolder NodeType = "folder"
)

// DefaultName is used before the first generation and after a reset
const DefaultName = "Untitled Project"

// Node is one entry of the virtual project tree.
// Content is set only for files, Children only for folders.
type Node struct {
	Name     string   `json:"name"`
	Type     NodeType `json:"type"`
	Path     string   `json:"path"`
	Content  *string  `json:"content,omitempty"`
	Children []*Node  `json:"children,omitempty"`
}

// Forest is the ordered list of top-level nodes of a project
type Forest []*Node

// FileSpec is a flat path/content pair as returned by the architect
type FileSpec struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// IsFolder reports whether the node is a folder
func (n *Node) IsFolder() bool {
	return n.Type == TypeFolder
}

// Text returns the file content, or "" when the node has none
func (n *Node) Text() string {
	if n.Content == nil {
		return ""
	}
	return *n.Content
}

// MarshalJSON keeps an empty children array on folders so the
// folder/file distinction survives a save and reload.
func (n *Node) MarshalJSON() ([]byte, error) {
	type wire struct {
		Name     string   `json:"name"`
		Type     NodeType `json:"type"`
		Path     string   `json:"path"`
		Content  *string  `json:"content,omitempty"`
		Children *[]*Node `json:"children,omitempty"`
	}

	w := wire{Name: n.Name, Type: n.Type, Path: n.Path}
	if n.IsFolder() {
		children := n.Children
		if children == nil {
			children = []*Node{}
		}
		w.Children = &children
	} else {
		w.Content = n.Content
	}
	return json.Marshal(w)
}

func newFile(name, path, content string) *Node {
	return &Node{Name: name, Type: TypeFile, Path: path, Content: &content}
}

func newFolder(name, path string) *Node {
	return &Node{Name: name, Type: TypeFolder, Path: path, Children: []*Node{}}
}
