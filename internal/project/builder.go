package project

import "strings"

// BuildTree converts a flat, ordered list of files into a forest, merging
// shared parent directories. Siblings keep first-seen order and the first
// occurrence of a path wins; later duplicates never overwrite content.
//
// Paths are not validated. Empty segments (a leading "/" or "//") become
// nodes with an empty name. If a non-terminal segment resolves to an
// existing file, the remainder of that entry is dropped.
func BuildTree(files []FileSpec) Forest {
	root := Forest{}

	for _, file := range files {
		parts := strings.Split(file.Path, "/")
		level := &root

		for i, part := range parts {
			isFile := i == len(parts)-1
			node := findChild(*level, part)

			if node == nil {
				fullPath := strings.Join(parts[:i+1], "/")
				if isFile {
					node = newFile(part, fullPath, file.Content)
				} else {
					node = newFolder(part, fullPath)
				}
				*level = append(*level, node)
			}

			if isFile {
				break
			}
			if !node.IsFolder() {
				break
			}
			level = (*Forest)(&node.Children)
		}
	}

	return root
}

func findChild(siblings []*Node, name string) *Node {
	for _, n := range siblings {
		if n.Name == name {
			return n
		}
	}
	return nil
}
