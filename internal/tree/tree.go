// Package tree renders collected file paths as an indented, icon-annotated outline.
package tree

import (
	"sort"
	"strings"

	"github.com/temirov/mdsnap/internal/utils"
)

const (
	// RootLabel is the first line of every outline.
	RootLabel = "📁 Root"

	directoryIcon   = "📁"
	fileIcon        = "📄"
	indentIncrement = "  "
	pathSeparator   = "/"
)

// Node is one path segment. A node with children renders as a directory.
type Node struct {
	Name     string
	Children map[string]*Node
}

func newNode(name string) *Node {
	return &Node{Name: name, Children: map[string]*Node{}}
}

// IsDirectory reports whether the node has children.
func (node *Node) IsDirectory() bool {
	return len(node.Children) > 0
}

// Build inserts the root-relative segments of every path into a nested structure.
// Paths sharing a prefix share the corresponding nodes.
func Build(rootDirectory string, filePaths []string) *Node {
	root := newNode("")
	for _, filePath := range filePaths {
		relativePath := utils.NormalizedRelativePath(rootDirectory, filePath)
		currentNode := root
		for _, segment := range strings.Split(relativePath, pathSeparator) {
			if segment == "" || segment == "." {
				continue
			}
			childNode, exists := currentNode.Children[segment]
			if !exists {
				childNode = newNode(segment)
				currentNode.Children[segment] = childNode
			}
			currentNode = childNode
		}
	}
	return root
}

// Render returns the outline for root. Siblings are ordered by name; top-level entries
// carry no indentation and every deeper level adds two spaces.
func Render(root *Node) string {
	lines := []string{RootLabel}
	if root != nil {
		lines = appendChildren(lines, root, "")
	}
	return strings.Join(lines, "\n")
}

func appendChildren(lines []string, parent *Node, indent string) []string {
	childNames := make([]string, 0, len(parent.Children))
	for childName := range parent.Children {
		childNames = append(childNames, childName)
	}
	sort.Strings(childNames)

	for _, childName := range childNames {
		childNode := parent.Children[childName]
		icon := fileIcon
		if childNode.IsDirectory() {
			icon = directoryIcon
		}
		lines = append(lines, indent+icon+" "+childName)
		if childNode.IsDirectory() {
			lines = appendChildren(lines, childNode, indent+indentIncrement)
		}
	}
	return lines
}
