package main

import (
	"sort"
	"strings"
)

// treeNode is one entry in the directory tree. A node with children is a
// directory, a node without is a file.
type treeNode struct {
	children map[string]*treeNode
}

// buildTree constructs the nested tree from the files' relative paths.
func buildTree(files []FileInfo) *treeNode {
	root := &treeNode{}
	for _, file := range files {
		node := root
		for _, segment := range strings.Split(file.RelPath, "/") {
			if segment == "" || segment == "." {
				continue
			}
			if node.children == nil {
				node.children = make(map[string]*treeNode)
			}
			child, ok := node.children[segment]
			if !ok {
				child = &treeNode{}
				node.children[segment] = child
			}
			node = child
		}
	}
	return root
}

// sortedNames returns the node's child names in case-insensitive order.
func (n *treeNode) sortedNames() []string {
	names := make([]string, 0, len(n.children))
	for name := range n.children {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return lessFold(names[i], names[j])
	})
	return names
}

// printTree renders the tree with the root directory on the first line.
func printTree(rootName string, root *treeNode) string {
	var builder strings.Builder
	builder.WriteString("└── ")
	builder.WriteString(rootName)
	builder.WriteString("/")
	printNode(&builder, root, "    ")
	return builder.String()
}

// printNode is a helper function for recursively printing tree nodes.
func printNode(builder *strings.Builder, node *treeNode, prefix string) {
	names := node.sortedNames()
	for i, name := range names {
		child := node.children[name]
		connector := "├── "
		newPrefix := prefix + "│   "
		if i == len(names)-1 {
			connector = "└── "
			newPrefix = prefix + "    "
		}

		builder.WriteString("\n")
		builder.WriteString(prefix)
		builder.WriteString(connector)
		builder.WriteString(name)
		if len(child.children) > 0 {
			builder.WriteString("/")
			printNode(builder, child, newPrefix)
		}
	}
}
