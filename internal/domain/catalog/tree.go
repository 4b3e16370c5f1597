package catalog

import (
	"sort"

	"github.com/google/uuid"

	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/domain/shared"
)

// TreeNode is a category with its children resolved, ready for display.
type TreeNode struct {
	Category
	Level    int         `json:"level"`
	Children []*TreeNode `json:"children"`
}

// BuildTree assembles the display tree from a flat list. Categories
// whose parent is missing from the list are promoted to roots. If the
// list contains a parent cycle, no ordering of the affected nodes is
// meaningful and the whole build fails with ErrCircularReference.
func BuildTree(categories []Category) ([]*TreeNode, error) {
	nodes := make(map[uuid.UUID]*TreeNode, len(categories))
	for _, c := range categories {
		nodes[c.ID] = &TreeNode{Category: c}
	}

	var roots []*TreeNode
	for _, c := range categories {
		node := nodes[c.ID]
		if c.ParentID == nil {
			roots = append(roots, node)
			continue
		}
		parent, ok := nodes[*c.ParentID]
		if !ok {
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}

	reached := 0
	for _, root := range roots {
		reached += assignLevels(root, 0)
	}
	if reached != len(categories) {
		return nil, shared.ErrCircularReference
	}

	sortNodes(roots)
	return roots, nil
}

func assignLevels(node *TreeNode, level int) int {
	node.Level = level
	count := 1
	for _, child := range node.Children {
		count += assignLevels(child, level+1)
	}
	return count
}

func sortNodes(nodes []*TreeNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].SortOrder != nodes[j].SortOrder {
			return nodes[i].SortOrder < nodes[j].SortOrder
		}
		return nodes[i].Name < nodes[j].Name
	})
	for _, n := range nodes {
		sortNodes(n.Children)
	}
}
