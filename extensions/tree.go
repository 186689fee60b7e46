package extensions

import (
	"slices"

	"github.com/m1gwings/treedrawer/tree"

	"github.com/lensdock/injectable"
)

// RenderDependencyTree draws what the container has injected so far, starting
// at the definitions injected directly on it. label decorates each id; a nil
// label prints ids as they are. Edges back to a definition already on the
// current path are drawn once and marked as a cycle.
func RenderDependencyTree(c *injectable.Container, label func(id string) string) string {
	if label == nil {
		label = func(id string) string { return id }
	}

	graph := c.DependencyGraph()
	root := tree.NewTree(tree.NodeString("container"))
	for _, id := range c.Roots() {
		addSubtree(root, graph, id, nil, label)
	}
	return root.String()
}

func addSubtree(parent *tree.Tree, graph map[string][]string, id string, path []string, label func(string) string) {
	if slices.Contains(path, id) {
		parent.AddChild(tree.NodeString(label(id) + " (cycle)"))
		return
	}
	node := parent.AddChild(tree.NodeString(label(id)))
	path = append(path, id)
	for _, child := range graph[id] {
		addSubtree(node, graph, child, path, label)
	}
}
