// Package dag provides directed acyclic graph operations over a
// resolution log's parent pointers: ancestor reachability, cycle
// detection, and topological ordering.
package dag

import (
	"fmt"
	"sort"
)

// Graph is a directed acyclic graph over integer node IDs, such as the
// indices of a resolution log.
type Graph struct {
	nodes   map[int]bool
	edges   map[int][]int // parent -> children
	parents map[int][]int // child -> parents
}

// NewGraph creates a new empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes:   make(map[int]bool),
		edges:   make(map[int][]int),
		parents: make(map[int][]int),
	}
}

// AddNode registers id, if it is not already present.
func (g *Graph) AddNode(id int) {
	if !g.nodes[id] {
		g.nodes[id] = true
		g.edges[id] = nil
		g.parents[id] = nil
	}
}

// AddEdge adds a directed edge from parent to child (child was derived
// from parent). Both nodes must already exist.
func (g *Graph) AddEdge(parentID, childID int) error {
	if !g.nodes[parentID] {
		return fmt.Errorf("dag: parent node %d does not exist", parentID)
	}
	if !g.nodes[childID] {
		return fmt.Errorf("dag: child node %d does not exist", childID)
	}
	if parentID == childID {
		return fmt.Errorf("dag: self-loop detected at %d", parentID)
	}
	if !containsInt(g.edges[parentID], childID) {
		g.edges[parentID] = append(g.edges[parentID], childID)
	}
	if !containsInt(g.parents[childID], parentID) {
		g.parents[childID] = append(g.parents[childID], parentID)
	}
	return nil
}

// GetParents returns the direct parents of id.
func (g *Graph) GetParents(id int) []int { return g.parents[id] }

// GetChildren returns the direct children of id.
func (g *Graph) GetChildren(id int) []int { return g.edges[id] }

// HasCycle reports whether the graph contains a cycle, along with one
// offending path. A resolution log should never produce a cycle, since
// every edge points from an earlier clause to a later one; HasCycle
// exists to make that invariant checkable rather than assumed.
func (g *Graph) HasCycle() (bool, []int) {
	visited := make(map[int]bool)
	recStack := make(map[int]bool)
	path := make(map[int]int)

	var cyclePath []int

	var dfs func(id int) bool
	dfs = func(id int) bool {
		visited[id] = true
		recStack[id] = true

		for _, childID := range g.edges[id] {
			if !visited[childID] {
				path[childID] = id
				if dfs(childID) {
					return true
				}
			} else if recStack[childID] {
				cyclePath = []int{childID}
				for curr := id; curr != childID; curr = path[curr] {
					cyclePath = append([]int{curr}, cyclePath...)
				}
				cyclePath = append([]int{childID}, cyclePath...)
				return true
			}
		}

		recStack[id] = false
		return false
	}

	ids := g.sortedIDs()
	for _, id := range ids {
		if !visited[id] {
			if dfs(id) {
				return true, cyclePath
			}
		}
	}
	return false, nil
}

// TopologicalSort returns node IDs with every parent preceding its
// children. Returns an error if the graph contains a cycle.
func (g *Graph) TopologicalSort() ([]int, error) {
	if hasCycle, cyclePath := g.HasCycle(); hasCycle {
		return nil, fmt.Errorf("dag: cycle detected: %v", cyclePath)
	}

	visited := make(map[int]bool)
	var result []int

	var visit func(id int)
	visit = func(id int) {
		if visited[id] {
			return
		}
		visited[id] = true
		for _, parentID := range g.parents[id] {
			visit(parentID)
		}
		result = append(result, id)
	}

	for _, id := range g.sortedIDs() {
		visit(id)
	}
	return result, nil
}

// Ancestors returns every node reachable by following parent edges
// from id: its direct and indirect premises. Used to extract the
// minimal sub-derivation feeding a given clause, typically the empty
// clause at the end of a successful proof search.
func (g *Graph) Ancestors(id int) []int {
	seen := make(map[int]bool)

	var mark func(nodeID int)
	mark = func(nodeID int) {
		for _, parentID := range g.parents[nodeID] {
			if !seen[parentID] {
				seen[parentID] = true
				mark(parentID)
			}
		}
	}
	mark(id)

	result := make([]int, 0, len(seen))
	for nodeID := range seen {
		result = append(result, nodeID)
	}
	sort.Ints(result)
	return result
}

// GetRoots returns nodes with no parents: the initial premises.
func (g *Graph) GetRoots() []int {
	var roots []int
	for id := range g.nodes {
		if len(g.parents[id]) == 0 {
			roots = append(roots, id)
		}
	}
	sort.Ints(roots)
	return roots
}

// GetLeaves returns nodes with no children.
func (g *Graph) GetLeaves() []int {
	var leaves []int
	for id := range g.nodes {
		if len(g.edges[id]) == 0 {
			leaves = append(leaves, id)
		}
	}
	sort.Ints(leaves)
	return leaves
}

func (g *Graph) sortedIDs() []int {
	ids := make([]int, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func containsInt(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
