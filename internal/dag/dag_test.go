package dag

import "testing"

func TestAddNodeIsIdempotent(t *testing.T) {
	g := NewGraph()
	g.AddNode(1)
	g.AddNode(1)
	roots := g.GetRoots()
	if len(roots) != 1 || roots[0] != 1 {
		t.Errorf("expected a single root [1], got %v", roots)
	}
}

func TestAddEdgeRejectsUnknownNodes(t *testing.T) {
	g := NewGraph()
	g.AddNode(1)

	if err := g.AddEdge(1, 2); err == nil {
		t.Error("expected error for nonexistent child node")
	}
	if err := g.AddEdge(2, 1); err == nil {
		t.Error("expected error for nonexistent parent node")
	}
}

func TestAddEdgeRejectsSelfLoop(t *testing.T) {
	g := NewGraph()
	g.AddNode(1)
	if err := g.AddEdge(1, 1); err == nil {
		t.Error("expected error for self-loop")
	}
}

func TestAddEdgeDeduplicates(t *testing.T) {
	g := NewGraph()
	g.AddNode(1)
	g.AddNode(2)
	if err := g.AddEdge(1, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := g.AddEdge(1, 2); err != nil {
		t.Fatalf("unexpected error on duplicate edge: %v", err)
	}
	if children := g.GetChildren(1); len(children) != 1 {
		t.Errorf("expected 1 child after duplicate AddEdge, got %v", children)
	}
	if parents := g.GetParents(2); len(parents) != 1 {
		t.Errorf("expected 1 parent after duplicate AddEdge, got %v", parents)
	}
}

func TestGetParentsAndChildren(t *testing.T) {
	g := NewGraph()
	for _, id := range []int{1, 2, 3} {
		g.AddNode(id)
	}
	must(t, g.AddEdge(1, 3))
	must(t, g.AddEdge(2, 3))
	must(t, g.AddEdge(1, 2))

	parents := g.GetParents(3)
	if len(parents) != 2 {
		t.Errorf("expected node 3 to have 2 parents, got %v", parents)
	}

	children := g.GetChildren(1)
	if len(children) != 2 {
		t.Errorf("expected node 1 to have 2 children, got %v", children)
	}
}

func TestHasCycleOnAcyclicGraph(t *testing.T) {
	g := NewGraph()
	for _, id := range []int{1, 2, 3} {
		g.AddNode(id)
	}
	must(t, g.AddEdge(1, 2))
	must(t, g.AddEdge(2, 3))

	if hasCycle, path := g.HasCycle(); hasCycle {
		t.Errorf("expected no cycle, got path %v", path)
	}
}

func TestHasCycleDetectsCycle(t *testing.T) {
	g := NewGraph()
	for _, id := range []int{1, 2, 3} {
		g.AddNode(id)
	}
	must(t, g.AddEdge(1, 2))
	must(t, g.AddEdge(2, 3))
	must(t, g.AddEdge(3, 1))

	hasCycle, path := g.HasCycle()
	if !hasCycle {
		t.Fatal("expected a cycle to be detected")
	}
	if len(path) == 0 {
		t.Error("expected a non-empty cycle path")
	}
}

func TestTopologicalSortOrdersParentsBeforeChildren(t *testing.T) {
	g := NewGraph()
	for _, id := range []int{1, 2, 3, 4} {
		g.AddNode(id)
	}
	must(t, g.AddEdge(1, 2))
	must(t, g.AddEdge(1, 3))
	must(t, g.AddEdge(2, 4))
	must(t, g.AddEdge(3, 4))

	sorted, err := g.TopologicalSort()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sorted) != 4 {
		t.Fatalf("expected 4 nodes, got %v", sorted)
	}

	pos := make(map[int]int, len(sorted))
	for i, id := range sorted {
		pos[id] = i
	}
	if pos[1] >= pos[2] || pos[1] >= pos[3] {
		t.Error("node 1 should precede both of its children")
	}
	if pos[2] >= pos[4] || pos[3] >= pos[4] {
		t.Error("node 4 should follow both of its parents")
	}
}

func TestTopologicalSortErrorsOnCycle(t *testing.T) {
	g := NewGraph()
	g.AddNode(1)
	g.AddNode(2)
	must(t, g.AddEdge(1, 2))
	must(t, g.AddEdge(2, 1))

	if _, err := g.TopologicalSort(); err == nil {
		t.Error("expected an error for a cyclic graph")
	}
}

func TestAncestorsReturnsTransitiveClosureSorted(t *testing.T) {
	g := NewGraph()
	for _, id := range []int{1, 2, 3, 4} {
		g.AddNode(id)
	}
	// 4 derived from 3, 3 derived from 1 and 2.
	must(t, g.AddEdge(1, 3))
	must(t, g.AddEdge(2, 3))
	must(t, g.AddEdge(3, 4))

	ancestors := g.Ancestors(4)
	want := []int{1, 2, 3}
	if len(ancestors) != len(want) {
		t.Fatalf("expected %v, got %v", want, ancestors)
	}
	for i, id := range want {
		if ancestors[i] != id {
			t.Errorf("expected %v, got %v", want, ancestors)
			break
		}
	}
}

func TestAncestorsOfRootIsEmpty(t *testing.T) {
	g := NewGraph()
	g.AddNode(1)
	if ancestors := g.Ancestors(1); len(ancestors) != 0 {
		t.Errorf("expected no ancestors for a root node, got %v", ancestors)
	}
}

func TestGetRootsAndLeaves(t *testing.T) {
	g := NewGraph()
	for _, id := range []int{1, 2, 3} {
		g.AddNode(id)
	}
	must(t, g.AddEdge(1, 2))
	must(t, g.AddEdge(1, 3))

	roots := g.GetRoots()
	if len(roots) != 1 || roots[0] != 1 {
		t.Errorf("expected roots [1], got %v", roots)
	}

	leaves := g.GetLeaves()
	if len(leaves) != 2 || leaves[0] != 2 || leaves[1] != 3 {
		t.Errorf("expected leaves [2 3], got %v", leaves)
	}
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
