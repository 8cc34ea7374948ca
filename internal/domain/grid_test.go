package domain

import "testing"

func TestGridBoundsLookup(t *testing.T) {
	g := NewGrid(4, 3)

	if n := g.Node(Position{X: 3, Y: 2}); n == nil {
		t.Error("in-bounds lookup returned nil")
	}
	if n := g.Node(Position{X: 4, Y: 0}); n != nil {
		t.Error("out-of-bounds X must return nil")
	}
	if n := g.Node(Position{X: 0, Y: -1}); n != nil {
		t.Error("negative Y must return nil")
	}

	n := g.Node(Position{X: 2, Y: 1})
	if n.Pos != (Position{X: 2, Y: 1}) {
		t.Errorf("node does not know its position: %v", n.Pos)
	}
	if n.ID != g.Index(2, 1) {
		t.Errorf("node ID mismatch: %d != %d", n.ID, g.Index(2, 1))
	}
}

func TestNeighborsOrder(t *testing.T) {
	g := NewGrid(5, 5)
	center := Position{X: 2, Y: 2}

	// Фиксированный порядок: N, S, E, W, затем диагонали
	want4 := []Position{{2, 1}, {2, 3}, {3, 2}, {1, 2}}
	got := g.Neighbors(center, false)
	if len(got) != 4 {
		t.Fatalf("expected 4 neighbors, got %d", len(got))
	}
	for i, n := range got {
		if n.Pos != want4[i] {
			t.Errorf("neighbor[%d] = %v, want %v", i, n.Pos, want4[i])
		}
	}

	got8 := g.Neighbors(center, true)
	if len(got8) != 8 {
		t.Fatalf("expected 8 neighbors, got %d", len(got8))
	}
	// Первые четыре - ортогональные, в том же порядке
	for i := range want4 {
		if got8[i].Pos != want4[i] {
			t.Errorf("diagonal mode changed orthogonal order at %d", i)
		}
	}
}

func TestNeighborsClippedAtCorner(t *testing.T) {
	g := NewGrid(5, 5)
	got := g.Neighbors(Position{X: 0, Y: 0}, true)
	if len(got) != 3 {
		t.Errorf("corner cell must have 3 neighbors, got %d", len(got))
	}
}

func TestNodesInRect(t *testing.T) {
	g := NewGrid(5, 5)
	nodes := g.NodesInRect(Position{X: 3, Y: 3}, 4, 4)
	// Обрезано до 2x2
	if len(nodes) != 4 {
		t.Errorf("clipped rect should hold 4 nodes, got %d", len(nodes))
	}
}

func TestNodesInRadius(t *testing.T) {
	g := NewGrid(7, 7)
	nodes := g.NodesInRadius(Position{X: 3, Y: 3}, 1.0)
	// Евклидово расстояние <= 1: центр и 4 ортогональных соседа
	if len(nodes) != 5 {
		t.Errorf("radius 1 should hold 5 nodes, got %d", len(nodes))
	}

	nodes = g.NodesInRadius(Position{X: 0, Y: 0}, 1.5)
	// Обрезано границами: (0,0),(1,0),(0,1),(1,1)
	if len(nodes) != 4 {
		t.Errorf("clipped radius should hold 4 nodes, got %d", len(nodes))
	}
}
