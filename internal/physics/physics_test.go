package physics

import "testing"

func TestBoxOverlapIsStrict(t *testing.T) {
	tests := []struct {
		name           string
		x1, y1, x2, y2 float64
		want           bool
	}{
		{"same point", 10, 10, 10, 10, true},
		{"inside on both axes", 500, 100, 510, 119, true},
		{"edge on x", 0, 0, 20, 0, false},
		{"edge on y", 0, 0, 0, -20, false},
		{"close on x only", 0, 0, 5, 45, false},
		{"diagonal inside box but outside circle", 0, 0, 19, 19, true},
	}
	for _, tt := range tests {
		if got := BoxOverlap(tt.x1, tt.y1, tt.x2, tt.y2, 20); got != tt.want {
			t.Errorf("%s: BoxOverlap = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestNearbyFindsNeighboursInOrder(t *testing.T) {
	g := NewSpatialGrid(200, 200, 40)
	g.Insert(100, 100, 3)
	g.Insert(130, 70, 1)
	g.Insert(10, 10, 2)
	g.Insert(95, 105, 0)

	got := g.Nearby(100, 100)
	want := []int{0, 1, 3}
	if len(got) != len(want) {
		t.Fatalf("Nearby = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Nearby = %v, want %v", got, want)
		}
	}
}

func TestOffSurfacePositionsClampToBorder(t *testing.T) {
	g := NewSpatialGrid(200, 200, 40)
	g.Insert(50, -300, 0)

	got := g.Nearby(60, -290)
	if len(got) != 1 || got[0] != 0 {
		t.Fatalf("Nearby = %v, want [0]", got)
	}
}

func TestClearEmptiesGrid(t *testing.T) {
	g := NewSpatialGrid(0, 0, 40)
	g.Insert(0, 0, 5)
	g.Clear()
	if got := g.Nearby(0, 0); len(got) != 0 {
		t.Fatalf("Nearby after Clear = %v", got)
	}
}
