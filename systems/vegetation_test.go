package systems

import (
	"testing"

	"github.com/pthm-cable/meadow/geom"
	"github.com/pthm-cable/meadow/rng"
)

func TestGridDimensions(t *testing.T) {
	g := NewVegetationGrid(200, 150, 5)
	if g.Cols() != 40 || g.Rows() != 30 {
		t.Errorf("grid = %dx%d", g.Cols(), g.Rows())
	}
}

func TestSetRemoveCount(t *testing.T) {
	g := NewVegetationGrid(50, 50, 5)

	g.Set(3, 4)
	g.Set(3, 4) // idempotent
	if !g.Has(3, 4) || g.Count() != 1 {
		t.Errorf("Has=%v Count=%d", g.Has(3, 4), g.Count())
	}

	g.Remove(3, 4)
	g.Remove(3, 4)
	if g.Has(3, 4) || g.Count() != 0 {
		t.Errorf("after remove: Has=%v Count=%d", g.Has(3, 4), g.Count())
	}

	// Out of bounds is silently ignored.
	g.Set(-1, 0)
	g.Set(0, 99)
	if g.Count() != 0 {
		t.Errorf("out-of-bounds set changed count")
	}
}

func TestWorldGridMapping(t *testing.T) {
	g := NewVegetationGrid(50, 50, 5)

	gx, gy := g.WorldToGrid(12.4, 47.9)
	if gx != 2 || gy != 9 {
		t.Errorf("WorldToGrid = %d,%d", gx, gy)
	}

	// The far edge lands on the last cell, not out of bounds.
	gx, gy = g.WorldToGrid(50, 50)
	if gx != 9 || gy != 9 {
		t.Errorf("edge WorldToGrid = %d,%d", gx, gy)
	}

	c := g.GridToWorld(2, 9)
	if c != (geom.Vec2{X: 12.5, Y: 47.5}) {
		t.Errorf("GridToWorld = %v", c)
	}

	snap := g.SnapToTile(geom.Vec2{X: 12.4, Y: 47.9})
	if snap != c {
		t.Errorf("SnapToTile = %v, want %v", snap, c)
	}
}

func TestNeighborsOrderAndBounds(t *testing.T) {
	g := NewVegetationGrid(50, 50, 5)

	n := g.Neighbors(5, 5)
	want := [][2]int{{4, 5}, {6, 5}, {5, 4}, {5, 6}} // left, right, up, down
	if len(n) != 4 {
		t.Fatalf("interior neighbors = %v", n)
	}
	for i := range want {
		if n[i] != want[i] {
			t.Errorf("neighbor %d = %v, want %v", i, n[i], want[i])
		}
	}

	// Corner cell keeps only in-bounds neighbours, order preserved.
	n = g.Neighbors(0, 0)
	want = [][2]int{{1, 0}, {0, 1}} // right, down
	if len(n) != 2 || n[0] != want[0] || n[1] != want[1] {
		t.Errorf("corner neighbors = %v, want %v", n, want)
	}
}

func TestInitUniformDeterministic(t *testing.T) {
	a := NewVegetationGrid(100, 100, 5)
	b := NewVegetationGrid(100, 100, 5)
	a.InitUniform(rng.New(7), 0.3)
	b.InitUniform(rng.New(7), 0.3)

	if a.Count() != b.Count() {
		t.Fatalf("counts differ: %d vs %d", a.Count(), b.Count())
	}
	pa, pb := a.Positions(), b.Positions()
	for i := range pa {
		if pa[i] != pb[i] {
			t.Fatalf("cell %d differs", i)
		}
	}
	if a.Count() == 0 || a.Count() == a.Cols()*a.Rows() {
		t.Errorf("degenerate density result: %d", a.Count())
	}
}

func TestInitUniformExtremes(t *testing.T) {
	full := NewVegetationGrid(50, 50, 5)
	full.InitUniform(rng.New(1), 1.0)
	if full.Count() != 100 {
		t.Errorf("density 1.0 filled %d of 100", full.Count())
	}

	empty := NewVegetationGrid(50, 50, 5)
	empty.InitUniform(rng.New(1), 0)
	if empty.Count() != 0 {
		t.Errorf("density 0 filled %d", empty.Count())
	}
}

func TestInitPatchyDeterministic(t *testing.T) {
	a := NewVegetationGrid(200, 200, 5)
	b := NewVegetationGrid(200, 200, 5)
	a.InitPatchy(11111, 0.05, 0.55)
	b.InitPatchy(11111, 0.05, 0.55)

	if a.Count() != b.Count() {
		t.Fatalf("patchy counts differ: %d vs %d", a.Count(), b.Count())
	}
	if a.Count() == 0 {
		t.Error("patchy layout produced no vegetation")
	}
}

func TestSpreadZeroRateNeverGrows(t *testing.T) {
	g := NewVegetationGrid(100, 100, 5)
	g.InitUniform(rng.New(3), 0.3)
	before := g.Count()

	r := rng.New(9)
	for i := 0; i < 50; i++ {
		g.Spread(r, 0)
	}
	if g.Count() != before {
		t.Errorf("zero spread rate grew vegetation: %d -> %d", before, g.Count())
	}
}

func TestSpreadSnapshotSemantics(t *testing.T) {
	// With rate 1 every empty neighbour of the snapshot fills, but the
	// newly grown cells must not spread further in the same tick.
	g := NewVegetationGrid(50, 50, 5)
	g.Set(5, 5)

	g.Spread(rng.New(1), 1.0)

	if g.Count() != 5 {
		t.Errorf("one spread from a single cell filled %d cells, want 5", g.Count())
	}
	if g.Has(3, 5) || g.Has(7, 5) {
		t.Error("growth spread two cells in one tick")
	}
}

func TestSpreadDeterministic(t *testing.T) {
	a := NewVegetationGrid(100, 100, 5)
	b := NewVegetationGrid(100, 100, 5)
	a.InitUniform(rng.New(5), 0.2)
	b.InitUniform(rng.New(5), 0.2)

	ra, rb := rng.New(6), rng.New(6)
	for i := 0; i < 20; i++ {
		a.Spread(ra, 0.05)
		b.Spread(rb, 0.05)
	}
	if a.Count() != b.Count() {
		t.Fatalf("spread diverged: %d vs %d", a.Count(), b.Count())
	}
}

func TestNearestIn(t *testing.T) {
	g := NewVegetationGrid(100, 100, 5)
	g.Set(2, 2) // center (12.5, 12.5)
	g.Set(8, 8) // center (42.5, 42.5)

	gx, gy, ok := g.NearestIn(geom.Vec2{X: 14, Y: 14}, 30)
	if !ok || gx != 2 || gy != 2 {
		t.Errorf("NearestIn = %d,%d,%v", gx, gy, ok)
	}

	_, _, ok = g.NearestIn(geom.Vec2{X: 90, Y: 90}, 10)
	if ok {
		t.Error("NearestIn found vegetation out of range")
	}
}
