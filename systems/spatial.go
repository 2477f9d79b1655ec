// Package systems provides the spatial index and the vegetation grid.
package systems

import (
	"sort"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/meadow/components"
	"github.com/pthm-cable/meadow/geom"
)

// Entry is one indexed animal. The index stores the position it was last
// inserted or updated at; callers must Update after moving an animal.
type Entry struct {
	Entity ecs.Entity
	ID     components.AnimalID
	Pos    geom.Vec2
	Size   float64
}

// Hit is a query result with the distance from the query center.
type Hit struct {
	Entry
	Dist float64
}

// SpatialIndex buckets living animals into a regular grid for proximity
// queries. The bucket map is authoritative: insert/remove/update keep it
// in sync with the set of living animals, and queries never mutate it.
type SpatialIndex struct {
	bucket        float64
	cols, rows    int
	width, height float64
	cells         [][]Entry
	where         map[components.AnimalID]int
}

// NewSpatialIndex creates an index covering a world of the given size.
// Bucket size should be at least the largest alert range; queries stay
// correct with smaller buckets by widening their footprint.
func NewSpatialIndex(width, height, bucket float64) *SpatialIndex {
	cols := int(width/bucket) + 1
	rows := int(height/bucket) + 1
	return &SpatialIndex{
		bucket: bucket,
		cols:   cols,
		rows:   rows,
		width:  width,
		height: height,
		cells:  make([][]Entry, cols*rows),
		where:  make(map[components.AnimalID]int),
	}
}

// Len returns the number of indexed animals.
func (ix *SpatialIndex) Len() int {
	return len(ix.where)
}

// Contains reports whether the id is currently indexed.
func (ix *SpatialIndex) Contains(id components.AnimalID) bool {
	_, ok := ix.where[id]
	return ok
}

// EntryOf returns the stored entry for an id.
func (ix *SpatialIndex) EntryOf(id components.AnimalID) (Entry, bool) {
	idx, ok := ix.where[id]
	if !ok {
		return Entry{}, false
	}
	for _, e := range ix.cells[idx] {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// Insert adds an animal to the index. Inserting an id twice replaces the
// previous entry.
func (ix *SpatialIndex) Insert(e Entry) {
	if _, ok := ix.where[e.ID]; ok {
		ix.Remove(e.ID)
	}
	idx := ix.cellIndex(e.Pos.X, e.Pos.Y)
	ix.cells[idx] = append(ix.cells[idx], e)
	ix.where[e.ID] = idx
}

// Remove deletes an animal from the index. Removing an unknown id is a
// no-op.
func (ix *SpatialIndex) Remove(id components.AnimalID) {
	idx, ok := ix.where[id]
	if !ok {
		return
	}
	cell := ix.cells[idx]
	for i := range cell {
		if cell[i].ID == id {
			ix.cells[idx] = append(cell[:i], cell[i+1:]...)
			break
		}
	}
	delete(ix.where, id)
}

// Update moves an animal to its new position, atomically (remove then
// insert), so the bucket map stays authoritative.
func (ix *SpatialIndex) Update(e Entry) {
	ix.Remove(e.ID)
	ix.Insert(e)
}

// QueryRadius returns every indexed animal whose surface lies within r of
// the center (distance minus body size), excluding the given id. Results
// are sorted by distance, ties by id.
func (ix *SpatialIndex) QueryRadius(center geom.Vec2, r float64, exclude components.AnimalID) []Hit {
	// Matching is by surface distance, so the footprint also reaches the
	// largest body size beyond r.
	cellRadius := int((r+components.BoundSize.Max)/ix.bucket) + 1
	centerCol := ix.clampCol(int(center.X / ix.bucket))
	centerRow := ix.clampRow(int(center.Y / ix.bucket))

	var hits []Hit
	for dr := -cellRadius; dr <= cellRadius; dr++ {
		row := centerRow + dr
		if row < 0 || row >= ix.rows {
			continue
		}
		for dc := -cellRadius; dc <= cellRadius; dc++ {
			col := centerCol + dc
			if col < 0 || col >= ix.cols {
				continue
			}
			for _, e := range ix.cells[row*ix.cols+col] {
				if e.ID == exclude {
					continue
				}
				d := center.Dist(e.Pos)
				if d-e.Size <= r {
					hits = append(hits, Hit{Entry: e, Dist: d})
				}
			}
		}
	}
	sortHits(hits)
	return hits
}

// QueryRect returns every indexed animal inside the axis-aligned
// rectangle, sorted by id.
func (ix *SpatialIndex) QueryRect(min, max geom.Vec2) []Entry {
	minCol := ix.clampCol(int(min.X / ix.bucket))
	maxCol := ix.clampCol(int(max.X / ix.bucket))
	minRow := ix.clampRow(int(min.Y / ix.bucket))
	maxRow := ix.clampRow(int(max.Y / ix.bucket))

	var out []Entry
	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			for _, e := range ix.cells[row*ix.cols+col] {
				if e.Pos.X >= min.X && e.Pos.X <= max.X && e.Pos.Y >= min.Y && e.Pos.Y <= max.Y {
					out = append(out, e)
				}
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.Less(out[j].ID) })
	return out
}

// Nearest returns the closest indexed animal within r of the center.
func (ix *SpatialIndex) Nearest(center geom.Vec2, r float64, exclude components.AnimalID) (Hit, bool) {
	hits := ix.QueryRadius(center, r, exclude)
	if len(hits) == 0 {
		return Hit{}, false
	}
	return hits[0], true
}

// NearestN returns up to n closest indexed animals within r of the center.
func (ix *SpatialIndex) NearestN(center geom.Vec2, r float64, n int, exclude components.AnimalID) []Hit {
	hits := ix.QueryRadius(center, r, exclude)
	if len(hits) > n {
		hits = hits[:n]
	}
	return hits
}

// IDs returns all indexed ids in sorted order, for invariant checks.
func (ix *SpatialIndex) IDs() []components.AnimalID {
	ids := make([]components.AnimalID, 0, len(ix.where))
	for id := range ix.where {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Less(ids[j]) })
	return ids
}

func sortHits(hits []Hit) {
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Dist != hits[j].Dist {
			return hits[i].Dist < hits[j].Dist
		}
		return hits[i].ID.Less(hits[j].ID)
	})
}

func (ix *SpatialIndex) cellIndex(x, y float64) int {
	return ix.clampRow(int(y/ix.bucket))*ix.cols + ix.clampCol(int(x/ix.bucket))
}

func (ix *SpatialIndex) clampCol(c int) int {
	if c < 0 {
		return 0
	}
	if c >= ix.cols {
		return ix.cols - 1
	}
	return c
}

func (ix *SpatialIndex) clampRow(r int) int {
	if r < 0 {
		return 0
	}
	if r >= ix.rows {
		return ix.rows - 1
	}
	return r
}
