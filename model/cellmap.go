package model

import "sort"

// CellMap is the sparse cell-state store for a single generation.
//
// A missing key is an absent cell, a false value is a dead cell that is still
// tracked (usually because it borders life) and a true value is alive. Absent
// and tracked-dead cells are both reported as dead by Get.
type CellMap struct {
	cells map[Coordinate]bool
}

// NewCellMap creates a store seeded with the given living cells
func NewCellMap(alive ...Coordinate) *CellMap {
	m := &CellMap{cells: make(map[Coordinate]bool, len(alive))}
	for _, c := range alive {
		m.cells[c] = true
	}
	return m
}

// Get returns whether c is alive
func (m *CellMap) Get(c Coordinate) bool {
	return m.cells[c]
}

// Set records the state of c, inserting or overwriting
func (m *CellMap) Set(c Coordinate, alive bool) {
	m.cells[c] = alive
}

// Toggle flips c between alive and dead and returns the new state
func (m *CellMap) Toggle(c Coordinate) bool {
	alive := !m.cells[c]
	m.cells[c] = alive
	return alive
}

// ForEach calls fn for every tracked entry, alive or dead, in no particular order
func (m *CellMap) ForEach(fn func(alive bool, c Coordinate)) {
	for c, alive := range m.cells {
		fn(alive, c)
	}
}

// Clone returns an independent copy of the store
func (m *CellMap) Clone() *CellMap {
	out := &CellMap{cells: make(map[Coordinate]bool, len(m.cells))}
	for c, alive := range m.cells {
		out.cells[c] = alive
	}
	return out
}

// Len returns the number of tracked entries
func (m *CellMap) Len() int {
	return len(m.cells)
}

// Population returns the number of living cells
func (m *CellMap) Population() (count int) {
	for _, alive := range m.cells {
		if alive {
			count++
		}
	}
	return
}

// Alive returns the living cells sorted row-major
func (m *CellMap) Alive() []Coordinate {
	out := make([]Coordinate, 0, len(m.cells))
	for c, alive := range m.cells {
		if alive {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// Equal reports whether both stores hold the same living cells.
// Tracked-dead entries are ignored.
func (m *CellMap) Equal(o *CellMap) bool {
	if m.Population() != o.Population() {
		return false
	}
	for c, alive := range m.cells {
		if alive && !o.Get(c) {
			return false
		}
	}
	return true
}

// Translate returns a copy of the living cells shifted by (dx, dy)
func (m *CellMap) Translate(dx, dy int) *CellMap {
	out := &CellMap{cells: make(map[Coordinate]bool, len(m.cells))}
	for c, alive := range m.cells {
		if alive {
			out.cells[c.Add(dx, dy)] = true
		}
	}
	return out
}

// Bounds is the inclusive bounding box of living cells
type Bounds struct {
	MinX, MaxX, MinY, MaxY int
}

// Width of the box in cells
func (b Bounds) Width() int { return b.MaxX - b.MinX + 1 }

// Height of the box in cells
func (b Bounds) Height() int { return b.MaxY - b.MinY + 1 }

// Bounds returns the bounding box of living cells, ok is false when nothing is alive
func (m *CellMap) Bounds() (b Bounds, ok bool) {
	for c, alive := range m.cells {
		if !alive {
			continue
		}
		if !ok {
			b = Bounds{MinX: c.X, MaxX: c.X, MinY: c.Y, MaxY: c.Y}
			ok = true
			continue
		}
		b.MinX = min(b.MinX, c.X)
		b.MaxX = max(b.MaxX, c.X)
		b.MinY = min(b.MinY, c.Y)
		b.MaxY = max(b.MaxY, c.Y)
	}
	return
}
