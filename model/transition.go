package model

import "github.com/sheikhrachel/go-life/rules"

// NextGeneration computes the generation that follows current.
//
// Only living cells and their neighbors are evaluated, since a cell with no
// living neighbor cannot be born. Neighbor counts are always read from current,
// which is never modified. Every evaluated cell is recorded in the result, dead
// ones included, so renderers can clear cells that just died. Those dead
// entries are not a complete frontier for the result and the next call
// rebuilds its own.
func NextGeneration(current *CellMap) *CellMap {
	frontier := make(map[Coordinate]struct{}, current.Len())
	for c, alive := range current.cells {
		if !alive {
			continue
		}
		frontier[c] = struct{}{}
		for _, n := range c.Neighbors() {
			frontier[n] = struct{}{}
		}
	}

	next := &CellMap{cells: make(map[Coordinate]bool, len(frontier))}
	for c := range frontier {
		next.cells[c] = rules.ApplyConwayRules(current.countAliveNeighbors(c), current.Get(c))
	}
	return next
}

// countAliveNeighbors counts the living cells around c
func (m *CellMap) countAliveNeighbors(c Coordinate) (count int) {
	for _, n := range c.Neighbors() {
		if m.cells[n] {
			count++
		}
	}
	return
}
