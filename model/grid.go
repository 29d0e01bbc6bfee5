package model

import (
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/sheikhrachel/go-life/rules"
)

// Grid is a dense, bounded alternative to CellMap. Cells outside the grid are
// permanently dead, so patterns touching the edge evolve differently from the
// unbounded plane.
type Grid struct {
	width  int
	height int
	cells  [][]bool

	// Optional bounded grid optimization
	activeBounds struct {
		minX, maxX, minY, maxY int
		valid                  bool
	}
}

// NewGrid creates a new grid with the specified dimensions
func NewGrid(width, height int) *Grid {
	cells := make([][]bool, height)
	for i := range cells {
		cells[i] = make([]bool, width)
	}
	return &Grid{
		width:  width,
		height: height,
		cells:  cells,
	}
}

// GridFromCellMap copies the living cells of m that fall inside a width x height grid
func GridFromCellMap(m *CellMap, width, height int) *Grid {
	g := NewGrid(width, height)
	m.ForEach(func(alive bool, c Coordinate) {
		if alive {
			g.Set(c.X, c.Y, true)
		}
	})
	return g
}

// GetWidth returns the width of the grid
func (g *Grid) GetWidth() int {
	return g.width
}

// GetHeight returns the height of the grid
func (g *Grid) GetHeight() int {
	return g.height
}

// Reset resizes the grid and clears every cell
func (g *Grid) Reset(width, height int) {
	g.width = width
	g.height = height
	g.activeBounds.valid = false

	if len(g.cells) != height {
		g.cells = make([][]bool, height)
	}
	for i := range g.cells {
		if len(g.cells[i]) != width {
			g.cells[i] = make([]bool, width)
			continue
		}
		clear(g.cells[i])
	}
}

// Set sets a cell to alive (true) or dead (false); out of range writes are dropped
func (g *Grid) Set(x, y int, alive bool) {
	if x >= 0 && x < g.width && y >= 0 && y < g.height {
		g.cells[y][x] = alive
		g.activeBounds.valid = false
	}
}

// Get returns the state of a cell
func (g *Grid) Get(x, y int) bool {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		return false
	}
	return g.cells[y][x]
}

// ForEach visits every cell of the grid, row by row
func (g *Grid) ForEach(fn func(alive bool, c Coordinate)) {
	for y := range g.height {
		for x := range g.width {
			fn(g.cells[y][x], Coordinate{X: x, Y: y})
		}
	}
}

// ToCellMap returns the living cells as a sparse store
func (g *Grid) ToCellMap() *CellMap {
	m := NewCellMap()
	for y := range g.height {
		for x := range g.width {
			if g.cells[y][x] {
				m.Set(Coordinate{X: x, Y: y}, true)
			}
		}
	}
	return m
}

// CountNeighbors counts living neighbors, treating cells beyond the edge as dead
func (g *Grid) CountNeighbors(x, y int) (count int) {
	minX := max(0, x-1)
	maxX := min(g.width-1, x+1)
	minY := max(0, y-1)
	maxY := min(g.height-1, y+1)

	for ny := minY; ny <= maxY; ny++ {
		for nx := minX; nx <= maxX; nx++ {
			if nx == x && ny == y {
				continue
			}
			if g.cells[ny][nx] {
				count++
			}
		}
	}
	return
}

// calculateActiveBounds calculates the bounding box of living cells
func (g *Grid) calculateActiveBounds() {
	g.activeBounds.valid = false

	for y := range g.height {
		for x := range g.width {
			if !g.cells[y][x] {
				continue
			}
			if !g.activeBounds.valid {
				g.activeBounds.minX, g.activeBounds.maxX = x, x
				g.activeBounds.minY, g.activeBounds.maxY = y, y
				g.activeBounds.valid = true
				continue
			}
			g.activeBounds.minX = min(g.activeBounds.minX, x)
			g.activeBounds.maxX = max(g.activeBounds.maxX, x)
			g.activeBounds.minY = min(g.activeBounds.minY, y)
			g.activeBounds.maxY = max(g.activeBounds.maxY, y)
		}
	}
}

// GetBoundingBoxSize returns the area of the active region
func (g *Grid) GetBoundingBoxSize() int {
	if !g.activeBounds.valid {
		g.calculateActiveBounds()
	}
	if !g.activeBounds.valid {
		return 0
	}
	return (g.activeBounds.maxX - g.activeBounds.minX + 1) *
		(g.activeBounds.maxY - g.activeBounds.minY + 1)
}

// NextGenerationParallel calculates the next generation over the whole grid,
// splitting rows across one worker per CPU
func (g *Grid) NextGenerationParallel(pool *GridPool) *Grid {
	next := pool.Get(g.width, g.height)

	var (
		eg            errgroup.Group
		numWorkers    = runtime.NumCPU()
		rowsPerWorker = (g.height + numWorkers - 1) / numWorkers // Ceiling division
	)

	for i := range numWorkers {
		var (
			startRow = i * rowsPerWorker
			endRow   = min(startRow+rowsPerWorker, g.height)
		)
		if startRow >= g.height {
			break
		}

		eg.Go(func() error {
			for y := startRow; y < endRow; y++ {
				for x := range g.width {
					next.cells[y][x] = rules.ApplyConwayRules(g.CountNeighbors(x, y), g.cells[y][x])
				}
			}
			return nil
		})
	}

	// workers never fail, Wait only joins them
	_ = eg.Wait()
	return next
}

// NextGenerationBounded calculates the next generation only in the active region
func (g *Grid) NextGenerationBounded(pool *GridPool) *Grid {
	if !g.activeBounds.valid {
		g.calculateActiveBounds()
	}

	next := pool.Get(g.width, g.height)
	if !g.activeBounds.valid {
		return next
	}

	// Process only the active region + 1 margin
	minX := max(0, g.activeBounds.minX-1)
	maxX := min(g.width-1, g.activeBounds.maxX+1)
	minY := max(0, g.activeBounds.minY-1)
	maxY := min(g.height-1, g.activeBounds.maxY+1)

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			next.cells[y][x] = rules.ApplyConwayRules(g.CountNeighbors(x, y), g.cells[y][x])
		}
	}

	next.calculateActiveBounds()
	return next
}

// NextGeneration picks the bounded or full parallel strategy
func (g *Grid) NextGeneration(bounded bool, pool *GridPool) *Grid {
	if bounded {
		return g.NextGenerationBounded(pool)
	}
	return g.NextGenerationParallel(pool)
}

// CountLivingCells returns the total number of living cells
func (g *Grid) CountLivingCells() (count int) {
	for y := range g.height {
		for x := range g.width {
			if g.cells[y][x] {
				count++
			}
		}
	}
	return
}
