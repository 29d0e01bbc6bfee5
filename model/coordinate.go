package model

import "fmt"

// Coordinate identifies a cell on the unbounded plane
type Coordinate struct {
	X, Y int
}

// C is shorthand for building a Coordinate
func C(x, y int) Coordinate {
	return Coordinate{X: x, Y: y}
}

// Neighbors returns the eight cells of the Moore neighborhood around c.
// No clamping is applied, so results may be negative.
func (c Coordinate) Neighbors() [8]Coordinate {
	var (
		out [8]Coordinate
		n   int
	)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			out[n] = Coordinate{X: c.X + dx, Y: c.Y + dy}
			n++
		}
	}
	return out
}

// Add returns c shifted by (dx, dy)
func (c Coordinate) Add(dx, dy int) Coordinate {
	return Coordinate{X: c.X + dx, Y: c.Y + dy}
}

// Less orders coordinates row-major (Y first, then X)
func (c Coordinate) Less(o Coordinate) bool {
	if c.Y != o.Y {
		return c.Y < o.Y
	}
	return c.X < o.X
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%d,%d", c.X, c.Y)
}
