package model

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
)

const (
	gridPosBlock = "██"
	gridPosEmpty = "  "

	macosClearCmd = "clear"
)

// CellSource is anything a renderer can enumerate: a CellMap or a Grid
type CellSource interface {
	ForEach(fn func(alive bool, c Coordinate))
}

// TerminalRenderer draws a fixed window of the plane to a terminal
type TerminalRenderer struct {
	Out io.Writer

	// Window origin (top-left) and size in cells
	OriginX, OriginY int
	Width, Height    int
}

// NewTerminalRenderer renders a width x height window anchored at the origin to stdout
func NewTerminalRenderer(width, height int) *TerminalRenderer {
	return &TerminalRenderer{
		Out:    os.Stdout,
		Width:  width,
		Height: height,
	}
}

// Center moves the window so that b sits in its middle
func (r *TerminalRenderer) Center(b Bounds) {
	r.OriginX = b.MinX + b.Width()/2 - r.Width/2
	r.OriginY = b.MinY + b.Height()/2 - r.Height/2
}

// Display renders the living cells of src that fall inside the window
func (r *TerminalRenderer) Display(src CellSource) {
	window := make([][]bool, r.Height)
	for i := range window {
		window[i] = make([]bool, r.Width)
	}
	src.ForEach(func(alive bool, c Coordinate) {
		x, y := c.X-r.OriginX, c.Y-r.OriginY
		if alive && x >= 0 && x < r.Width && y >= 0 && y < r.Height {
			window[y][x] = true
		}
	})

	w := bufio.NewWriter(r.Out)
	for _, row := range window {
		for _, alive := range row {
			if alive {
				fmt.Fprint(w, gridPosBlock)
			} else {
				fmt.Fprint(w, gridPosEmpty)
			}
		}
		fmt.Fprintln(w)
	}
	_ = w.Flush()
}

// Clear clears the terminal screen
func (r *TerminalRenderer) Clear() {
	cmd := exec.Command(macosClearCmd)
	cmd.Stdout = r.Out
	if err := cmd.Run(); err != nil {
		fmt.Fprintln(r.Out, "Error clearing terminal:", err)
	}
}
