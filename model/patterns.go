package model

import (
	"math/rand"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrUnknownPattern is returned by Pattern for names with no built-in
var ErrUnknownPattern = errors.New("unknown pattern")

var patterns = map[string][]Coordinate{
	"glider":     {C(2, 1), C(3, 2), C(1, 3), C(2, 3), C(3, 3)},
	"blinker":    {C(1, 0), C(1, 1), C(1, 2)},
	"block":      {C(0, 0), C(1, 0), C(0, 1), C(1, 1)},
	"beacon":     {C(0, 0), C(1, 0), C(0, 1), C(1, 1), C(2, 2), C(3, 2), C(2, 3), C(3, 3)},
	"toad":       {C(1, 0), C(2, 0), C(3, 0), C(0, 1), C(1, 1), C(2, 1)},
	"lwss":       {C(1, 0), C(4, 0), C(0, 1), C(0, 2), C(4, 2), C(0, 3), C(1, 3), C(2, 3), C(3, 3)},
	"rpentomino": {C(1, 0), C(2, 0), C(0, 1), C(1, 1), C(1, 2)},
	"gosper-glider-gun": {
		C(24, 0),
		C(22, 1), C(24, 1),
		C(12, 2), C(13, 2), C(20, 2), C(21, 2), C(34, 2), C(35, 2),
		C(11, 3), C(15, 3), C(20, 3), C(21, 3), C(34, 3), C(35, 3),
		C(0, 4), C(1, 4), C(10, 4), C(16, 4), C(20, 4), C(21, 4),
		C(0, 5), C(1, 5), C(10, 5), C(14, 5), C(16, 5), C(17, 5), C(22, 5), C(24, 5),
		C(10, 6), C(16, 6), C(24, 6),
		C(11, 7), C(15, 7),
		C(12, 8), C(13, 8),
	},
}

// PatternNames lists the built-in patterns in alphabetical order
func PatternNames() []string {
	names := make([]string, 0, len(patterns))
	for name := range patterns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Pattern returns a copy of the named built-in pattern's living cells
func Pattern(name string) ([]Coordinate, error) {
	cells, ok := patterns[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownPattern, "[Pattern] %q", name)
	}
	return append([]Coordinate(nil), cells...), nil
}

// Offset shifts every coordinate by (dx, dy)
func Offset(cells []Coordinate, dx, dy int) []Coordinate {
	out := make([]Coordinate, len(cells))
	for i, c := range cells {
		out[i] = c.Add(dx, dy)
	}
	return out
}

// ParseCoordinates parses a literal list such as "1,0 1,1;1,2".
// Pairs are separated by whitespace or semicolons.
func ParseCoordinates(s string) ([]Coordinate, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ';' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})

	out := make([]Coordinate, 0, len(fields))
	for _, field := range fields {
		xs, ys, ok := strings.Cut(field, ",")
		if !ok {
			return nil, errors.Errorf("[ParseCoordinates] missing comma in %q", field)
		}
		x, err := strconv.Atoi(strings.TrimSpace(xs))
		if err != nil {
			return nil, errors.Wrapf(err, "[ParseCoordinates] bad x in %q", field)
		}
		y, err := strconv.Atoi(strings.TrimSpace(ys))
		if err != nil {
			return nil, errors.Wrapf(err, "[ParseCoordinates] bad y in %q", field)
		}
		out = append(out, Coordinate{X: x, Y: y})
	}
	return out, nil
}

// RandomCells fills a width x height window with living cells at the given density
func RandomCells(r *rand.Rand, width, height int, density float64) []Coordinate {
	var out []Coordinate
	for y := range height {
		for x := range width {
			if r.Float64() < density {
				out = append(out, Coordinate{X: x, Y: y})
			}
		}
	}
	return out
}
