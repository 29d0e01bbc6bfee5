package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellMap_GetSet(t *testing.T) {
	m := NewCellMap()

	assert.False(t, m.Get(C(3, 4)), "absent cells are dead")
	assert.Equal(t, 0, m.Len())

	m.Set(C(-2, -7), true)
	assert.True(t, m.Get(C(-2, -7)))

	m.Set(C(-2, -7), false)
	assert.False(t, m.Get(C(-2, -7)))
	assert.Equal(t, 1, m.Len(), "dead cells stay tracked")
	assert.Equal(t, 0, m.Population())
}

func TestCellMap_Toggle(t *testing.T) {
	m := NewCellMap()
	assert.True(t, m.Toggle(C(1, 1)))
	assert.True(t, m.Get(C(1, 1)))
	assert.False(t, m.Toggle(C(1, 1)))
	assert.False(t, m.Get(C(1, 1)))
}

func TestCellMap_ForEach(t *testing.T) {
	m := NewCellMap(C(0, 0), C(1, 0))
	m.Set(C(5, 5), false)

	got := make(map[Coordinate]bool)
	m.ForEach(func(alive bool, c Coordinate) {
		got[c] = alive
	})

	assert.Equal(t, map[Coordinate]bool{
		C(0, 0): true,
		C(1, 0): true,
		C(5, 5): false,
	}, got)
}

func TestCellMap_Clone(t *testing.T) {
	m := NewCellMap(C(0, 0))
	clone := m.Clone()

	clone.Set(C(0, 0), false)
	clone.Set(C(9, 9), true)

	assert.True(t, m.Get(C(0, 0)))
	assert.False(t, m.Get(C(9, 9)))
	assert.Equal(t, 1, m.Len())
}

func TestCellMap_Alive(t *testing.T) {
	m := NewCellMap(C(2, 1), C(0, 1), C(5, -1))
	m.Set(C(1, 1), false)

	assert.Equal(t, []Coordinate{C(5, -1), C(0, 1), C(2, 1)}, m.Alive())
}

func TestCellMap_Equal(t *testing.T) {
	a := NewCellMap(C(0, 0), C(1, 1))
	b := NewCellMap(C(1, 1), C(0, 0))
	b.Set(C(7, 7), false)

	assert.True(t, a.Equal(b), "tracked-dead entries are ignored")
	assert.True(t, b.Equal(a))

	b.Set(C(2, 2), true)
	assert.False(t, a.Equal(b))
	assert.False(t, b.Equal(a))
}

func TestCellMap_Translate(t *testing.T) {
	m := NewCellMap(C(0, 0), C(1, 2))
	m.Set(C(4, 4), false)

	moved := m.Translate(-3, 10)
	assert.Equal(t, []Coordinate{C(-3, 10), C(-2, 12)}, moved.Alive())
	assert.Equal(t, 2, moved.Len())
}

func TestCellMap_Bounds(t *testing.T) {
	_, ok := NewCellMap().Bounds()
	assert.False(t, ok)

	m := NewCellMap(C(-1, 4), C(3, -2), C(0, 0))
	m.Set(C(100, 100), false)

	b, ok := m.Bounds()
	require.True(t, ok)
	assert.Equal(t, Bounds{MinX: -1, MaxX: 3, MinY: -2, MaxY: 4}, b)
	assert.Equal(t, 5, b.Width())
	assert.Equal(t, 7, b.Height())
}
