package model

import (
	"crypto/md5"
	"encoding/binary"
	"fmt"
)

const defaultHistorySize = 5

// History remembers hashes of recent generations for cycle detection
type History struct {
	size   int
	hashes []string
}

// NewHistory keeps the last size generations, falling back to 5 when size < 3
func NewHistory(size int) *History {
	if size < 3 {
		size = defaultHistorySize
	}
	return &History{size: size}
}

// HashCellMap returns an MD5 hash of the living cells of m.
// Tracked-dead entries do not affect the hash.
func HashCellMap(m *CellMap) string {
	h := md5.New()
	var buf [16]byte
	for _, c := range m.Alive() {
		binary.LittleEndian.PutUint64(buf[:8], uint64(c.X))
		binary.LittleEndian.PutUint64(buf[8:], uint64(c.Y))
		h.Write(buf[:])
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

// Record adds m to the history, dropping the oldest entry when full
func (h *History) Record(m *CellMap) {
	h.hashes = append(h.hashes, HashCellMap(m))
	if len(h.hashes) > h.size {
		h.hashes = h.hashes[1:]
	}
}

// Reset forgets every recorded generation
func (h *History) Reset() {
	h.hashes = nil
}

// IsStagnant reports whether m repeats one of the last three recorded
// generations, i.e. it is a still life or an oscillator of period 3 or less
func (h *History) IsStagnant(m *CellMap) bool {
	if len(h.hashes) == 0 {
		return false
	}

	current := HashCellMap(m)
	for i := 1; i <= 3 && i <= len(h.hashes); i++ {
		if h.hashes[len(h.hashes)-i] == current {
			return true
		}
	}
	return false
}
