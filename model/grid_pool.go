package model

import (
	"sync"
	"sync/atomic"
)

// GridPool recycles dense grids between generations. Grids of another size
// are resized on Get, so one pool can serve a viewport that changes size.
// A nil *GridPool is valid and simply allocates.
type GridPool struct {
	pool   sync.Pool
	reused atomic.Int64
}

func NewGridPool() *GridPool {
	return &GridPool{}
}

// Get returns a cleared width x height grid, reusing a released one when possible
func (p *GridPool) Get(width, height int) *Grid {
	if p == nil {
		return NewGrid(width, height)
	}
	if g, ok := p.pool.Get().(*Grid); ok {
		p.reused.Add(1)
		g.Reset(width, height)
		return g
	}
	return NewGrid(width, height)
}

// Release hands g back for reuse. g must not be used afterwards.
func (p *GridPool) Release(g *Grid) {
	if p == nil || g == nil {
		return
	}
	p.pool.Put(g)
}

// Reused reports how many grids Get served from the pool
func (p *GridPool) Reused() int64 {
	if p == nil {
		return 0
	}
	return p.reused.Load()
}
