package masonry

import "math"

// entry is an item's resolved state going into placement.
type entry struct {
	index      int
	c          constraint
	size       resolved
	modifiable bool
}

// placed is a card in internal units.
type placed struct {
	rect
	index      int
	modifiable bool
}

// packer owns the mutable state of one Layout call.
type packer struct {
	grid    *occupancy
	heights []int // per-column skyline, used by placeColumns only
	cards   []placed
	stats   Stats
}

func newPacker(g gridSize) *packer {
	return &packer{
		grid:    newOccupancy(g.cols, g.rows),
		heights: make([]int, g.cols),
		stats:   Stats{Scale: 1},
	}
}

func (p *packer) place(e entry, r rect) {
	p.grid.fill(r)
	p.cards = append(p.cards, placed{rect: r, index: e.index, modifiable: e.modifiable})
}

// placeColumns runs the masonry pass in input order and returns the
// entries it could not place.
func (p *packer) placeColumns(entries []entry) []entry {
	var deferred []entry
	for _, e := range entries {
		if !e.size.fits {
			deferred = append(deferred, e)
			continue
		}

		col, top := p.lowestSpan(e.size.width)
		r := rect{col: col, row: top, width: e.size.width, height: e.size.height}
		if col < 0 || r.bottom() > p.grid.rows || !p.grid.free(r) {
			deferred = append(deferred, e)
			continue
		}

		p.place(e, r)
		for c := r.col; c < r.right(); c++ {
			p.heights[c] = r.bottom()
		}
		p.stats.ColumnPlaced++
	}
	return deferred
}

// lowestSpan finds the start column whose w-wide span has the lowest
// maximum height. Ties go to the leftmost column. It returns -1 when the
// span is wider than the grid.
func (p *packer) lowestSpan(w int) (int, int) {
	best, bestTop := -1, math.MaxInt
	for col := 0; col+w <= len(p.heights); col++ {
		top := 0
		for _, h := range p.heights[col : col+w] {
			top = max(top, h)
		}
		if top < bestTop {
			best, bestTop = col, top
		}
	}
	return best, bestTop
}
