package masonry

import (
	"cmp"
	"slices"
)

// growPadding is the number of extra rows appended past an item when the
// grid has to grow.
const growPadding = 8

// fallbackSizes are tried, in order, for loose ratio-free items that do not
// fit at their resolved size.
var fallbackSizes = [][2]int{{4, 4}, {4, 2}}

// fillGaps places deferred entries, smallest first, at the first open
// rectangle. When nothing fits the grid grows so the entry always lands.
func (p *packer) fillGaps(deferred []entry) {
	slices.SortStableFunc(deferred, func(a, b entry) int {
		return cmp.Compare(a.size.area(), b.size.area())
	})

	for _, e := range deferred {
		if r, ok := p.grid.firstFit(e.size.width, e.size.height); ok {
			p.place(e, r)
			p.stats.GapFilled++
			continue
		}
		if r, ok := p.fallbackFit(e); ok {
			p.place(e, r)
			p.stats.GapFilled++
			p.stats.Fallbacks++
			continue
		}

		top := p.grid.rows
		added := e.size.height + growPadding
		p.grid.grow(added)
		p.stats.GrownRows += added
		p.place(e, rect{col: 0, row: top, width: e.size.width, height: e.size.height})
	}
}

// fallbackFit tries the smaller candidate sizes for entries allowed to
// shrink.
func (p *packer) fallbackFit(e entry) (rect, bool) {
	if !e.c.loose || e.c.mode != ratioNone {
		return rect{}, false
	}
	for _, s := range fallbackSizes {
		if s[0]*s[1] >= e.size.area() {
			continue
		}
		if r, ok := p.grid.firstFit(s[0], s[1]); ok {
			return r, true
		}
	}
	return rect{}, false
}
