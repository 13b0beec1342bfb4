package masonry

import "math"

const (
	// scaleThreshold is the utilization below which cards are enlarged.
	scaleThreshold = 0.75
	// scaleTarget is the utilization the scale factor aims for.
	scaleTarget = 0.8
	// maxScale caps the enlargement factor.
	maxScale = 2.0
	// minScaledUnits is the smallest side of a scaled card.
	minScaledUnits = 2
)

// scale enlarges modifiable cards when the grid is sparsely used. A card
// keeps its size if the enlarged rectangle leaves the grid or would cover
// another card.
func (p *packer) scale() {
	u := p.stats.PreScaleUtilization
	if u <= 0 || u >= scaleThreshold {
		return
	}
	factor := math.Min(math.Sqrt(scaleTarget/u), maxScale)
	p.stats.Scale = factor

	for i := range p.cards {
		c := &p.cards[i]
		if !c.modifiable {
			continue
		}
		next := rect{
			col:    c.col,
			row:    c.row,
			width:  max(minScaledUnits, int(math.Round(float64(c.width)*factor))),
			height: max(minScaledUnits, int(math.Round(float64(c.height)*factor))),
		}
		if next == c.rect {
			continue
		}

		p.grid.clear(c.rect)
		if p.grid.free(next) {
			c.rect = next
			p.stats.Scaled++
		}
		p.grid.fill(c.rect)
	}
}

// expand widens modifiable cards to the right edge when every unit to
// their right, across their rows, is free.
func (p *packer) expand() {
	for i := range p.cards {
		c := &p.cards[i]
		if !c.modifiable || c.right() >= p.grid.cols {
			continue
		}
		tail := rect{col: c.right(), row: c.row, width: p.grid.cols - c.right(), height: c.height}
		if !p.grid.free(tail) {
			continue
		}
		p.grid.fill(tail)
		c.width = p.grid.cols - c.col
		p.stats.Expanded++
	}
}
