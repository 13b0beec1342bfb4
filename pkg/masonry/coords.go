package masonry

// pixels converts a unit rectangle to pixel geometry. Positions advance by
// cell+gap per cell; sizes by cell only, so the gap stays between cards.
func pixels(r rect, baseSize, gap float64) (x, y, w, h float64) {
	step := (baseSize + gap) / Quantum
	unit := baseSize / Quantum
	return float64(r.col) * step, float64(r.row) * step, float64(r.width) * unit, float64(r.height) * unit
}

// gridPos returns 1-based cell coordinates and spans for r.
func gridPos(r rect) *GridPos {
	return &GridPos{
		Col:     r.col/Quantum + 1,
		Row:     r.row/Quantum + 1,
		ColSpan: max(1, ceilDiv(r.width, Quantum)),
		RowSpan: max(1, ceilDiv(r.height, Quantum)),
	}
}

func ceilDiv(a, b int) int { return (a + b - 1) / b }

// mapCards projects placed cards back onto their items, in input order,
// and returns the pixel extent of the layout.
func mapCards[T any](items []Item[T], cards []placed, cfg config) ([]Card[T], float64, float64) {
	out := make([]Card[T], len(items))
	var width, height float64
	for _, pc := range cards {
		x, y, w, h := pixels(pc.rect, cfg.baseSize, cfg.gap)
		card := Card[T]{
			Item:   items[pc.index],
			Index:  pc.index,
			X:      x,
			Y:      y,
			Width:  w,
			Height: h,
		}
		if cfg.includeGrid {
			card.Grid = gridPos(pc.rect)
		}
		out[pc.index] = card
		width = max(width, x+w)
		height = max(height, y+h)
	}
	return out, width, height
}
