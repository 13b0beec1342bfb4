package masonry

import "math"

const (
	// defaultUnits is the side of a card without hints (2 cells).
	defaultUnits = 2 * Quantum

	// minRatioUnits is the smallest side a ratio-adjusted card may have.
	minRatioUnits = 2

	eps = 1e-9
)

// resolved is the outcome of size resolution for one item.
//
// When fits is false the item could not be resolved within the grid. Width
// and height then hold a column-fitted fallback that the gap filler uses
// after growing the grid.
type resolved struct {
	width, height int
	fits          bool
}

func (r resolved) area() int { return r.width * r.height }

// toUnits converts pixels to internal units.
func toUnits(px, baseSize float64) float64 { return px / baseSize * Quantum }

// resolveSize computes an item's size in units. Each step only runs for
// the hints the constraint carries, in a fixed order: exact size, ratio,
// min, max, grid fit.
func resolveSize(c constraint, baseSize float64, g gridSize) resolved {
	w, h := defaultUnits, defaultUnits

	if c.kind.Has(KindSize) {
		if c.size.Width > 0 {
			w = max(1, int(math.Round(toUnits(c.size.Width, baseSize))))
		}
		if c.size.Height > 0 {
			h = max(1, int(math.Round(toUnits(c.size.Height, baseSize))))
		}
	}

	switch c.mode {
	case ratioNone:
	case ratioLoose, ratioStrict:
		w, h = applyRatio(w, h, c.ratio, c.mode == ratioStrict)
	}

	if c.kind.Has(KindMin) {
		if c.min.Width > 0 {
			w = max(w, int(math.Ceil(toUnits(c.min.Width, baseSize)-eps)))
		}
		if c.min.Height > 0 {
			h = max(h, int(math.Ceil(toUnits(c.min.Height, baseSize)-eps)))
		}
	}
	if c.kind.Has(KindMax) {
		if c.max.Width > 0 {
			w = min(w, max(1, int(math.Floor(toUnits(c.max.Width, baseSize)+eps))))
		}
		if c.max.Height > 0 {
			h = min(h, max(1, int(math.Floor(toUnits(c.max.Height, baseSize)+eps))))
		}
	}

	return fitGrid(w, h, c.loose, g)
}

// applyRatio reshapes w×h to ratio r (width/height) keeping the area.
// Strict ratios re-snap one side after clamping so the ratio is exact up
// to rounding; area may drift.
func applyRatio(w, h int, r float64, strict bool) (int, int) {
	area := float64(w * h)
	nw := math.Round(math.Sqrt(area * r))
	nh := math.Round(nw / r)
	w = max(int(nw), minRatioUnits)
	h = max(int(nh), minRatioUnits)

	if strict {
		if r > 1 {
			w = max(int(math.Round(float64(h)*r)), minRatioUnits)
		} else {
			h = max(int(math.Round(float64(w)/r)), minRatioUnits)
		}
	}
	return w, h
}

// fitGrid shrinks loose sizes into the grid. Strict sizes that do not fit
// are reported as not fitting, with a width-clamped fallback.
func fitGrid(w, h int, loose bool, g gridSize) resolved {
	if w <= g.cols && h <= g.rows {
		return resolved{width: w, height: h, fits: true}
	}

	if loose {
		s := math.Min(float64(g.cols)/float64(w), float64(g.rows)/float64(h))
		return resolved{
			width:  max(1, int(math.Floor(float64(w)*s+eps))),
			height: max(1, int(math.Floor(float64(h)*s+eps))),
			fits:   true,
		}
	}

	if w > g.cols {
		s := float64(g.cols) / float64(w)
		w = g.cols
		h = max(1, int(math.Floor(float64(h)*s+eps)))
	}
	return resolved{width: w, height: h, fits: false}
}
