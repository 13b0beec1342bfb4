// Package masonry computes card placements for masonry-style layouts.
//
// # Overview
//
// Given a sequence of items with optional sizing hints and a container size,
// [Layout] returns a position and size for every item so that the items tile
// the container in variable-height columns. Nothing is drawn: the result is
// plain geometry that a rendering layer consumes.
//
// Each call is a pure function of its inputs. The occupancy table and the
// column-height table live only for the duration of one call.
//
// # Internal Grid
//
// The container is quantized into cells of baseSize+gap pixels, and each
// cell is split into 4×4 internal units. All positions and sizes are
// computed in units and mapped back to pixels at the end:
//
//	x      = col * (baseSize + gap) / 4
//	y      = row * (baseSize + gap) / 4
//	width  = units * baseSize / 4
//	height = units * baseSize / 4
//
// A default card is 8×8 units (2×2 cells).
//
// # Phases
//
// The engine runs five phases over a shared occupancy grid:
//
//  1. Column placement: items, in input order, go to the column span with
//     the lowest current height.
//  2. Gap filling: items that did not fit are sorted by area and placed at
//     the first open rectangle, with smaller fallback sizes for loose items.
//     If nothing fits the grid grows downward, so every item is placed.
//  3. Scaling: when utilization is below 75%, modifiable cards are enlarged.
//  4. Expansion: modifiable cards are widened to absorb trailing space on
//     their rows.
//  5. Metrics and mapping: utilization, order fidelity and pixel geometry.
//
// # Formats
//
// Items may carry a [Format] with an exact size, min/max bounds and an
// aspect ratio. Ratios are written "W:H" or as one of the shortcuts
// "portrait" (1:2), "landscape" (2:1), "banner" (4:1) and "tower" (1:4).
// Explicit ratios are strict, shortcuts are loose. A strict item that cannot
// fit the grid is handled by growing the grid.
//
// # Usage
//
//	items := []masonry.Item[string]{
//	    {Data: "a"},
//	    {Data: "b", Format: &masonry.Format{Ratio: "16:9"}},
//	}
//	res := masonry.Layout(items, 1200, 800, masonry.WithGrid())
//	for _, c := range res.Cards {
//	    fmt.Println(c.Item.Data, c.X, c.Y, c.Width, c.Height)
//	}
//
// # Looseness
//
// [WithLooseness] is accepted and recorded in [Stats.MaxDisplacement] but
// does not change placement. Results for any looseness value are identical.
package masonry
