package masonry

import "math"

// Default option values.
const (
	DefaultBaseSize  = 200.0
	DefaultGap       = 16.0
	DefaultLooseness = 0.2
)

// Item is one caller-defined element to place. Data is never inspected.
type Item[T any] struct {
	Data   T       `json:"data" bson:"data"`
	Format *Format `json:"format,omitempty" bson:"format,omitempty"`
}

// Card is the placement of one item in pixel space.
type Card[T any] struct {
	Item   Item[T]  `json:"item" bson:"item"`
	Index  int      `json:"index" bson:"index"`
	X      float64  `json:"x" bson:"x"`
	Y      float64  `json:"y" bson:"y"`
	Width  float64  `json:"width" bson:"width"`
	Height float64  `json:"height" bson:"height"`
	Grid   *GridPos `json:"grid,omitempty" bson:"grid,omitempty"`
}

// GridPos is 1-based cell-grid metadata for a card, as used by CSS grid
// placement (grid-column: Col / span ColSpan).
type GridPos struct {
	Col     int `json:"col" bson:"col"`
	Row     int `json:"row" bson:"row"`
	ColSpan int `json:"colSpan" bson:"col_span"`
	RowSpan int `json:"rowSpan" bson:"row_span"`
}

// Result is the outcome of one [Layout] call. Cards are in input order:
// Cards[i] places items[i].
type Result[T any] struct {
	Cards         []Card[T] `json:"cards" bson:"cards"`
	Width         float64   `json:"width" bson:"width"`
	Height        float64   `json:"height" bson:"height"`
	Utilization   float64   `json:"utilization" bson:"utilization"`
	OrderFidelity float64   `json:"orderFidelity" bson:"order_fidelity"`
	Stats         Stats     `json:"stats" bson:"stats"`
}

// Stats describes how a layout was produced. Grid sizes are in internal
// units.
type Stats struct {
	Columns int `json:"columns" bson:"columns"`
	Rows    int `json:"rows" bson:"rows"`

	ColumnPlaced int `json:"columnPlaced" bson:"column_placed"`
	GapFilled    int `json:"gapFilled" bson:"gap_filled"`
	Fallbacks    int `json:"fallbacks" bson:"fallbacks"`
	GrownRows    int `json:"grownRows" bson:"grown_rows"`

	Scale               float64 `json:"scale" bson:"scale"`
	Scaled              int     `json:"scaled" bson:"scaled"`
	Expanded            int     `json:"expanded" bson:"expanded"`
	PreScaleUtilization float64 `json:"preScaleUtilization" bson:"pre_scale_utilization"`

	// MaxDisplacement is derived from the looseness option. Placement
	// does not read it.
	MaxDisplacement int `json:"maxDisplacement" bson:"max_displacement"`
}

// Option configures [Layout].
type Option func(*config)

type config struct {
	baseSize    float64
	gap         float64
	looseness   float64
	includeGrid bool
}

// WithBaseSize sets the cell size in pixels (default 200). Non-positive
// values keep the default.
func WithBaseSize(px float64) Option {
	return func(c *config) {
		if px > 0 && !math.IsInf(px, 0) {
			c.baseSize = px
		}
	}
}

// WithGap sets the gap between cells in pixels (default 16). Negative
// values keep the default.
func WithGap(px float64) Option {
	return func(c *config) {
		if px >= 0 && !math.IsInf(px, 0) {
			c.gap = px
		}
	}
}

// WithGrid adds 1-based grid metadata to every card.
func WithGrid() Option { return func(c *config) { c.includeGrid = true } }

// WithLooseness sets the looseness knob, clamped to [0, 1]. It is recorded
// in [Stats.MaxDisplacement] and has no effect on placement.
func WithLooseness(l float64) Option {
	return func(c *config) {
		if !math.IsNaN(l) {
			c.looseness = math.Max(0, math.Min(1, l))
		}
	}
}

func newConfig(opts []Option) config {
	cfg := config{
		baseSize:  DefaultBaseSize,
		gap:       DefaultGap,
		looseness: DefaultLooseness,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Layout places items in a width×height container.
//
// Every item is placed unless the container is smaller than one cell, in
// which case the result is empty with zero utilization. Layout does not
// modify items and keeps no state between calls.
func Layout[T any](items []Item[T], width, height float64, opts ...Option) Result[T] {
	cfg := newConfig(opts)
	res := Result[T]{Cards: []Card[T]{}}
	res.Stats.MaxDisplacement = int(math.Ceil(cfg.looseness * float64(len(items))))

	g, ok := sizeGrid(width, height, cfg.baseSize, cfg.gap, len(items))
	if !ok {
		if len(items) == 0 {
			res.OrderFidelity = 1
		}
		return res
	}

	p := pack(g, resolveAll(items, cfg.baseSize, g))
	p.stats.MaxDisplacement = res.Stats.MaxDisplacement

	res.Stats = p.stats
	res.Utilization = utilization(p.cards, p.grid.cols, p.grid.rows)
	res.OrderFidelity = orderFidelity(p.cards, len(items))
	res.Cards, res.Width, res.Height = mapCards(items, p.cards, cfg)
	return res
}

// resolveAll classifies and sizes every item.
func resolveAll[T any](items []Item[T], baseSize float64, g gridSize) []entry {
	entries := make([]entry, len(items))
	for i, it := range items {
		c := classify(it.Format)
		entries[i] = entry{
			index:      i,
			c:          c,
			size:       resolveSize(c, baseSize, g),
			modifiable: c.modifiable(it.Format),
		}
	}
	return entries
}

// pack runs the placement phases over resolved entries.
func pack(g gridSize, entries []entry) *packer {
	p := newPacker(g)
	deferred := p.placeColumns(entries)
	p.fillGaps(deferred)

	p.stats.PreScaleUtilization = utilization(p.cards, p.grid.cols, p.grid.rows)
	p.scale()
	p.expand()

	p.stats.Columns = p.grid.cols
	p.stats.Rows = p.grid.rows
	return p
}
