// Package pipeline runs masonry layouts for the CLI and the HTTP server.
//
// It wraps the pure engine in [masonry.Layout] with the concerns around it:
// input validation, option precedence, result caching and layout history.
// By centralizing this logic, the CLI and the server behave the same way
// for the same input.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, nil, logger)
//	opts := pipeline.DefaultOptions()
//	opts.ApplyDocument(doc)
//	result, err := runner.Layout(ctx, doc, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, card := range result.Layout.Cards {
//	    fmt.Println(card.Item.Data.ID, card.X, card.Y)
//	}
package pipeline

import (
	"encoding/json"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/masonry/pkg/cache"
	"github.com/matzehuels/masonry/pkg/errors"
	"github.com/matzehuels/masonry/pkg/itemset"
	"github.com/matzehuels/masonry/pkg/masonry"
	"github.com/matzehuels/masonry/pkg/store"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultWidth is the container width used when neither the item set
	// nor the caller gives one.
	DefaultWidth = 1280.0

	// DefaultHeight is the matching container height.
	DefaultHeight = 720.0
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one layout run.
// This struct supports JSON serialization for API requests.
type Options struct {
	Width     float64 `json:"width,omitempty"`
	Height    float64 `json:"height,omitempty"`
	BaseSize  float64 `json:"base_size,omitempty"`
	Gap       float64 `json:"gap"`
	Looseness float64 `json:"looseness"`
	Grid      bool    `json:"grid,omitempty"`

	// Refresh skips the cache lookup but still writes the new result.
	Refresh bool `json:"refresh,omitempty"`

	// Save records the result in the runner's store.
	Save bool `json:"save,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Layout is the engine result. Card data carries the item IDs.
	Layout masonry.Result[itemset.Ref]

	// ID is the history record ID, empty unless the result was saved.
	ID string

	// ItemsHash is the content hash of the item list.
	ItemsHash string

	// Stats contains timing and size information.
	Stats Stats

	// CacheHit reports whether the layout came from the cache.
	CacheHit bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Items      int
	LayoutTime time.Duration
}

// DefaultOptions returns the engine defaults.
func DefaultOptions() Options {
	return Options{
		BaseSize:  masonry.DefaultBaseSize,
		Gap:       masonry.DefaultGap,
		Looseness: masonry.DefaultLooseness,
	}
}

// =============================================================================
// Options Methods
// =============================================================================

// ApplyDocument overrides options with the values the item set carries.
func (o *Options) ApplyDocument(doc *itemset.Document) {
	if doc.Container.Width > 0 {
		o.Width = doc.Container.Width
	}
	if doc.Container.Height > 0 {
		o.Height = doc.Container.Height
	}
	opt := doc.Options
	if opt.BaseSize != nil {
		o.BaseSize = *opt.BaseSize
	}
	if opt.Gap != nil {
		o.Gap = *opt.Gap
	}
	if opt.Grid != nil {
		o.Grid = *opt.Grid
	}
	if opt.Looseness != nil {
		o.Looseness = *opt.Looseness
	}
}

// SetLayoutDefaults fills the container, base size and logger when unset.
// Gap and looseness are taken as given since zero is meaningful for both.
func (o *Options) SetLayoutDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.BaseSize == 0 {
		o.BaseSize = masonry.DefaultBaseSize
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout sets defaults and validates every option. The grid
// budget is checked for the container alone; see [Options.ValidateGrid].
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := errors.ValidateContainer(o.Width, o.Height); err != nil {
		return err
	}
	if err := errors.ValidateCellSize(o.BaseSize, o.Gap); err != nil {
		return err
	}
	if err := o.ValidateGrid(0); err != nil {
		return err
	}
	return errors.ValidateLooseness(o.Looseness)
}

// ValidateGrid checks that laying out items cards stays within the grid
// budget. Options must already be validated.
func (o *Options) ValidateGrid(items int) error {
	return errors.ValidateGrid(o.Width, o.Height, o.BaseSize, o.Gap, items)
}

// EngineOptions converts the options for [masonry.Layout].
func (o *Options) EngineOptions() []masonry.Option {
	opts := []masonry.Option{
		masonry.WithBaseSize(o.BaseSize),
		masonry.WithGap(o.Gap),
		masonry.WithLooseness(o.Looseness),
	}
	if o.Grid {
		opts = append(opts, masonry.WithGrid())
	}
	return opts
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Width:     o.Width,
		Height:    o.Height,
		BaseSize:  o.BaseSize,
		Gap:       o.Gap,
		Looseness: o.Looseness,
		Grid:      o.Grid,
	}
}

// Params returns the options as stored with a history record.
func (o *Options) Params() store.Params {
	return store.Params{
		Width:     o.Width,
		Height:    o.Height,
		BaseSize:  o.BaseSize,
		Gap:       o.Gap,
		Looseness: o.Looseness,
		Grid:      o.Grid,
	}
}

// HashItems returns the content hash of an item list. Equal lists,
// including formats and metadata, hash equally.
func HashItems(items []itemset.Item) string {
	data, _ := json.Marshal(items)
	return cache.Hash(data)
}
