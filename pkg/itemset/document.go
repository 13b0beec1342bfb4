package itemset

import (
	"fmt"
	"strconv"

	"github.com/matzehuels/masonry/pkg/errors"
	"github.com/matzehuels/masonry/pkg/masonry"
)

// Document is a decoded item-set file.
type Document struct {
	Container Container `json:"container" yaml:"container" toml:"container"`
	Options   Options   `json:"options" yaml:"options" toml:"options"`
	Items     []Item    `json:"items" yaml:"items" toml:"items"`
}

// Container is the layout area in pixels. Zero means "not given"; callers
// fill it from flags or the terminal size.
type Container struct {
	Width  float64 `json:"width,omitempty" yaml:"width,omitempty" toml:"width,omitempty"`
	Height float64 `json:"height,omitempty" yaml:"height,omitempty" toml:"height,omitempty"`
}

// IsZero reports whether no dimension was given.
func (c Container) IsZero() bool { return c.Width == 0 && c.Height == 0 }

// Options are per-document layout options. Nil fields fall back to the
// caller's defaults.
type Options struct {
	BaseSize  *float64 `json:"baseSize,omitempty" yaml:"baseSize,omitempty" toml:"baseSize,omitempty"`
	Gap       *float64 `json:"gap,omitempty" yaml:"gap,omitempty" toml:"gap,omitempty"`
	Grid      *bool    `json:"grid,omitempty" yaml:"grid,omitempty" toml:"grid,omitempty"`
	Looseness *float64 `json:"looseness,omitempty" yaml:"looseness,omitempty" toml:"looseness,omitempty"`
}

// Item is one entry of an item set.
type Item struct {
	ID     string          `json:"id,omitempty" yaml:"id,omitempty" toml:"id,omitempty"`
	Label  string          `json:"label,omitempty" yaml:"label,omitempty" toml:"label,omitempty"`
	Format *masonry.Format `json:"format,omitempty" yaml:"format,omitempty" toml:"format,omitempty"`
	Meta   map[string]any  `json:"meta,omitempty" yaml:"meta,omitempty" toml:"meta,omitempty"`
}

// Ref is the caller data carried through the engine for each item.
type Ref struct {
	ID    string         `json:"id,omitempty" bson:"id,omitempty"`
	Label string         `json:"label,omitempty" bson:"label,omitempty"`
	Meta  map[string]any `json:"meta,omitempty" bson:"meta,omitempty"`
}

// Name returns the label, falling back to the ID.
func (r Ref) Name() string {
	if r.Label != "" {
		return r.Label
	}
	return r.ID
}

// EngineItems converts the document items for [masonry.Layout]. Items
// without an ID get their 1-based position.
func (d *Document) EngineItems() []masonry.Item[Ref] {
	out := make([]masonry.Item[Ref], len(d.Items))
	for i, it := range d.Items {
		id := it.ID
		if id == "" {
			id = strconv.Itoa(i + 1)
		}
		out[i] = masonry.Item[Ref]{
			Data:   Ref{ID: id, Label: it.Label, Meta: it.Meta},
			Format: it.Format,
		}
	}
	return out
}

// Validate checks the document for values the engine would silently
// ignore: malformed ratios, non-positive sizes, duplicate IDs and
// out-of-range options. A zero container is allowed. A minSize above
// maxSize is accepted; the engine applies max last.
func (d *Document) Validate() error {
	if err := errors.ValidateItemCount(len(d.Items)); err != nil {
		return err
	}
	if err := d.Options.validate(); err != nil {
		return err
	}
	if !d.Container.IsZero() {
		if err := errors.ValidateContainer(d.Container.Width, d.Container.Height); err != nil {
			return err
		}
		base, gap := d.Options.cellSize()
		if err := errors.ValidateGrid(d.Container.Width, d.Container.Height, base, gap, len(d.Items)); err != nil {
			return err
		}
	}

	seen := make(map[string]int, len(d.Items))
	for i, it := range d.Items {
		if err := it.validate(); err != nil {
			return atItem(i, it.ID, err)
		}
		if it.ID == "" {
			continue
		}
		if first, dup := seen[it.ID]; dup {
			return errors.New(errors.ErrCodeInvalidInput, "item %d: duplicate id %q (first used by item %d)", i+1, it.ID, first+1)
		}
		seen[it.ID] = i
	}
	return nil
}

// cellSize returns the base size and gap, falling back to the engine
// defaults.
func (o Options) cellSize() (base, gap float64) {
	base, gap = masonry.DefaultBaseSize, masonry.DefaultGap
	if o.BaseSize != nil {
		base = *o.BaseSize
	}
	if o.Gap != nil {
		gap = *o.Gap
	}
	return base, gap
}

func (o Options) validate() error {
	if o.BaseSize != nil || o.Gap != nil {
		if err := errors.ValidateCellSize(o.cellSize()); err != nil {
			return err
		}
	}
	if o.Looseness != nil {
		return errors.ValidateLooseness(*o.Looseness)
	}
	return nil
}

func (it Item) validate() error {
	if err := errors.ValidateItemID(it.ID); err != nil {
		return err
	}
	f := it.Format
	if f == nil {
		return nil
	}
	if err := errors.ValidateRatio(f.Ratio); err != nil {
		return err
	}
	for _, d := range []struct {
		field string
		dims  *masonry.Dimensions
	}{{"size", f.Size}, {"minSize", f.MinSize}, {"maxSize", f.MaxSize}} {
		if d.dims == nil {
			continue
		}
		if err := errors.ValidateSize(d.field, d.dims.Width, d.dims.Height); err != nil {
			return err
		}
	}
	return nil
}

// atItem prefixes err with the item position, keeping its code.
func atItem(i int, id string, err error) error {
	name := fmt.Sprintf("item %d", i+1)
	if id != "" {
		name = fmt.Sprintf("item %d (%s)", i+1, id)
	}
	return errors.New(errors.GetCode(err), "%s: %s", name, errors.UserMessage(err))
}
