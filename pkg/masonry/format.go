package masonry

import (
	"math"
	"strconv"
	"strings"
)

// Dimensions is a width/height pair in pixels.
type Dimensions struct {
	Width  float64 `json:"width" yaml:"width" toml:"width" bson:"width"`
	Height float64 `json:"height" yaml:"height" toml:"height" bson:"height"`
}

// Format holds the optional sizing hints of an item.
//
// Every field is optional. A nil *Format and a zero Format both describe an
// unconstrained, loose item.
type Format struct {
	// Size is the exact size of the card in pixels.
	Size *Dimensions `json:"size,omitempty" yaml:"size,omitempty" toml:"size,omitempty" bson:"size,omitempty"`

	// MinSize and MaxSize clamp the resolved size. Min is applied first.
	MinSize *Dimensions `json:"minSize,omitempty" yaml:"minSize,omitempty" toml:"minSize,omitempty" bson:"min_size,omitempty"`
	MaxSize *Dimensions `json:"maxSize,omitempty" yaml:"maxSize,omitempty" toml:"maxSize,omitempty" bson:"max_size,omitempty"`

	// Ratio is either "W:H" or a named shortcut (see [Shortcuts]).
	Ratio string `json:"ratio,omitempty" yaml:"ratio,omitempty" toml:"ratio,omitempty" bson:"ratio,omitempty"`

	// Loose overrides whether the ratio and size hints may be relaxed.
	// Unset, shortcuts are loose and everything else explicit is strict.
	Loose *bool `json:"loose,omitempty" yaml:"loose,omitempty" toml:"loose,omitempty" bson:"loose,omitempty"`
}

// Shortcuts maps named ratios to their width:height values.
var Shortcuts = map[string][2]float64{
	"portrait":  {1, 2},
	"landscape": {2, 1},
	"banner":    {4, 1},
	"tower":     {1, 4},
}

// Kind is a bit set describing which hints a format carries.
type Kind uint8

// KindNone marks an item without hints.
const KindNone Kind = 0

const (
	KindSize Kind = 1 << iota
	KindMin
	KindMax
	KindRatio
)

// Has reports whether all bits of o are set in k.
func (k Kind) Has(o Kind) bool { return k&o == o }

type ratioMode uint8

const (
	ratioNone ratioMode = iota
	ratioStrict
	ratioLoose
)

// constraint is the classified form of a Format. The resolver only ever
// looks at constraints, never at the raw Format.
type constraint struct {
	kind  Kind
	mode  ratioMode
	ratio float64 // width / height, valid when mode != ratioNone
	loose bool

	size, min, max Dimensions
}

// modifiable reports whether the scaler and expander may resize the card.
func (c constraint) modifiable(f *Format) bool {
	if c.kind != KindNone {
		return false
	}
	return f == nil || f.Loose == nil || *f.Loose
}

// classify turns a Format into a constraint. Unparseable ratios are
// ignored; boundaries that need to reject them call ParseRatio directly.
func classify(f *Format) constraint {
	c := constraint{loose: true}
	if f == nil {
		return c
	}

	shortcut := false
	if f.Size != nil {
		c.kind |= KindSize
		c.size = *f.Size
	}
	if f.MinSize != nil {
		c.kind |= KindMin
		c.min = *f.MinSize
	}
	if f.MaxSize != nil {
		c.kind |= KindMax
		c.max = *f.MaxSize
	}
	if f.Ratio != "" {
		if r, named, err := ParseRatio(f.Ratio); err == nil {
			c.kind |= KindRatio
			c.ratio = r
			shortcut = named
		}
	}

	switch {
	case f.Loose != nil:
		c.loose = *f.Loose
	case c.kind.Has(KindRatio):
		c.loose = shortcut
	case c.kind != KindNone:
		c.loose = false
	}

	if c.kind.Has(KindRatio) {
		c.mode = ratioStrict
		if c.loose {
			c.mode = ratioLoose
		}
	}
	return c
}

// ParseRatio parses a ratio token and returns width/height. The second
// return value reports whether the token was a named shortcut.
func ParseRatio(s string) (float64, bool, error) {
	token := strings.ToLower(strings.TrimSpace(s))
	if wh, ok := Shortcuts[token]; ok {
		return wh[0] / wh[1], true, nil
	}

	w, h, ok := strings.Cut(token, ":")
	if !ok {
		return 0, false, &RatioError{Ratio: s}
	}
	fw, err := strconv.ParseFloat(strings.TrimSpace(w), 64)
	if err != nil || !positiveFinite(fw) {
		return 0, false, &RatioError{Ratio: s}
	}
	fh, err := strconv.ParseFloat(strings.TrimSpace(h), 64)
	if err != nil || !positiveFinite(fh) {
		return 0, false, &RatioError{Ratio: s}
	}
	r := fw / fh
	if !positiveFinite(r) {
		return 0, false, &RatioError{Ratio: s}
	}
	return r, false, nil
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

// RatioError reports a ratio token that is neither "W:H" nor a shortcut.
type RatioError struct {
	Ratio string
}

func (e *RatioError) Error() string {
	return "invalid ratio " + strconv.Quote(e.Ratio) + ": want \"W:H\" or one of portrait, landscape, banner, tower"
}
