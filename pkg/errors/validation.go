package errors

import (
	"math"
	"unicode"

	"github.com/matzehuels/masonry/pkg/masonry"
)

// Input limits enforced at the CLI and API boundaries. The engine itself
// accepts anything and degrades to an empty layout.
const (
	MaxContainerPixels = 1_000_000
	MaxItems           = 10_000
	MaxItemIDLength    = 256

	// MaxGridUnits bounds the occupancy table of a single layout, one
	// byte per unit.
	MaxGridUnits = 1 << 24
)

// ValidateRatio checks a ratio token. The empty string means "no ratio" and
// is valid.
func ValidateRatio(ratio string) error {
	if ratio == "" {
		return nil
	}
	if _, _, err := masonry.ParseRatio(ratio); err != nil {
		return Wrap(ErrCodeInvalidRatio, err, "invalid ratio %q", ratio)
	}
	return nil
}

// ValidateContainer checks that a container has finite, positive pixel
// dimensions within [MaxContainerPixels].
func ValidateContainer(width, height float64) error {
	if !positiveFinite(width) || !positiveFinite(height) {
		return New(ErrCodeInvalidContainer, "container must have positive dimensions, got %gx%g", width, height)
	}
	if width > MaxContainerPixels || height > MaxContainerPixels {
		return New(ErrCodeInvalidContainer, "container too large (max %d pixels per side)", MaxContainerPixels)
	}
	return nil
}

// ValidateSize checks a format dimension pair. field names the offending
// attribute in the message, e.g. "minSize".
func ValidateSize(field string, width, height float64) error {
	if !positiveFinite(width) || !positiveFinite(height) {
		return New(ErrCodeInvalidFormat, "%s must be positive, got %gx%g", field, width, height)
	}
	return nil
}

// ValidateLooseness checks that looseness lies in [0, 1].
func ValidateLooseness(l float64) error {
	if math.IsNaN(l) || l < 0 || l > 1 {
		return New(ErrCodeInvalidOption, "looseness must be between 0 and 1, got %g", l)
	}
	return nil
}

// ValidateCellSize checks the base size and gap options.
func ValidateCellSize(baseSize, gap float64) error {
	if !positiveFinite(baseSize) {
		return New(ErrCodeInvalidOption, "base size must be positive, got %g", baseSize)
	}
	if math.IsNaN(gap) || math.IsInf(gap, 0) || gap < 0 {
		return New(ErrCodeInvalidOption, "gap cannot be negative, got %g", gap)
	}
	return nil
}

// ValidateGrid rejects containers whose internal grid, at the given cell
// size and item count, exceeds [MaxGridUnits]. Call it after
// [ValidateContainer] and [ValidateCellSize].
func ValidateGrid(width, height, baseSize, gap float64, items int) error {
	units := masonry.GridUnits(width, height, baseSize, gap, items)
	if units > MaxGridUnits {
		return New(ErrCodeInvalidContainer,
			"container %gx%g is too large for %gpx cells: grid needs %.3g units (max %d)",
			width, height, baseSize+gap, units, MaxGridUnits)
	}
	return nil
}

// ValidateItemCount rejects item sets larger than [MaxItems].
func ValidateItemCount(n int) error {
	if n > MaxItems {
		return New(ErrCodeInvalidInput, "too many items: %d (max %d)", n, MaxItems)
	}
	return nil
}

// ValidateItemID checks a caller-supplied item identifier. Empty IDs are
// allowed; the item set assigns positional ones.
func ValidateItemID(id string) error {
	if len(id) > MaxItemIDLength {
		return New(ErrCodeInvalidInput, "item id too long (max %d characters)", MaxItemIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "item id contains invalid control characters")
		}
	}
	return nil
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
