package errors

import (
	"math"
	"strings"
	"testing"
)

func TestValidateRatio(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty", "", false},
		{"explicit", "16:9", false},
		{"spaces", " 4 : 3 ", false},
		{"shortcut", "portrait", false},
		{"shortcut upper", "BANNER", false},

		{"unknown word", "square", true},
		{"wrong separator", "16x9", true},
		{"zero", "0:9", true},
		{"negative", "-1:2", true},
		{"missing side", "16:", true},
		{"NaN", "NaN:1", true},
		{"infinite", "inf:1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRatio(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateRatio(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidRatio) {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidRatio)
			}
		})
	}
}

func TestValidateContainer(t *testing.T) {
	tests := []struct {
		name          string
		width, height float64
		wantErr       bool
	}{
		{"typical", 1280, 720, false},
		{"smaller than a cell", 10, 10, false},
		{"at limit", MaxContainerPixels, MaxContainerPixels, false},

		{"zero width", 0, 720, true},
		{"negative height", 1280, -1, true},
		{"NaN", math.NaN(), 720, true},
		{"infinite", math.Inf(1), 720, true},
		{"too large", MaxContainerPixels + 1, 720, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateContainer(tt.width, tt.height)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateContainer(%v, %v) error = %v, wantErr %v", tt.width, tt.height, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidContainer) {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidContainer)
			}
		})
	}
}

func TestValidateSize(t *testing.T) {
	if err := ValidateSize("size", 400, 300); err != nil {
		t.Errorf("ValidateSize(400, 300) = %v, want nil", err)
	}
	err := ValidateSize("minSize", 0, 300)
	if !Is(err, ErrCodeInvalidFormat) {
		t.Fatalf("ValidateSize(0, 300) = %v, want %v", err, ErrCodeInvalidFormat)
	}
	if !strings.Contains(err.Error(), "minSize") {
		t.Errorf("message %q does not name the field", err.Error())
	}
}

func TestValidateLooseness(t *testing.T) {
	tests := []struct {
		input   float64
		wantErr bool
	}{
		{0, false},
		{0.2, false},
		{1, false},
		{-0.1, true},
		{1.5, true},
		{math.NaN(), true},
	}

	for _, tt := range tests {
		err := ValidateLooseness(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateLooseness(%v) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}

func TestValidateCellSize(t *testing.T) {
	tests := []struct {
		name     string
		base     float64
		gap      float64
		wantErr  bool
		wantCode Code
	}{
		{"defaults", 200, 16, false, ""},
		{"no gap", 100, 0, false, ""},
		{"zero base", 0, 16, true, ErrCodeInvalidOption},
		{"negative gap", 200, -1, true, ErrCodeInvalidOption},
		{"infinite gap", 200, math.Inf(1), true, ErrCodeInvalidOption},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCellSize(tt.base, tt.gap)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateCellSize() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got := GetCode(err); err != nil && got != tt.wantCode {
				t.Errorf("code = %v, want %v", got, tt.wantCode)
			}
		})
	}
}

func TestValidateGrid(t *testing.T) {
	tests := []struct {
		name          string
		width, height float64
		base, gap     float64
		items         int
		wantErr       bool
	}{
		{"typical", 1280, 720, 200, 16, 50, false},
		{"4k small cells", 3840, 2160, 10, 0, 1000, false},
		{"many items", 1280, 720, 200, 16, MaxItems, false},
		{"degenerate", 100, 100, 200, 16, 3, false},

		{"max container default cells", MaxContainerPixels, MaxContainerPixels, 200, 16, 1, true},
		{"max container unit cells", MaxContainerPixels, MaxContainerPixels, 1, 0, 1, true},
		{"subnormal cell", 1000, 1000, 1e-310, 0, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateGrid(tt.width, tt.height, tt.base, tt.gap, tt.items)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateGrid() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidContainer) {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidContainer)
			}
		})
	}
}

func TestValidateItemCount(t *testing.T) {
	if err := ValidateItemCount(MaxItems); err != nil {
		t.Errorf("ValidateItemCount(MaxItems) = %v, want nil", err)
	}
	if err := ValidateItemCount(MaxItems + 1); !Is(err, ErrCodeInvalidInput) {
		t.Errorf("ValidateItemCount(MaxItems+1) = %v, want %v", err, ErrCodeInvalidInput)
	}
}

func TestValidateItemID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty", "", false},
		{"simple", "card-1", false},
		{"unicode", "photo-äöü", false},

		{"too long", strings.Repeat("a", MaxItemIDLength+1), true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateItemID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateItemID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
