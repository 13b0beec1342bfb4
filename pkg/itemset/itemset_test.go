package itemset

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/masonry/pkg/errors"
	"github.com/matzehuels/masonry/pkg/masonry"
)

func ptr[T any](v T) *T { return &v }

func galleryDocument() *Document {
	return &Document{
		Container: Container{Width: 1280, Height: 720},
		Options:   Options{BaseSize: ptr(100.0), Gap: ptr(8.0), Grid: ptr(true)},
		Items: []Item{
			{ID: "hero", Label: "Hero", Format: &masonry.Format{Size: &masonry.Dimensions{Width: 600, Height: 400}}},
			{ID: "quote", Format: &masonry.Format{Ratio: "banner"}},
			{ID: "photo", Format: &masonry.Format{Ratio: "16:9", Loose: ptr(true)}, Meta: map[string]any{"src": "photo.jpg"}},
			{ID: "note", Format: &masonry.Format{
				MinSize: &masonry.Dimensions{Width: 100, Height: 100},
				MaxSize: &masonry.Dimensions{Width: 300, Height: 300},
			}},
		},
	}
}

func TestReadFileEncodings(t *testing.T) {
	want := galleryDocument()
	for _, name := range []string{"gallery.json", "gallery.jsonc", "gallery.yaml", "gallery.toml"} {
		t.Run(name, func(t *testing.T) {
			got, err := ReadFile(filepath.Join("testdata", name))
			if err != nil {
				t.Fatalf("ReadFile: %v", err)
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("document mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReadFileBareArray(t *testing.T) {
	doc, err := ReadFile(filepath.Join("testdata", "items.json"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(doc.Items) != 2 || !doc.Container.IsZero() {
		t.Errorf("got %d items, container %+v; want 2 items and no container", len(doc.Items), doc.Container)
	}
}

func TestReadFileErrors(t *testing.T) {
	tests := []struct {
		name string
		path string
		code errors.Code
	}{
		{"missing", filepath.Join("testdata", "nope.json"), errors.ErrCodeNotFound},
		{"unsupported extension", filepath.Join("testdata", "gallery.xml"), errors.ErrCodeUnsupported},
		{"bad ratio", filepath.Join("testdata", "bad-ratio.yaml"), errors.ErrCodeInvalidRatio},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadFile(tt.path)
			if !errors.Is(err, tt.code) {
				t.Errorf("ReadFile(%s) error = %v, want code %v", tt.path, err, tt.code)
			}
		})
	}
}

func TestReadMalformed(t *testing.T) {
	_, err := Read(strings.NewReader(`{"items": [`), JSON)
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Read(truncated) error = %v, want %v", err, errors.ErrCodeInvalidFormat)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		doc  Document
		code errors.Code
	}{
		{"empty is fine", Document{}, ""},
		{"zero container is fine", Document{Items: []Item{{ID: "a"}}}, ""},
		{"min above max is fine", Document{Items: []Item{{Format: &masonry.Format{
			MinSize: &masonry.Dimensions{Width: 500, Height: 500},
			MaxSize: &masonry.Dimensions{Width: 100, Height: 100},
		}}}}, ""},
		{"negative container", Document{Container: Container{Width: -1, Height: 100}}, errors.ErrCodeInvalidContainer},
		{"bad ratio", Document{Items: []Item{{Format: &masonry.Format{Ratio: "3by2"}}}}, errors.ErrCodeInvalidRatio},
		{"zero size", Document{Items: []Item{{Format: &masonry.Format{Size: &masonry.Dimensions{Width: 0, Height: 10}}}}}, errors.ErrCodeInvalidFormat},
		{"duplicate id", Document{Items: []Item{{ID: "a"}, {ID: "a"}}}, errors.ErrCodeInvalidInput},
		{"looseness", Document{Options: Options{Looseness: ptr(2.0)}}, errors.ErrCodeInvalidOption},
		{"negative gap", Document{Options: Options{Gap: ptr(-1.0)}}, errors.ErrCodeInvalidOption},
		{"grid too large", Document{
			Container: Container{Width: errors.MaxContainerPixels, Height: errors.MaxContainerPixels},
		}, errors.ErrCodeInvalidContainer},
		{"grid too large for small cells", Document{
			Container: Container{Width: 100_000, Height: 100_000},
			Options:   Options{BaseSize: ptr(1.0), Gap: ptr(0.0)},
		}, errors.ErrCodeInvalidContainer},
		{"large container with big cells", Document{
			Container: Container{Width: 100_000, Height: 100_000},
			Options:   Options{BaseSize: ptr(2000.0)},
		}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.doc.Validate()
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("Validate() = %v, want code %q", err, tt.code)
			}
		})
	}
}

func TestValidateNamesItem(t *testing.T) {
	doc := Document{Items: []Item{{ID: "ok"}, {ID: "wide", Format: &masonry.Format{Ratio: "square"}}}}
	err := doc.Validate()
	if msg := errors.UserMessage(err); !strings.HasPrefix(msg, "item 2 (wide): ") {
		t.Errorf("UserMessage() = %q, want item prefix", msg)
	}
}

func TestEngineItems(t *testing.T) {
	doc := galleryDocument()
	doc.Items = append(doc.Items, Item{Label: "anonymous"})

	items := doc.EngineItems()
	if len(items) != 5 {
		t.Fatalf("EngineItems() = %d items, want 5", len(items))
	}
	if items[0].Data.ID != "hero" || items[0].Format != doc.Items[0].Format {
		t.Errorf("items[0] = %+v, want hero with its format", items[0])
	}
	if items[4].Data.ID != "5" || items[4].Data.Name() != "anonymous" {
		t.Errorf("items[4].Data = %+v, want positional id 5", items[4].Data)
	}
	if got := (Ref{ID: "x"}).Name(); got != "x" {
		t.Errorf("Name() = %q, want fallback to id", got)
	}
}

func TestParseEncoding(t *testing.T) {
	tests := []struct {
		in      string
		want    Encoding
		wantErr bool
	}{
		{"json", JSON, false},
		{"JSONC", JSONC, false},
		{"yml", YAML, false},
		{" toml ", TOML, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseEncoding(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseEncoding(%q) = %q, %v; want %q, wantErr %v", tt.in, got, err, tt.want, tt.wantErr)
		}
	}
}

func TestExportResult(t *testing.T) {
	doc := galleryDocument()
	res := masonry.Layout(doc.EngineItems(), doc.Container.Width, doc.Container.Height)

	path := filepath.Join(t.TempDir(), "out.json")
	if err := ExportResult(res, path); err != nil {
		t.Fatalf("ExportResult: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("{\n  \"cards\"")) {
		t.Errorf("output is not indented JSON: %.40s", data)
	}

	var decoded masonry.Result[Ref]
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(decoded.Cards) != 4 || decoded.Cards[2].Item.Data.ID != "photo" {
		t.Errorf("decoded cards = %+v", decoded.Cards)
	}
}
