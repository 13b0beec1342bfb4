package cli

import (
	"context"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/masonry/pkg/itemset"
	"github.com/matzehuels/masonry/pkg/masonry"
	"github.com/matzehuels/masonry/pkg/pipeline"
)

func card(id string, x, y, w, h float64) masonry.Card[itemset.Ref] {
	return masonry.Card[itemset.Ref]{
		Item: masonry.Item[itemset.Ref]{Data: itemset.Ref{ID: id}},
		X:    x, Y: y, Width: w, Height: h,
	}
}

func TestRenderCards(t *testing.T) {
	cards := []masonry.Card[itemset.Ref]{
		card("a", 0, 0, 64, 64),
		card("b", 80, 0, 32, 32),   // one row tall: drawn solid
		card("c", 144, 0, 64, 96), // clipped at the right edge
	}

	got := renderCards(cards, 10, 3, 16, 32, false)
	want := strings.Join([]string{
		"┌a─┐ ██  ┌",
		"└──┘     │",
		"         └",
	}, "\n")
	if got != want {
		t.Errorf("renderCards() =\n%s\nwant\n%s", got, want)
	}

	if got := renderCards(cards, 0, 3, 16, 32, false); got != "" {
		t.Errorf("renderCards() on an empty canvas = %q, want empty", got)
	}
}

func TestRenderCardsGridLabel(t *testing.T) {
	c := card("hero", 0, 0, 320, 128)
	c.Grid = &masonry.GridPos{Col: 1, Row: 1, ColSpan: 2, RowSpan: 2}

	got := renderCards([]masonry.Card[itemset.Ref]{c}, 20, 4, 16, 32, true)
	if !strings.Contains(got, "│hero 1,1") {
		t.Errorf("renderCards() =\n%s\nwant the grid position in the label", got)
	}
}

func newTestPreview(t *testing.T) previewModel {
	t.Helper()
	doc := &itemset.Document{Items: []itemset.Item{{ID: "hero"}, {ID: "note"}, {ID: "photo"}}}
	logger := log.NewWithOptions(io.Discard, log.Options{})
	runner := pipeline.NewRunner(nil, nil, nil, logger)
	return newPreviewModel(context.Background(), runner, doc, pipeline.DefaultOptions())
}

func TestPreviewResizeRelayouts(t *testing.T) {
	m := newTestPreview(t)

	next, cmd := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30 + chrome})
	if cmd == nil {
		t.Fatal("resize returned no layout command")
	}
	next, _ = next.Update(cmd())
	pm := next.(previewModel)

	if pm.err != nil {
		t.Fatalf("layout error = %v", pm.err)
	}
	if pm.res == nil || len(pm.res.Layout.Cards) != 3 {
		t.Fatalf("res = %+v, want 3 cards", pm.res)
	}
	if pm.res.Layout.Stats.Columns == 0 {
		t.Error("layout has no columns")
	}
	if view := pm.View(); !strings.Contains(view, "3 cards") || !strings.Contains(view, "hero") {
		t.Errorf("View() =\n%s\nwant header stats and card labels", view)
	}
}

func TestPreviewDropsStaleLayouts(t *testing.T) {
	m := newTestPreview(t)

	next, first := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	next, second := next.Update(tea.WindowSizeMsg{Width: 60, Height: 20})

	next, _ = next.Update(first())
	if next.(previewModel).res != nil {
		t.Fatal("stale layout was applied")
	}
	next, _ = next.Update(second())
	if next.(previewModel).res == nil {
		t.Fatal("current layout was dropped")
	}
}

func TestPreviewKeys(t *testing.T) {
	m := newTestPreview(t)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	runes := func(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

	next, cmd := next.Update(runes("+"))
	if got := next.(previewModel).zoom; got != defaultZoom-1 || cmd == nil {
		t.Errorf("zoom in: zoom = %d, cmd = %v, want %d and a relayout", got, cmd != nil, defaultZoom-1)
	}
	next, _ = next.Update(runes("-"))
	next, _ = next.Update(runes("-"))
	if got := next.(previewModel).zoom; got != defaultZoom+1 {
		t.Errorf("zoom out: zoom = %d, want %d", got, defaultZoom+1)
	}

	next, _ = next.Update(runes("g"))
	if !next.(previewModel).showGrid {
		t.Error("g did not toggle grid labels")
	}
	next, _ = next.Update(runes("?"))
	if !next.(previewModel).help.ShowAll {
		t.Error("? did not expand help")
	}

	_, cmd = next.Update(runes("q"))
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}

func TestPreviewTinyWindow(t *testing.T) {
	m := newTestPreview(t)
	_, cmd := m.Update(tea.WindowSizeMsg{Width: 40, Height: chrome})
	if cmd != nil {
		t.Error("relayout requested for a window without canvas rows")
	}
}
