package cli

import (
	"context"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/matzehuels/masonry/pkg/itemset"
	"github.com/matzehuels/masonry/pkg/masonry"
	"github.com/matzehuels/masonry/pkg/pipeline"
)

// zoomLevels are the pixels represented by one terminal column. A row is
// twice as tall since terminal cells are roughly 1:2.
var zoomLevels = []float64{8, 12, 16, 24, 32}

const (
	defaultZoom = 2

	// chrome is the number of terminal rows taken by header and help.
	chrome = 3

	fallbackCols = 100
	fallbackRows = 30
)

// =============================================================================
// Keys
// =============================================================================

type previewKeys struct {
	ZoomIn  key.Binding
	ZoomOut key.Binding
	Grid    key.Binding
	Help    key.Binding
	Quit    key.Binding
}

var defaultPreviewKeys = previewKeys{
	ZoomIn: key.NewBinding(
		key.WithKeys("+", "="),
		key.WithHelp("+", "zoom in"),
	),
	ZoomOut: key.NewBinding(
		key.WithKeys("-", "_"),
		key.WithHelp("-", "zoom out"),
	),
	Grid: key.NewBinding(
		key.WithKeys("g"),
		key.WithHelp("g", "grid positions"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k previewKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.ZoomIn, k.ZoomOut, k.Help, k.Quit}
}

func (k previewKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.ZoomIn, k.ZoomOut, k.Grid}, {k.Help, k.Quit}}
}

// =============================================================================
// Command
// =============================================================================

// previewCommand creates the preview command.
func (c *CLI) previewCommand() *cobra.Command {
	var (
		flags   layoutFlags
		static  bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "preview [items]",
		Short: "Preview a layout in the terminal",
		Long: `Preview a layout in the terminal.

The container is sized to the terminal window and the item set is laid out
again whenever the window is resized or the zoom changes. With --static, or
when standard output is not a terminal, a single frame is printed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPreview(cmd.Context(), args[0], cmd, &flags, static, noCache)
		},
	}

	flags.register(cmd.Flags(), pipeline.DefaultOptions())
	cmd.Flags().BoolVar(&static, "static", false, "print one frame and exit")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runPreview(ctx context.Context, input string, cmd *cobra.Command, flags *layoutFlags, static, noCache bool) error {
	doc, err := itemset.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load items %s: %w", input, err)
	}
	opts, err := c.layoutDefaults()
	if err != nil {
		return err
	}
	opts.ApplyDocument(doc)
	flags.apply(cmd.Flags(), &opts)
	opts.Logger = c.Logger

	runner, err := c.newRunner(ctx, noCache, false)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	m := newPreviewModel(ctx, runner, doc, opts)

	fd := int(os.Stdout.Fd())
	if static || !term.IsTerminal(fd) {
		cols, rows, err := term.GetSize(fd)
		if err != nil {
			cols, rows = fallbackCols, fallbackRows
		}
		m.resize(cols, rows)
		relayout := m.relayout()
		if relayout == nil {
			return fmt.Errorf("terminal too small (%dx%d)", cols, rows)
		}
		next, _ := m.Update(relayout())
		frame := next.(previewModel)
		fmt.Fprintln(cmd.OutOrStdout(), frame.frame())
		return frame.err
	}

	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

// =============================================================================
// Model
// =============================================================================

// layoutMsg carries a finished layout. seq discards results that a newer
// resize has made stale.
type layoutMsg struct {
	seq int
	res *pipeline.Result
	err error
}

type previewModel struct {
	ctx    context.Context
	runner *pipeline.Runner
	doc    *itemset.Document
	opts   pipeline.Options

	keys previewKeys
	help help.Model

	zoom     int
	showGrid bool
	cols     int
	rows     int

	seq int
	res *pipeline.Result
	err error
}

func newPreviewModel(ctx context.Context, runner *pipeline.Runner, doc *itemset.Document, opts pipeline.Options) previewModel {
	return previewModel{
		ctx:    ctx,
		runner: runner,
		doc:    doc,
		opts:   opts,
		keys:   defaultPreviewKeys,
		help:   help.New(),
		zoom:   defaultZoom,
	}
}

func (m previewModel) Init() tea.Cmd {
	return nil
}

func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, m.relayout()
	case layoutMsg:
		if msg.seq == m.seq {
			m.res, m.err = msg.res, msg.err
		}
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.ZoomIn):
			if m.zoom > 0 {
				m.zoom--
				return m, m.relayout()
			}
		case key.Matches(msg, m.keys.ZoomOut):
			if m.zoom < len(zoomLevels)-1 {
				m.zoom++
				return m, m.relayout()
			}
		case key.Matches(msg, m.keys.Grid):
			m.showGrid = !m.showGrid
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
	}
	return m, nil
}

func (m *previewModel) resize(width, height int) {
	m.cols = width
	m.rows = max(height-chrome, 0)
	m.help.Width = width
}

// scale returns the pixels per terminal column and row.
func (m previewModel) scale() (float64, float64) {
	px := zoomLevels[m.zoom]
	return px, 2 * px
}

// relayout starts a layout for the current canvas. The container is the
// canvas in pixels.
func (m *previewModel) relayout() tea.Cmd {
	m.seq++
	seq := m.seq
	if m.cols <= 0 || m.rows <= 0 {
		return nil
	}
	pxCol, pxRow := m.scale()
	opts := m.opts
	opts.Width = float64(m.cols) * pxCol
	opts.Height = float64(m.rows) * pxRow
	opts.Grid = true

	ctx, runner, doc := m.ctx, m.runner, m.doc
	return func() tea.Msg {
		res, err := runner.Layout(ctx, doc, opts)
		return layoutMsg{seq: seq, res: res, err: err}
	}
}

func (m previewModel) View() string {
	return m.frame() + "\n" + m.help.View(m.keys)
}

// frame renders the header and canvas.
func (m previewModel) frame() string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render("masonry preview"))
	switch {
	case m.err != nil:
		b.WriteString("  " + StyleWarning.Render(m.err.Error()))
	case m.res != nil:
		l := m.res.Layout
		pxCol, _ := m.scale()
		b.WriteString(StyleDim.Render(fmt.Sprintf("  %d cards · %.0f%% used · fidelity %.2f · %.0fpx/col",
			len(l.Cards), l.Utilization*100, l.OrderFidelity, pxCol)))
	default:
		b.WriteString(StyleDim.Render("  laying out..."))
	}
	b.WriteString("\n")
	if m.res != nil && m.err == nil {
		pxCol, pxRow := m.scale()
		b.WriteString(renderCards(m.res.Layout.Cards, m.cols, m.rows, pxCol, pxRow, m.showGrid))
	}
	return b.String()
}

// =============================================================================
// Canvas
// =============================================================================

// renderCards draws every card as a box on a cols x rows character canvas.
// Cards past the canvas edge are clipped. Trailing spaces are trimmed.
func renderCards(cards []masonry.Card[itemset.Ref], cols, rows int, pxCol, pxRow float64, showGrid bool) string {
	if cols <= 0 || rows <= 0 {
		return ""
	}
	canvas := make([][]rune, rows)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", cols))
	}
	set := func(x, y int, r rune) {
		if x >= 0 && x < cols && y >= 0 && y < rows {
			canvas[y][x] = r
		}
	}

	for _, c := range cards {
		x0 := int(math.Round(c.X / pxCol))
		y0 := int(math.Round(c.Y / pxRow))
		x1 := max(int(math.Round((c.X+c.Width)/pxCol))-1, x0)
		y1 := max(int(math.Round((c.Y+c.Height)/pxRow))-1, y0)

		if x1 == x0 || y1 == y0 {
			for y := y0; y <= y1; y++ {
				for x := x0; x <= x1; x++ {
					set(x, y, '█')
				}
			}
			continue
		}

		for x := x0 + 1; x < x1; x++ {
			set(x, y0, '─')
			set(x, y1, '─')
		}
		for y := y0 + 1; y < y1; y++ {
			set(x0, y, '│')
			set(x1, y, '│')
		}
		set(x0, y0, '┌')
		set(x1, y0, '┐')
		set(x0, y1, '└')
		set(x1, y1, '┘')

		label := c.Item.Data.Name()
		if showGrid && c.Grid != nil {
			label = fmt.Sprintf("%s %d,%d", label, c.Grid.Col, c.Grid.Row)
		}
		ly := y0 + 1
		if ly == y1 {
			ly = y0
		}
		for i, r := range []rune(label) {
			if x0+1+i >= x1 {
				break
			}
			set(x0+1+i, ly, r)
		}
	}

	lines := make([]string, rows)
	for i, row := range canvas {
		lines[i] = strings.TrimRight(string(row), " ")
	}
	return strings.Join(lines, "\n")
}
