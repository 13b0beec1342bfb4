package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/masonry/pkg/codec"
	"github.com/matzehuels/masonry/pkg/errors"
	"github.com/matzehuels/masonry/pkg/itemset"
	"github.com/matzehuels/masonry/pkg/pipeline"
)

// Output formats of the layout command.
const (
	formatJSON  = "json"
	formatCBOR  = "cbor"
	formatTable = "table"
)

// layoutFlags holds the layout options settable on the command line.
type layoutFlags struct {
	width     float64
	height    float64
	baseSize  float64
	gap       float64
	grid      bool
	looseness float64
}

func (f *layoutFlags) register(fs *pflag.FlagSet, defaults pipeline.Options) {
	fs.Float64Var(&f.width, "width", pipeline.DefaultWidth, "container width in pixels")
	fs.Float64Var(&f.height, "height", pipeline.DefaultHeight, "container height in pixels")
	fs.Float64Var(&f.baseSize, "base-size", defaults.BaseSize, "pixel size of one grid cell")
	fs.Float64Var(&f.gap, "gap", defaults.Gap, "gap between cards in pixels")
	fs.BoolVar(&f.grid, "grid", false, "include CSS grid placement in the output")
	fs.Float64Var(&f.looseness, "looseness", defaults.Looseness, "allowed reordering between 0 and 1")
}

// apply overrides opts with the flags the user actually set, so explicit
// flags beat the item set, which beats the config file.
func (f *layoutFlags) apply(fs *pflag.FlagSet, opts *pipeline.Options) {
	if fs.Changed("width") {
		opts.Width = f.width
	}
	if fs.Changed("height") {
		opts.Height = f.height
	}
	if fs.Changed("base-size") {
		opts.BaseSize = f.baseSize
	}
	if fs.Changed("gap") {
		opts.Gap = f.gap
	}
	if fs.Changed("grid") {
		opts.Grid = f.grid
	}
	if fs.Changed("looseness") {
		opts.Looseness = f.looseness
	}
}

// layoutOpts holds the flags of the layout command that are not layout
// options.
type layoutOpts struct {
	output  string
	format  string
	noCache bool
	refresh bool
	save    bool
}

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags layoutFlags
		opts  layoutOpts
	)

	cmd := &cobra.Command{
		Use:   "layout [items]",
		Short: "Lay out an item set",
		Long: `Lay out an item set and write the placed cards.

The item set is a JSON, JSONC, YAML or TOML file (chosen by extension) or
"-" for JSON on standard input. Container size and options in the file are
used unless overridden by flags.

Results are cached locally for faster subsequent runs.`,
		Example: `  masonry layout gallery.yaml
  masonry layout gallery.json --width 1440 --gap 8 -o -
  masonry layout gallery.toml -f table --save`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], cmd.Flags(), &flags, opts)
		},
	}

	defaults := pipeline.DefaultOptions()
	flags.register(cmd.Flags(), defaults)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", `output file, "-" for stdout (default: <input>.layout.<format>)`)
	cmd.Flags().StringVarP(&opts.format, "format", "f", formatJSON, "output format: json, cbor, table")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even when cached")
	cmd.Flags().BoolVar(&opts.save, "save", false, "save the result to the layout history")

	return cmd
}

// runLayout loads the item set, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, fs *pflag.FlagSet, flags *layoutFlags, lo layoutOpts) error {
	if err := validateOutputFormat(lo.format); err != nil {
		return err
	}

	doc, err := itemset.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load items %s: %w", input, err)
	}

	opts, err := c.layoutDefaults()
	if err != nil {
		return err
	}
	opts.ApplyDocument(doc)
	flags.apply(fs, &opts)
	opts.Refresh = lo.refresh
	opts.Save = lo.save
	opts.Logger = c.Logger

	runner, err := c.newRunner(ctx, lo.noCache, lo.save)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Placing %d cards...", len(doc.Items)))
	spinner.Start()

	res, err := runner.Layout(ctx, doc, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if lo.format == formatTable && lo.output == "" {
		printCardTable(res.Layout)
		printStats(res.Layout, res.CacheHit)
		return nil
	}

	outputPath := lo.output
	if outputPath == "" {
		outputPath = defaultOutputPath(input, lo.format)
	}
	if err := writeLayout(res, lo.format, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}
	if outputPath == "-" {
		return nil
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(res.Layout, res.CacheHit)
	if res.ID != "" {
		printKeyValue("Saved as", res.ID)
		printNewline()
		printNextStep("Show", "masonry history show "+res.ID)
	}
	return nil
}

func validateOutputFormat(format string) error {
	switch format {
	case formatJSON, formatCBOR, formatTable:
		return nil
	}
	return errors.New(errors.ErrCodeInvalidInput, "invalid output format %q (want json, cbor or table)", format)
}

// defaultOutputPath derives "<input>.layout.<format>" next to the input, or
// stdout for standard input.
func defaultOutputPath(input, format string) string {
	if input == "-" {
		return "-"
	}
	if format == formatTable {
		format = formatJSON
	}
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + ".layout." + format
}

// writeLayout writes the engine result in the given format. Table output to
// a file is written as JSON.
func writeLayout(res *pipeline.Result, format, path string) error {
	if format != formatCBOR {
		if path == "-" {
			return itemset.WriteResult(os.Stdout, res.Layout)
		}
		return itemset.ExportResult(res.Layout, path)
	}

	data, err := codec.Marshal(res.Layout)
	if err != nil {
		return err
	}
	if path == "-" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
