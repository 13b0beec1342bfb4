package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/masonry/pkg/itemset"
	"github.com/matzehuels/masonry/pkg/pipeline"
	"github.com/matzehuels/masonry/pkg/store"
)

// historyCommand creates the history command for saved layouts.
func (c *CLI) historyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List and show saved layouts",
		Long: `List and show layouts saved with "masonry layout --save".

History is kept in MongoDB when [store] mongo_uri is configured and under
$XDG_DATA_HOME/masonry/layouts otherwise.`,
	}

	cmd.AddCommand(c.historyListCommand())
	cmd.AddCommand(c.historyShowCommand())
	cmd.AddCommand(c.historyDeleteCommand())

	return cmd
}

func (c *CLI) historyListCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved layouts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withHistory(cmd.Context(), func(runner *pipeline.Runner) error {
				sums, err := runner.History(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if len(sums) == 0 {
					printInfo("No saved layouts")
					return nil
				}
				fmt.Println(historyTable(sums, time.Now()))
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", store.DefaultListLimit, "maximum number of layouts")
	return cmd
}

func (c *CLI) historyShowCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a saved layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withHistory(cmd.Context(), func(runner *pipeline.Runner) error {
				rec, err := runner.Record(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if output != "" {
					if err := itemset.ExportResult(rec.Result, output); err != nil {
						return fmt.Errorf("write output %s: %w", output, err)
					}
					printSuccess("Exported layout %s", rec.ID)
					printFile(output)
					return nil
				}
				printKeyValue("ID", rec.ID)
				printKeyValue("Created", rec.CreatedAt.Local().Format(time.DateTime))
				printKeyValue("Container", fmt.Sprintf("%.0fx%.0f", rec.Params.Width, rec.Params.Height))
				printNewline()
				printCardTable(rec.Result)
				printStats(rec.Result, false)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the layout JSON to a file")
	return cmd
}

func (c *CLI) historyDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withHistory(cmd.Context(), func(runner *pipeline.Runner) error {
				if _, err := runner.Record(cmd.Context(), args[0]); err != nil {
					return err
				}
				if err := runner.Store.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				printSuccess("Deleted layout %s", args[0])
				return nil
			})
		},
	}
}

// withHistory runs fn with a runner whose store is open. Caching is not
// needed for history access.
func (c *CLI) withHistory(ctx context.Context, fn func(*pipeline.Runner) error) error {
	runner, err := c.newRunner(ctx, true, true)
	if err != nil {
		return err
	}
	defer runner.Close()
	return fn(runner)
}

// historyTable renders layout summaries relative to now.
func historyTable(sums []store.Summary, now time.Time) string {
	rows := make([][]string, len(sums))
	for i, s := range sums {
		rows[i] = []string{
			s.ID,
			formatRelativeTime(s.CreatedAt, now),
			fmt.Sprintf("%d", s.Items),
			fmt.Sprintf("%.0fx%.0f", s.Width, s.Height),
			fmt.Sprintf("%.0f%%", s.Utilization*100),
			fmt.Sprintf("%.2f", s.OrderFidelity),
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Saved", "Cards", "Container", "Used", "Fidelity").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 {
				return cellStyle.Foreground(colorCyan)
			}
			return cellStyle
		}).
		String()
}

func formatRelativeTime(t, now time.Time) string {
	diff := now.Sub(t)
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
