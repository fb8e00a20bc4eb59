package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spent-dev/spent/internal/cli"
	"github.com/spent-dev/spent/internal/model"
)

var flagTimeFilter string

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show spending totals for a period",
	RunE:  runSummary,
}

func init() {
	summaryCmd.Flags().StringVarP(&flagTimeFilter, "period", "p", "", "Period: current-month, last-month or this-year")
	rootCmd.AddCommand(summaryCmd)
}

// parseTimeFilter validates a period flag against the selectable filters.
// Custom is excluded: it needs explicit dates and the summary endpoint
// takes them through --from/--to on the expenses command instead.
func parseTimeFilter(s string) (model.TimeFilter, error) {
	if s == "" {
		return model.CurrentMonth, nil
	}
	for _, tf := range model.TimeFilters {
		if tf == model.Custom {
			continue
		}
		if string(tf) == s {
			return tf, nil
		}
	}
	return "", fmt.Errorf("unknown period %q (want current-month, last-month or this-year)", s)
}

// periodFilter resolves the --period flag, falling back to the configured
// default when the flag is absent.
func periodFilter(e *env) (model.TimeFilter, error) {
	s := flagTimeFilter
	if s == "" {
		s = e.cfg.General.DefaultTimeFilter
	}
	return parseTimeFilter(s)
}

func runSummary(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.close()

	if err := requireSession(cmd.Context(), e); err != nil {
		return err
	}

	tf, err := periodFilter(e)
	if err != nil {
		return err
	}
	filter := model.FilterOptions{TimeFilter: tf}

	progress("Fetching summary...\n")
	sum, err := e.client.Summary(cmd.Context(), filter)
	if err != nil {
		return err
	}

	fmt.Printf("%s\n\n", tf.Label())
	fmt.Printf("Total: %s\n", cli.FormatAmount(sum.Total))
	if top, ok := sum.TopCategory(); ok {
		fmt.Printf("Top category: %s (%s)\n", top.Name, cli.FormatAmount(top.Amount))
	}

	if len(sum.ByCategory) > 0 {
		fmt.Println()
		cols := []cli.Column{
			{Header: "Category", Width: 20},
			{Header: "Amount", Width: 12, Right: true},
			{Header: "Count", Width: 6, Right: true},
			{Header: "Share", Width: 7, Right: true},
		}
		var rows [][]string
		for _, c := range sum.ByCategory {
			if c.Count == 0 {
				continue
			}
			rows = append(rows, []string{
				cli.Truncate(c.Name, 20),
				cli.FormatAmount(c.Amount),
				fmt.Sprintf("%d", c.Count),
				cli.Pct(c.Percentage),
			})
		}
		fmt.Print(cli.Table(cols, rows))
	}

	if len(sum.RecentExpenses) > 0 {
		fmt.Println("\nRecent:")
		for _, x := range sum.RecentExpenses {
			fmt.Printf("  %s  %-30s %s\n", cli.FormatDateISO(x.Date), cli.Truncate(x.Title, 30), cli.FormatAmount(x.Amount))
		}
	}
	return nil
}
