package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"fintrack/internal/core"
	"fintrack/internal/services"
	"fintrack/internal/stats"
	"fintrack/internal/txfile"
)

type statsOptions struct {
	file   string
	view   string
	format string
	month  string
}

func newStatsCommand(a *app) *cobra.Command {
	opts := &statsOptions{}
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print the statistics of a screen",
		Long: `Print the figures of the home, transactions or dashboard screen.

Transactions are read from --file (JSON array or CSV) when given, otherwise
from the configured backend. --month moves the dashboard trends to another
month (YYYY-MM).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runStats(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "read transactions from a JSON or CSV file")
	cmd.Flags().StringVar(&opts.view, "view", services.ViewDashboard, "screen to compute: home, transactions or dashboard")
	cmd.Flags().StringVar(&opts.format, "format", "text", "output format: text or json")
	cmd.Flags().StringVar(&opts.month, "month", "", "month to compute trends for, YYYY-MM (default current month)")
	return cmd
}

func (a *app) runStats(ctx context.Context, out io.Writer, opts *statsOptions) error {
	switch opts.format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid format %q: must be text or json", opts.format)
	}

	loc := a.cfg.Location()
	now := time.Now().In(loc)
	if opts.month != "" {
		m, err := time.ParseInLocation("2006-01", opts.month, loc)
		if err != nil {
			return fmt.Errorf("invalid month %q: want YYYY-MM", opts.month)
		}
		now = m.AddDate(0, 0, 14)
	}

	txs, err := a.loadTransactions(ctx, opts.file)
	if err != nil {
		return err
	}

	var view any
	switch opts.view {
	case services.ViewHome:
		view = stats.Home(txs)
	case services.ViewTransactions:
		view = stats.Transactions(txs)
	case services.ViewDashboard:
		view = stats.Dashboard(txs, now, loc)
	default:
		return fmt.Errorf("invalid view %q: must be home, transactions or dashboard", opts.view)
	}

	if opts.format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	}
	return writeReport(out, view)
}

func (a *app) loadTransactions(ctx context.Context, file string) ([]core.Transaction, error) {
	if file != "" {
		return txfile.ReadFile(file)
	}
	b, err := a.openBackend(ctx)
	if err != nil {
		return nil, err
	}
	defer closeBackend(b, a.logger)
	return b.Transactions.List(ctx)
}

func writeReport(out io.Writer, view any) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	switch v := view.(type) {
	case stats.HomeView:
		writeTotals(w, v.Balance, v.Income, v.Expenses)
		writeRecent(w, v.Recent)
	case stats.TransactionsView:
		fmt.Fprintf(w, "Transactions\t%d\n", v.Total)
		fmt.Fprintf(w, "Income entries\t%d\n", v.IncomeCount)
		fmt.Fprintf(w, "Expense entries\t%d\n", v.ExpenseCount)
		writeTotals(w, v.Balance, v.Income, v.Expenses)
	case stats.Summary:
		fmt.Fprintf(w, "Transactions\t%d\n", v.Total)
		writeTotals(w, v.Balance, v.Income, v.Expenses)
		fmt.Fprintf(w, "Income trend\t%s\n", stats.FormatTrend(v.Trend.Income))
		fmt.Fprintf(w, "Expense trend\t%s\n", stats.FormatTrend(v.Trend.Expenses))
		fmt.Fprintf(w, "Top category\t%s\n", v.TopCategory)
		if len(v.TopCategories) > 0 {
			fmt.Fprintln(w, "\nCategory\tAmount\tShare")
			for _, c := range v.TopCategories {
				fmt.Fprintf(w, "%s\t%s\t%s\n", c.Label, stats.FormatAmount(c.Amount), stats.FormatPercent(c.Percentage))
			}
		}
		writeRecent(w, v.Recent)
	}
	return w.Flush()
}

func writeTotals(w io.Writer, balance, income, expenses float64) {
	fmt.Fprintf(w, "Balance\t%s\n", stats.FormatAmount(balance))
	fmt.Fprintf(w, "Income\t%s\n", stats.FormatAmount(income))
	fmt.Fprintf(w, "Expenses\t%s\n", stats.FormatAmount(expenses))
}

func writeRecent(w io.Writer, recent []core.Transaction) {
	if len(recent) == 0 {
		return
	}
	fmt.Fprintln(w, "\nRecent\tType\tCategory\tAmount")
	for _, t := range recent {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", strings.TrimSpace(t.Description), t.Kind(), t.CategoryLabel(), stats.FormatAmount(t.Value()))
	}
}
