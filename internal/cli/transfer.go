package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"fintrack/internal/log"
	"fintrack/internal/store"
	"fintrack/internal/txfile"
)

// flusher is implemented by backends that persist on demand.
type flusher interface {
	Flush() error
}

func newImportCommand(a *app) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import transactions from a JSON or CSV file",
		Long: `Import transactions that already carry ids, such as an export or a
backup. Amounts, types and categories are stored as given. The import is
rejected as a whole when an id already exists.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			txs, err := txfile.ReadFile(file)
			if err != nil {
				return err
			}

			b, err := a.openBackend(ctx)
			if err != nil {
				return err
			}
			defer closeBackend(b, a.logger)

			importer, ok := b.Transactions.(store.Importer)
			if !ok {
				return fmt.Errorf("%s backend does not support import", a.cfg.DataBackend)
			}
			if err := importer.Import(ctx, txs); err != nil {
				return err
			}
			if f, ok := b.Transactions.(flusher); ok {
				if err := f.Flush(); err != nil {
					return err
				}
			}

			a.logger.Info("Transactions imported",
				log.FieldOperation, log.OpImport,
				log.FieldCount, len(txs),
				log.FieldBackend, a.cfg.DataBackend)
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d transactions\n", len(txs))
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON or CSV file to import")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newExportCommand(a *app) *cobra.Command {
	var (
		file   string
		format string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every transaction as JSON or CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := txfile.Format(format)
			if f != txfile.FormatJSON && f != txfile.FormatCSV {
				return fmt.Errorf("invalid format %q: must be json or csv", format)
			}

			txs, err := a.loadTransactions(cmd.Context(), "")
			if err != nil {
				return err
			}

			if file == "" {
				return txfile.Write(cmd.OutOrStdout(), txs, f)
			}
			out, err := os.Create(file)
			if err != nil {
				return fmt.Errorf("create %s: %w", file, err)
			}
			if err := txfile.Write(out, txs, f); err != nil {
				out.Close()
				return err
			}
			return out.Close()
		},
	}
	cmd.Flags().StringVarP(&file, "output", "o", "", "write to a file instead of standard output")
	cmd.Flags().StringVar(&format, "format", string(txfile.FormatJSON), "output format: json or csv")
	return cmd
}
