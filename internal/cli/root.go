package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"fintrack/internal/backend"
	"fintrack/internal/categories"
	"fintrack/internal/config"
	"fintrack/internal/log"
)

// app carries what PersistentPreRunE prepares for the subcommands.
type app struct {
	cfg     *config.Config
	logger  *log.Logger
	factory backend.Factory
}

// NewRootCommand assembles the fintrack command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "fintrack",
		Short: "Personal finance tracker with income, expense and category statistics",
		Long: `fintrack records income and expense transactions and derives the
figures behind its Home, Transactions and Dashboard screens: totals,
balance, category breakdown, recent activity and month-over-month trends.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadAndValidateConfig()
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = SetupLogger(cfg, cmd.ErrOrStderr()).WithComponent(log.ComponentCLI)
			if a.factory == nil {
				a.factory = backend.NewFactory(a.logger)
			}
			return nil
		},
	}

	cmd.AddCommand(
		newServeCommand(a),
		newStatsCommand(a),
		newCategoriesCommand(a),
		newImportCommand(a),
		newExportCommand(a),
	)
	return cmd
}

// openBackend creates the configured backend. Callers must Close it.
func (a *app) openBackend(ctx context.Context) (*backend.BackendResult, error) {
	bcfg, err := backend.FromAppConfig(a.cfg)
	if err != nil {
		return nil, err
	}
	result, err := a.factory.CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, fmt.Errorf("open %s backend: %w", bcfg.Type, err)
	}
	return result, nil
}

func (a *app) openRegistry(ctx context.Context, b *backend.BackendResult) (*categories.Registry, error) {
	return categories.NewRegistry(ctx, b.Categories, a.logger)
}

func closeBackend(b *backend.BackendResult, logger *log.Logger) {
	if err := b.Close(); err != nil {
		logger.Warn("Failed to close backend", log.FieldError, err.Error())
	}
}
