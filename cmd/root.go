package cmd

import (
	"context"
	"net/http"

	"github.com/spf13/cobra"

	"mspro-labs/coin-filter/internal/apperr"
	"mspro-labs/coin-filter/internal/config"
	"mspro-labs/coin-filter/internal/logging"
)

// app carries what every command needs once the root has initialised.
type app struct {
	transport http.RoundTripper
	cfg       config.AppConfig
}

// Execute runs the command line with ctx, returning the first fatal error.
func Execute(ctx context.Context) error {
	return newRootCmd(nil).ExecuteContext(ctx)
}

func newRootCmd(transport http.RoundTripper) *cobra.Command {
	a := &app{transport: transport}
	opts := &exportOptions{}

	rootCmd := &cobra.Command{
		Use:   "coin-filter",
		Short: "Criteria based filtering of coins from coinmarketcap.com",
		Long: `Retrieves the list of coins (with price in USD and circulating supply) from
the market-data API, optionally filters them, and writes the result to
coins.csv in the working directory for spreadsheet analysis.

Examples:
  coin-filter
  coin-filter --ge-price 5000
  coin-filter --le-price 0.05 --ge-circulating-supply 6700000000
  coin-filter --format xlsx -o market.xlsx`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.GetAppConfig()
			if err != nil {
				return err
			}
			if err := logging.Setup(cfg.LogLevel, cmd.ErrOrStderr()); err != nil {
				return apperr.New(apperr.Configuration, "configure logging", err)
			}
			a.cfg = cfg
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, a, opts)
		},
	}

	opts.bindFlags(rootCmd)
	rootCmd.AddCommand(newHistoryCmd())
	return rootCmd
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
