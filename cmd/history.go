package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"mspro-labs/coin-filter/internal/apperr"
	"mspro-labs/coin-filter/internal/db"
)

func newHistoryCmd() *cobra.Command {
	var dbPath string

	historyCmd := &cobra.Command{
		Use:   "history [clear]",
		Short: "List export runs stored by the sqlite output format",
		Long: `Shows the runs recorded in a database written with --format sqlite, newest first.
Examples:
  coin-filter history
  coin-filter history --db market.db
  coin-filter history clear`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"clear"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return handleHistory(cmd, dbPath, args)
		},
	}
	historyCmd.Flags().StringVar(&dbPath, "db", "coins.db", "SQLite database written with --format sqlite")
	return historyCmd
}

func handleHistory(cmd *cobra.Command, dbPath string, args []string) error {
	out := cmd.OutOrStdout()

	// Connect would create an empty database, so check first
	if _, err := os.Stat(dbPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return apperr.New(apperr.IO, "open history", fmt.Errorf("no export database at %s (run with --format sqlite first)", dbPath))
		}
		return apperr.New(apperr.IO, "open history", err)
	}
	database, err := db.Connect(dbPath)
	if err != nil {
		return apperr.New(apperr.IO, "open history", err)
	}
	defer database.Close()

	if len(args) == 1 {
		if strings.ToLower(args[0]) != "clear" {
			return apperr.Configf("unknown history command %q (expected \"clear\")", args[0])
		}
		affected, err := db.ClearExportRuns(database)
		if err != nil {
			return apperr.New(apperr.IO, "clear history", err)
		}
		fmt.Fprintf(out, "Done. Removed %d run(s) from history.\n", affected)
		return nil
	}

	runs, err := db.ListExportRuns(database)
	if err != nil {
		return apperr.New(apperr.IO, "list history", err)
	}
	fmt.Fprintln(out, "Export History")
	fmt.Fprintln(out, "--------------")
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded.")
		return nil
	}
	for _, r := range runs {
		fmt.Fprintf(out, "[%s] %s  exported %d of %d  (%s)\n",
			r.StartedAt.Local().Format("2006-01-02 15:04"), r.RunID, r.Exported, r.Fetched, r.Criteria)
	}
	return nil
}
