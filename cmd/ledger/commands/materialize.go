package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/mmynk/duoledger/internal/metrics"
	"github.com/mmynk/duoledger/internal/storage/sqlite"
	"github.com/mmynk/duoledger/internal/worker"
	"github.com/mmynk/duoledger/pkg/api"
)

var asOf string

// materializeCmd represents the materialize command
var materializeCmd = &cobra.Command{
	Use:   "materialize",
	Short: "Turn due subscriptions into transactions once and exit",
	Long: `Materialize every subscription charge due on or before --as-of
(default today) and exit. Charges already stored are skipped, so the
command is safe to run from cron alongside the server.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		day := time.Now().UTC()
		if asOf != "" {
			t, err := time.Parse(api.DateLayout, asOf)
			if err != nil {
				return fmt.Errorf("invalid --as-of %q: want YYYY-MM-DD", asOf)
			}
			day = t
		}

		store, err := sqlite.New(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("failed to open storage: %w", err)
		}
		defer store.Close()

		count, err := worker.NewMaterializer(store, metrics.NewNop(), slog.Default()).Run(context.Background(), day)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d charge(s) recorded\n", count)
		return nil
	},
}

func init() {
	materializeCmd.Flags().StringVar(&asOf, "as-of", "", "materialize charges due on or before this day (YYYY-MM-DD)")
	rootCmd.AddCommand(materializeCmd)
}
