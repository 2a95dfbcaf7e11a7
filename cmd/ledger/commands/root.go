package commands

import (
	"io"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mmynk/duoledger/internal/config"
	"github.com/mmynk/duoledger/pkg/logging"
)

var (
	envFile string
	dbPath  string
	cfg     *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Shared expense ledger for couples and roommates",
	Long: `ledger records shared expenses between partners or roommates, keeps
a running balance per person and tells who owes whom.

Settings are read from the environment (and an optional .env file).
Flags override the matching variables.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initialize(cmd.Flags().Changed("db"), cmd.ErrOrStderr())
	},
}

// initialize loads the environment and config and installs the default
// logger writing to w.
func initialize(dbFlagSet bool, w io.Writer) {
	envErr := godotenv.Load(envFile)

	cfg = config.Load()
	if dbFlagSet {
		cfg.DBPath = dbPath
	}
	slog.SetDefault(logging.New(w, cfg.LogLevel, cfg.LogFormat))

	// A missing .env file is normal outside local development.
	if envErr != nil {
		slog.Debug("No env file loaded", "path", envFile, "error", envErr)
	}
}

// Execute adds all child commands to the root command and runs it.
// This is called by main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (overrides DB_PATH)")
}
