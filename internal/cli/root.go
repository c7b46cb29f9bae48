// Package cli implements the dictamen CLI commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rcliao/dictamen/internal/config"
	"github.com/rcliao/dictamen/internal/logging"
	"github.com/rcliao/dictamen/internal/store"
)

var (
	dbPath     string
	configPath string
	verbose    bool

	cfg    = config.DefaultConfig()
	logger = zap.NewNop()
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "dictamen",
	Short: "Reconcile a statute with the amendments of a dictamen",
	Long: "Applies the substitutions, incorporations, and repeals of a dictamen to the statute it amends " +
		"and prints the reconciled view. Statutes, dictámenes, and runs are kept in a SQLite database.",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default: $DICTAMEN_DB, config db, or ~/.dictamen/dictamen.db)")
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config path (default: $DICTAMEN_CONFIG or ~/.dictamen/config.yaml)")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")
}

// setup loads the config and builds the logger before any command runs.
func setup(cmd *cobra.Command, args []string) error {
	loader := config.NewLoader(nil)
	c, err := loader.Load(loader.Path(configPath))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	l, err := logging.New(c.Log.Level, c.Log.Format, verbose)
	if err != nil {
		return err
	}
	cfg, logger = c, l
	return nil
}

func getDBPath() string {
	return cfg.DBPath(dbPath)
}

func openStore() (*store.SQLiteStore, error) {
	path := getDBPath()
	logger.Debug("opening store", zap.String("path", path))
	return store.NewSQLiteStore(path)
}

func exitErr(msg string, err error) {
	logger.Sync()
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
