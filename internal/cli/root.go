package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmccallister93/take-action/internal/clock"
	"github.com/jmccallister93/take-action/internal/config"
	"github.com/jmccallister93/take-action/internal/engine"
	"github.com/jmccallister93/take-action/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "take-action",
	Short: "Track skill categories that decay when neglected",
	Long:  "Take Action tracks self-defined skill categories and stats. Points accumulate from logged activities and erode automatically when a stat is neglected. Single Go binary, local SQLite storage.",
}

var configPath string

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.take-action/config.toml)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(decayCmd)
}

// openEngine loads config, opens the database, and restores a ready engine.
// CLI commands run their mutation, save synchronously, and exit.
func openEngine() (*engine.Engine, *store.DB, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	dbPath := cfg.Database.Path
	if dbPath == "" {
		dbPath, err = store.DefaultDBPath()
		if err != nil {
			return nil, nil, fmt.Errorf("resolve db path: %w", err)
		}
	}

	db, err := store.Open(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}

	eng := engine.New(db, clock.System{})
	eng.Load()
	return eng, db, nil
}
