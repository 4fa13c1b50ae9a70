package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/masterysheet/internal/config"
	"github.com/abhisek/masterysheet/internal/store"
)

// cfg is loaded before any command runs; flags override it.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "masterysheet",
	Short: "Character sheet skill mastery editor",
	Long:  "Masterysheet — edit a character's skill mastery levels in the terminal, backed by a small HTTP service.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides MASTERY_DB env var)")
	rootCmd.PersistentFlags().String("server", "", "Backend base URL (overrides MASTERY_SERVER_URL env var)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (overrides MASTERY_LOG_LEVEL)")
	rootCmd.Flags().Uint("character", 1, "Character whose skills to edit")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(skillCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the environment and applies persistent flag overrides.
func loadConfig(cmd *cobra.Command) error {
	c, err := config.Load()
	if err != nil {
		return err
	}
	if v, _ := cmd.Flags().GetString("server"); v != "" {
		c.ServerURL = v
	}
	if v, _ := cmd.Flags().GetString("db"); v != "" {
		c.DB = v
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		c.LogLevel = v
	}
	if err := c.Validate(); err != nil {
		return err
	}
	cfg = c
	return nil
}

// resolveDBPath returns the database path using --db / MASTERY_DB
// (highest priority), then the default XDG path.
func resolveDBPath() (string, error) {
	if cfg.DB != "" {
		return cfg.DB, store.EnsureDir(cfg.DB)
	}
	return store.DefaultDBPath()
}
