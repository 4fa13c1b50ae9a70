package cmd

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/abhisek/masterysheet/internal/app"
	"github.com/abhisek/masterysheet/internal/client"
	"github.com/abhisek/masterysheet/internal/logging"
	"github.com/abhisek/masterysheet/internal/screens/skillsheet"
)

// runApp builds the backend client and launches the TUI.
func runApp(cmd *cobra.Command) error {
	characterID, _ := cmd.Flags().GetUint("character")
	if characterID == 0 {
		return fmt.Errorf("--character must be a positive id")
	}

	// The TUI owns the terminal, so logs only go to MASTERY_LOG_FILE.
	logger, err := logging.NewFile(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	c := client.New(cfg.ServerURL)
	root := skillsheet.New(characterID, c, skillsheet.Options{
		Logger:  logger,
		Timeout: cfg.RequestTimeout,
		Updater: client.WithLogging(c, logger),
	})

	status := cfg.ServerURL
	if u, err := url.Parse(cfg.ServerURL); err == nil {
		status = u.Host
	}
	return app.Run(root, status)
}
