package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the local skill database",
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		dbPath, err := resolveDBPath()
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		if !force {
			fmt.Printf("This deletes %s. Re-run with --force to confirm.\n", dbPath)
			return nil
		}
		// SQLite WAL mode keeps two sidecar files.
		for _, p := range []string{dbPath, dbPath + "-wal", dbPath + "-shm"} {
			if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("remove %s: %w", p, err)
			}
		}
		fmt.Println("Deleted", dbPath)
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("force", false, "Delete without asking")
}
