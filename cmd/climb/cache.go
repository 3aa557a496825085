package climb

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/nextlevelbuilder/climb/internal/discovery"
)

func defaultCacheDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "climb"), nil
}

// cacheCmd groups the discovery-cache inspection subcommands (SPEC_FULL.md
// S2): a thin CLI convenience over discovery, not a new core capability.
func cacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the on-disk discovery cache",
	}
	cmd.AddCommand(cacheShowCmd())
	cmd.AddCommand(cacheClearCmd())
	return cmd
}

func cacheShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the discovery cache's age, PATH-hash status, and entry count",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := defaultCacheDir()
			if err != nil {
				return err
			}
			snap, ok := discovery.Peek(dir, os.Getenv("PATH"))
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "no discovery cache on disk")
				return nil
			}

			age := time.Since(snap.Timestamp).Round(time.Second)
			status := "stale (PATH changed)"
			if snap.PathMatches {
				status = "matches current PATH"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "age:      %s\n", age)
			fmt.Fprintf(cmd.OutOrStdout(), "path:     %s\n", status)
			fmt.Fprintf(cmd.OutOrStdout(), "entries:  %d\n", snap.EntryCount)
			return nil
		},
	}
}

func cacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete the discovery cache, forcing a fresh scan next time",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := defaultCacheDir()
			if err != nil {
				return err
			}
			path := discovery.CachePath(dir)
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "discovery cache cleared")
			return nil
		},
	}
}
