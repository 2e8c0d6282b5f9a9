package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"codex/internal/driver"
)

func newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove cached analysis results",
		Long:  "Remove every entry of the result cache used by lint, fix and watch.",
		Args:  cobra.NoArgs,
		RunE:  runClean,
	}
	cmd.Flags().String("cache-dir", "", "result cache directory (default: $XDG_CACHE_HOME/codex)")
	return cmd
}

func runClean(cmd *cobra.Command, _ []string) error {
	dir, err := cmd.Flags().GetString("cache-dir")
	if err != nil {
		return &exitError{code: exitFail, err: fmt.Errorf("failed to get cache-dir flag: %w", err)}
	}
	var cache *driver.DiskCache
	if dir != "" {
		cache, err = driver.OpenDiskCacheAt(dir)
	} else {
		cache, err = driver.OpenDiskCache("codex")
	}
	if err != nil {
		return &exitError{code: exitFail, err: fmt.Errorf("failed to open cache: %w", err)}
	}
	if err := cache.DropAll(); err != nil {
		return &exitError{code: exitFail, err: fmt.Errorf("failed to clean cache: %w", err)}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "removed cached results from %s\n", cache.Dir())
	return nil
}
