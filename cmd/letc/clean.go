package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"letc/internal/driver"
)

func newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Remove the on-disk program cache",
		Args:  cobra.NoArgs,
		RunE:  runClean,
	}
}

func runClean(cmd *cobra.Command, _ []string) error {
	dir, err := driver.CacheDir()
	if err != nil {
		return err
	}
	cache, err := driver.OpenDiskCache(dir)
	if err != nil {
		return err
	}
	if err := cache.DropAll(); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "cleared %s\n", cache.Dir())
	}
	return nil
}
