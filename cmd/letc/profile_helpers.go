package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"letc/internal/prof"
)

// setupProfiling starts the profiles requested by the persistent flags.
// The cleanup is safe to call more than once.
func setupProfiling(cmd *cobra.Command) (func(), error) {
	flags := cmd.Root().PersistentFlags()

	cpuProfile, err := flags.GetString("cpu-profile")
	if err != nil {
		return nil, fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	memProfile, err := flags.GetString("mem-profile")
	if err != nil {
		return nil, fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	tracePath, err := flags.GetString("runtime-trace")
	if err != nil {
		return nil, fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}

	cfg := prof.Config{CPU: cpuProfile, Mem: memProfile, RuntimeTrace: tracePath}
	if !cfg.Enabled() {
		return func() {}, nil
	}
	session, err := prof.Start(cfg)
	if err != nil {
		return nil, err
	}

	cleaned := false
	return func() {
		if cleaned {
			return
		}
		cleaned = true
		if err := session.Stop(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "profile: %v\n", err)
		}
	}, nil
}

// setupSession starts tracing and profiling for one command run.
func setupSession(cmd *cobra.Command) (func(), error) {
	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return nil, err
	}
	stopTracing, err := setupTracing(cmd)
	if err != nil {
		stopProfiling()
		return nil, err
	}
	return func() {
		stopTracing()
		stopProfiling()
	}, nil
}
