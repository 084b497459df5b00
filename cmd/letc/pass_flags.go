package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"letc/internal/project"
)

// passOptionsFromFlags applies the pass flags the user set explicitly on
// top of base, which comes from letc.toml or the defaults.
func passOptionsFromFlags(cmd *cobra.Command, base project.PassOptions) (project.PassOptions, error) {
	flags := cmd.Flags()
	opts := base
	if flags.Lookup("let") != nil && flags.Changed("let") {
		mode, err := flags.GetString("let")
		if err != nil {
			return opts, fmt.Errorf("failed to get let flag: %w", err)
		}
		parsed, err := project.PassesConfig{Let: mode}.Options()
		if err != nil {
			return opts, fmt.Errorf("invalid --let value: %w", err)
		}
		opts.Resolve = parsed.Resolve
	}
	if flags.Lookup("hoisted-first") != nil && flags.Changed("hoisted-first") {
		hoisted, err := flags.GetBool("hoisted-first")
		if err != nil {
			return opts, fmt.Errorf("failed to get hoisted-first flag: %w", err)
		}
		opts.Flatten.HoistedFirst = hoisted
	}
	if flags.Lookup("verify") != nil && flags.Changed("verify") {
		verify, err := flags.GetBool("verify")
		if err != nil {
			return opts, fmt.Errorf("failed to get verify flag: %w", err)
		}
		opts.Verify = verify
	}
	return opts, nil
}
