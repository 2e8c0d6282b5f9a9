package main

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"codex/internal/prof"
)

// setupProfiling starts the profiles requested by the persistent profiling
// flags. The returned cleanup is safe to call more than once.
func setupProfiling(cmd *cobra.Command, logger *log.Logger) (func(), error) {
	root := cmd.Root()

	var paths prof.Paths
	var err error
	if paths.CPU, err = root.PersistentFlags().GetString("cpu-profile"); err != nil {
		return nil, fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	if paths.Mem, err = root.PersistentFlags().GetString("mem-profile"); err != nil {
		return nil, fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	if paths.Trace, err = root.PersistentFlags().GetString("runtime-trace"); err != nil {
		return nil, fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}

	p, err := prof.Start(paths)
	if err != nil {
		return nil, err
	}
	if p.Active() {
		logger.Debug("profiling", "cpu", paths.CPU, "mem", paths.Mem, "trace", paths.Trace)
	}
	return func() {
		if err := p.Stop(); err != nil {
			logger.Error("failed to write profile", "err", err)
		}
	}, nil
}
