package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

type globalFlags struct {
	color          bool
	quiet          bool
	verbose        bool
	timings        bool
	maxDiagnostics int
}

func readGlobalFlags(cmd *cobra.Command) (globalFlags, error) {
	var g globalFlags
	flags := cmd.Root().PersistentFlags()

	colorFlag, err := flags.GetString("color")
	if err != nil {
		return g, fmt.Errorf("failed to get color flag: %w", err)
	}
	if g.quiet, err = flags.GetBool("quiet"); err != nil {
		return g, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if g.verbose, err = flags.GetBool("verbose"); err != nil {
		return g, fmt.Errorf("failed to get verbose flag: %w", err)
	}
	if g.timings, err = flags.GetBool("timings"); err != nil {
		return g, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if g.maxDiagnostics, err = flags.GetInt("max-diagnostics"); err != nil {
		return g, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if g.maxDiagnostics < 0 {
		return g, fmt.Errorf("--max-diagnostics must not be negative")
	}

	switch strings.ToLower(colorFlag) {
	case "on", "always":
		g.color = true
	case "off", "never":
		g.color = false
	case "auto", "":
		g.color = writerIsTerminal(cmd.OutOrStdout())
	default:
		return g, fmt.Errorf("invalid --color value %q (expected auto|on|off)", colorFlag)
	}
	return g, nil
}

func writerIsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isTerminal(f)
}

// newLogger builds the stderr logger: info by default, error with --quiet,
// debug with --verbose.
func newLogger(cmd *cobra.Command, g globalFlags) *log.Logger {
	level := log.InfoLevel
	switch {
	case g.verbose:
		level = log.DebugLevel
	case g.quiet:
		level = log.ErrorLevel
	}
	return log.NewWithOptions(cmd.ErrOrStderr(), log.Options{
		Prefix:          "codex",
		Level:           level,
		ReportTimestamp: g.verbose,
	})
}
