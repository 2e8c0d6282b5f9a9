package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"codex/internal/driver"
	"codex/internal/watch"
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [flags] [file.c|directory]...",
		Short: "Re-check C sources whenever they change",
		Long: `Watch runs a full check once, then re-checks every changed file after
writes settle. Stop it with Ctrl-C.`,
		RunE: runWatch,
	}
	addConfigFlags(cmd)
	addReportFlags(cmd)
	cmd.Flags().Int("jobs", 1, "max files analyzed in parallel (0 = number of CPUs)")
	cmd.Flags().Bool("no-cache", false, "do not read or write the result cache")
	cmd.Flags().String("cache-dir", "", "result cache directory (default: $XDG_CACHE_HOME/codex)")
	cmd.Flags().Duration("debounce", watch.DefaultDebounce, "time to wait for writes to settle")
	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	s, err := newLintSession(cmd)
	if err != nil {
		return &exitError{code: exitFail, err: err}
	}
	logModeNotices(s.logger, s.modes)
	cleanup, err := setupProfiling(cmd, s.logger)
	if err != nil {
		return &exitError{code: exitFail, err: err}
	}
	defer cleanup()

	debounce, err := cmd.Flags().GetDuration("debounce")
	if err != nil {
		return &exitError{code: exitFail, err: fmt.Errorf("failed to get debounce flag: %w", err)}
	}

	roots := inputArgs(args)
	w, err := watch.New(roots, watch.Options{Debounce: debounce, Filter: s.filter, Logger: s.logger})
	if err != nil {
		return &exitError{code: exitFail, err: err}
	}
	defer w.Close()

	ctx := cmd.Context()
	paths, err := driver.ExpandInputs(roots, s.filter)
	if err != nil {
		return &exitError{code: exitFail, err: err}
	}
	if err := s.lintOnce(ctx, cmd, paths); err != nil {
		return err
	}
	s.logger.Info("Watching for changes", "dirs", len(w.Watched()))

	err = w.Run(ctx, func(ctx context.Context, changed []string) error {
		s.logger.Info("Change detected", "files", len(changed))
		return s.lintOnce(ctx, cmd, changed)
	})
	if err != nil {
		return &exitError{code: exitFail, err: err}
	}
	return nil
}

// lintOnce checks paths and prints the report. Only cancellation and
// output failures are returned; findings are not errors while watching.
func (s *lintSession) lintOnce(ctx context.Context, cmd *cobra.Command, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	start := time.Now()
	opts := s.opts
	opts.Progress = driver.SinkFunc(func(ev driver.Event) {
		if ev.Status == driver.StatusCached {
			s.logger.Debug("unchanged since last run", "file", ev.File)
		}
	})
	res, err := driver.Analyze(ctx, paths, opts)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		if res == nil {
			return &exitError{code: exitFail, err: err}
		}
	}
	if werr := s.writeReport(cmd, res, cmd.OutOrStdout()); werr != nil {
		return &exitError{code: exitFail, err: werr}
	}
	s.logger.Debug("check finished", "files", len(paths), "elapsed", time.Since(start))
	return nil
}
