package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"codex/internal/driver"
	"codex/internal/mode"
	"codex/internal/project"
)

func newLintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lint [flags] [file.c|directory]...",
		Short: "Check C sources",
		Long: `Check C sources line by line. Directories are searched for files with
the configured extensions; without arguments the current directory is checked.`,
		RunE: runLint,
	}
	addConfigFlags(cmd)
	addReportFlags(cmd)
	cmd.Flags().Int("jobs", 1, "max files analyzed in parallel (0 = number of CPUs)")
	cmd.Flags().Bool("no-cache", false, "do not read or write the result cache")
	cmd.Flags().String("cache-dir", "", "result cache directory (default: $XDG_CACHE_HOME/codex)")
	cmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	return cmd
}

// lintSession bundles what lint and watch share for one set of inputs.
type lintSession struct {
	global globalFlags
	report reportFlags
	config project.Config
	modes  mode.Resolved
	filter driver.FileFilter
	opts   driver.Options
	logger *log.Logger
}

func newLintSession(cmd *cobra.Command) (*lintSession, error) {
	g, err := readGlobalFlags(cmd)
	if err != nil {
		return nil, err
	}
	logger := newLogger(cmd, g)

	cfg, err := resolveConfig(cmd, g, logger)
	if err != nil {
		return nil, err
	}
	var rf reportFlags
	if cmd.Flags().Lookup("with-notes") != nil {
		if rf, err = readReportFlags(cmd); err != nil {
			return nil, err
		}
	}

	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return nil, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if jobs < 0 {
		return nil, fmt.Errorf("--jobs must not be negative")
	}
	if jobs == 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	cache, err := openCache(cmd, logger)
	if err != nil {
		return nil, err
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	s := &lintSession{
		global: g,
		report: rf,
		config: cfg,
		modes:  mode.Resolve(cfg.ModeSet()),
		filter: driver.FileFilter{Extensions: cfg.Files.Extensions, Exclude: cfg.Files.Exclude},
		logger: logger,
	}
	s.opts = driver.Options{
		Config:  cfg,
		Jobs:    jobs,
		Cache:   cache,
		Logger:  logger,
		BaseDir: wd,
	}
	return s, nil
}

func openCache(cmd *cobra.Command, logger *log.Logger) (*driver.DiskCache, error) {
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return nil, fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	if noCache {
		return nil, nil
	}
	dir, err := cmd.Flags().GetString("cache-dir")
	if err != nil {
		return nil, fmt.Errorf("failed to get cache-dir flag: %w", err)
	}
	var cache *driver.DiskCache
	if dir != "" {
		cache, err = driver.OpenDiskCacheAt(dir)
	} else {
		cache, err = driver.OpenDiskCache("codex")
	}
	if err != nil {
		// без кэша анализ всё равно возможен
		logger.Warn("result cache disabled", "err", err)
		return nil, nil
	}
	logger.Debug("result cache", "dir", cache.Dir())
	return cache, nil
}

func inputArgs(args []string) []string {
	if len(args) == 0 {
		return []string{"."}
	}
	return args
}

func runLint(cmd *cobra.Command, args []string) error {
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

	paths, err := driver.ExpandInputs(inputArgs(args), s.filter)
	if err != nil {
		return &exitError{code: exitFail, err: err}
	}
	if len(paths) == 0 {
		return &exitError{code: exitFail, err: errors.New("no input files found")}
	}

	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return &exitError{code: exitFail, err: fmt.Errorf("failed to get ui flag: %w", err)}
	}
	uim, err := readUIMode(uiFlag)
	if err != nil {
		return &exitError{code: exitFail, err: err}
	}

	ctx := cmd.Context()
	var res *driver.Result
	if !s.global.quiet && shouldUseTUI(uim) {
		opts := s.opts
		// во время TUI строки "Analyzing" только мешают
		opts.Logger = s.logger.With()
		opts.Logger.SetLevel(log.WarnLevel)
		res, err = runAnalyzeWithUI(ctx, "codex lint", paths, opts)
	} else {
		res, err = driver.Analyze(ctx, paths, s.opts)
	}
	if err != nil && res == nil {
		return &exitError{code: exitFail, err: err}
	}
	if err != nil {
		s.logger.Warn("analysis stopped early", "err", err)
	}

	if werr := s.writeReport(cmd, res, cmd.OutOrStdout()); werr != nil {
		return &exitError{code: exitFail, err: werr}
	}
	return s.exitFor(res, err)
}

// exitFor maps a finished run to the process exit code.
func (s *lintSession) exitFor(res *driver.Result, runErr error) error {
	switch {
	case runErr != nil && errors.Is(runErr, context.Canceled):
		return &exitError{code: exitFail}
	case len(res.Files) > 0 && res.Analyzed() == 0:
		return &exitError{code: exitFail, err: errors.New("no readable input files")}
	case totalIssues(res) > 0:
		return &exitError{code: exitIssues}
	}
	return nil
}

func totalIssues(res *driver.Result) int {
	n := 0
	for i := range res.Files {
		n += res.Files[i].Issues
	}
	return n
}
