package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"codex/internal/driver"
	"codex/internal/fix"
)

func newFixCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fix [flags] [file.c|directory]...",
		Short: "Apply suggested fixes to C sources",
		Long: `Check C sources and apply the fixes attached to their diagnostics:
block comments for '//' comments, NDK types for native ones, NULL for 0 pointers.`,
		RunE: runFix,
	}
	addConfigFlags(cmd)
	cmd.Flags().Bool("all", false, "apply every available fix")
	cmd.Flags().Bool("once", false, "apply the first available fix (default)")
	cmd.Flags().String("id", "", "apply the fix with a specific identifier")
	cmd.Flags().Bool("dry-run", false, "list the fixes without writing files")
	cmd.Flags().Int("jobs", 1, "max files analyzed in parallel (0 = number of CPUs)")
	cmd.Flags().Bool("no-cache", false, "do not read or write the result cache")
	cmd.Flags().String("cache-dir", "", "result cache directory (default: $XDG_CACHE_HOME/codex)")
	return cmd
}

func readApplyOptions(cmd *cobra.Command) (fix.ApplyOptions, error) {
	applyAll, err := cmd.Flags().GetBool("all")
	if err != nil {
		return fix.ApplyOptions{}, err
	}
	applyOnce, err := cmd.Flags().GetBool("once")
	if err != nil {
		return fix.ApplyOptions{}, err
	}
	targetID, err := cmd.Flags().GetString("id")
	if err != nil {
		return fix.ApplyOptions{}, err
	}
	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return fix.ApplyOptions{}, err
	}

	if targetID != "" && (applyAll || applyOnce) {
		return fix.ApplyOptions{}, fmt.Errorf("--id cannot be combined with --all or --once")
	}
	if applyAll && applyOnce {
		return fix.ApplyOptions{}, fmt.Errorf("--all and --once are mutually exclusive")
	}

	opts := fix.ApplyOptions{Mode: fix.ApplyModeOnce, TargetID: targetID, DryRun: dryRun}
	switch {
	case targetID != "":
		opts.Mode = fix.ApplyModeID
	case applyAll:
		opts.Mode = fix.ApplyModeAll
	}
	return opts, nil
}

func runFix(cmd *cobra.Command, args []string) error {
	applyOpts, err := readApplyOptions(cmd)
	if err != nil {
		return &exitError{code: exitFail, err: err}
	}
	s, err := newLintSession(cmd)
	if err != nil {
		return &exitError{code: exitFail, err: err}
	}
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

	// фиксы нужны все, лимит вывода здесь ни при чём
	opts := s.opts
	opts.Config.Output.MaxDiagnostics = 0
	res, err := driver.Analyze(cmd.Context(), paths, opts)
	if err != nil {
		return &exitError{code: exitFail, err: err}
	}

	applied, applyErr := fix.Apply(res.FileSet, res.Bag.Items(), applyOpts)
	if perr := printApplyResult(cmd.OutOrStdout(), applied, applyOpts.DryRun); perr != nil {
		return &exitError{code: exitFail, err: perr}
	}
	if applyErr != nil && !errors.Is(applyErr, fix.ErrNoFixes) {
		return &exitError{code: exitFail, err: applyErr}
	}
	return nil
}

func printApplyResult(w io.Writer, res *fix.ApplyResult, dryRun bool) error {
	verb := "Applied"
	if dryRun {
		verb = "Would apply"
	}
	if len(res.Applied) > 0 {
		if _, err := fmt.Fprintf(w, "%s %d fix(es):\n", verb, len(res.Applied)); err != nil {
			return err
		}
		for _, item := range res.Applied {
			if _, err := fmt.Fprintf(w, "  %s [%s] %s:%d\n", item.Title, item.ID, item.Path, item.Line); err != nil {
				return err
			}
		}
	}

	if len(res.FileChanges) > 0 {
		header := "Updated files:"
		if dryRun {
			header = "Files that would change:"
		}
		if _, err := fmt.Fprintln(w, header); err != nil {
			return err
		}
		for _, change := range res.FileChanges {
			if _, err := fmt.Fprintf(w, "  %s (%d edits)\n", change.Path, change.EditCount); err != nil {
				return err
			}
		}
	}

	if len(res.Skipped) > 0 {
		if _, err := fmt.Fprintln(w, "Skipped fixes:"); err != nil {
			return err
		}
		for _, skip := range res.Skipped {
			id := skip.ID
			if id == "" {
				id = "(unnamed)"
			}
			var err error
			if skip.Title != "" {
				_, err = fmt.Fprintf(w, "  %s [%s]: %s\n", skip.Title, id, skip.Reason)
			} else {
				_, err = fmt.Fprintf(w, "  [%s]: %s\n", id, skip.Reason)
			}
			if err != nil {
				return err
			}
		}
	}

	if len(res.Applied) == 0 {
		_, err := fmt.Fprintln(w, "No applicable fixes found.")
		return err
	}
	return nil
}
