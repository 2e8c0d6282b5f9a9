package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"codex/internal/diagfmt"
	"codex/internal/driver"
	"codex/internal/version"
)

type reportFlags struct {
	withNotes bool
	suggest   bool
	preview   bool
	context   int
}

func addReportFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("with-notes", true, "include diagnostic notes in output")
	cmd.Flags().Bool("suggest", true, "include fix suggestions in output")
	cmd.Flags().Bool("preview", false, "show the line as it would look after each fix")
	cmd.Flags().Int("context", 0, "source lines shown above each diagnostic (pretty format)")
}

func readReportFlags(cmd *cobra.Command) (reportFlags, error) {
	var rf reportFlags
	var err error
	if rf.withNotes, err = cmd.Flags().GetBool("with-notes"); err != nil {
		return rf, fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	if rf.suggest, err = cmd.Flags().GetBool("suggest"); err != nil {
		return rf, fmt.Errorf("failed to get suggest flag: %w", err)
	}
	if rf.preview, err = cmd.Flags().GetBool("preview"); err != nil {
		return rf, fmt.Errorf("failed to get preview flag: %w", err)
	}
	if rf.context, err = cmd.Flags().GetInt("context"); err != nil {
		return rf, fmt.Errorf("failed to get context flag: %w", err)
	}
	if rf.context < 0 || rf.context > 20 {
		return rf, fmt.Errorf("--context must be between 0 and 20")
	}
	return rf, nil
}

// writeReport prints the summary and the diagnostics of res in the
// configured format. Machine formats keep stdout clean: their summary goes
// to the logger.
func (s *lintSession) writeReport(cmd *cobra.Command, res *driver.Result, w io.Writer) error {
	cfg := &s.config
	pathMode := pathModeOf(cfg)
	issues := totalIssues(res)

	summary := []string{
		"Codex analysis complete.",
		"Active validation modes: " + res.Modes.Modes.String(),
	}
	if issues > 0 {
		summary = append(summary, fmt.Sprintf("Found %d issues in %d files (%d lines processed).", issues, res.Analyzed(), res.Lines()))
	} else {
		summary = append(summary, fmt.Sprintf("No issues found in %d files (%d lines processed).", res.Analyzed(), res.Lines()))
	}

	switch cfg.Output.Format {
	case "json":
		for _, line := range summary {
			s.logger.Info(line)
		}
		err := diagfmt.JSON(w, res.Bag, res.FileSet, diagfmt.JSONOpts{
			PathMode:        pathMode,
			IncludeNotes:    s.report.withNotes,
			IncludeFixes:    s.report.suggest,
			IncludePreviews: s.report.preview,
			IncludeExcerpts: true,
		})
		if err != nil {
			return fmt.Errorf("failed to write JSON: %w", err)
		}
	case "sarif":
		for _, line := range summary {
			s.logger.Info(line)
		}
		err := diagfmt.Sarif(w, res.Bag, res.FileSet, diagfmt.SarifRunMeta{
			ToolName:       "codex",
			ToolVersion:    version.Version,
			InvocationArgs: os.Args[1:],
			PathMode:       pathMode,
		})
		if err != nil {
			return fmt.Errorf("failed to write SARIF: %w", err)
		}
	default:
		if !s.global.quiet {
			fmt.Fprintln(w)
			for _, line := range summary {
				fmt.Fprintln(w, line)
			}
			if res.Bag.Len() > 0 {
				fmt.Fprintln(w)
			}
		}
		if cfg.Output.Format == "short" {
			diagfmt.Short(w, res.Bag, res.FileSet, pathMode)
		} else {
			diagfmt.Pretty(w, res.Bag, res.FileSet, diagfmt.PrettyOpts{
				Color:       s.global.color,
				Context:     int8(s.report.context),
				PathMode:    pathMode,
				ShowNotes:   s.report.withNotes,
				ShowFixes:   s.report.suggest,
				ShowPreview: s.report.preview,
			})
		}
	}

	s.logger.Debug("report",
		"errors", res.Bag.HasErrors(),
		"warnings", res.Bag.HasWarnings(),
		"by_kind", res.Bag.CountByKind(),
		"dropped", res.Bag.Dropped())

	if s.global.timings {
		if err := s.writeTimings(cmd.ErrOrStderr(), res, cfg.Output.Format); err != nil {
			return fmt.Errorf("failed to write timings: %w", err)
		}
	}
	return nil
}

// writeTimings keeps machine formats machine-readable on stderr too.
func (s *lintSession) writeTimings(w io.Writer, res *driver.Result, format string) error {
	if format != "json" && format != "sarif" {
		return res.WriteTimings(w)
	}
	data, err := res.TimingsJSON()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}
