package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"codex/internal/version"
)

// Exit codes shared with the Amiga tool: 0 clean, 5 issues, 20 failure.
const (
	exitOK     = 0
	exitIssues = 5
	exitFail   = 20
)

// exitError carries a process exit code through cobra.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "codex",
		Short:         "Static line-oriented checker for C sources",
		Long:          `Codex checks C sources for C89/C99 conformance, Amiga NDK conventions and compiler compatibility`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Глобальные флаги
	root.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	root.PersistentFlags().Bool("quiet", false, "print diagnostics only, no summary or notices")
	root.PersistentFlags().Bool("verbose", false, "enable debug logging")
	root.PersistentFlags().Bool("timings", false, "show timing information")
	root.PersistentFlags().Int("max-diagnostics", 0, "maximum number of diagnostics to keep (0 = from config)")
	root.PersistentFlags().String("cpu-profile", "", "write a CPU profile to this file")
	root.PersistentFlags().String("mem-profile", "", "write a heap profile to this file on exit")
	root.PersistentFlags().String("runtime-trace", "", "write a runtime trace to this file")

	root.AddCommand(newLintCmd())
	root.AddCommand(newFixCmd())
	root.AddCommand(newSanitizeCmd())
	root.AddCommand(newWatchCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newCleanCmd())
	root.AddCommand(newVersionCmd())
	return root
}

// main runs the root command and maps its error to an exit code.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, newRootCmd(), os.Args[1:])
	stop()
	os.Exit(code)
}

func execute(ctx context.Context, root *cobra.Command, args []string) int {
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		if ee.err != nil {
			fmt.Fprintf(root.ErrOrStderr(), "codex: %v\n", ee.err)
		}
		return ee.code
	}
	fmt.Fprintf(root.ErrOrStderr(), "codex: %v\n", err)
	return exitFail
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
