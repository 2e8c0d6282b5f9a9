package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"codex/internal/diagfmt"
	"codex/internal/mode"
	"codex/internal/project"
)

// addConfigFlags registers the flags that override codex.toml values.
func addConfigFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("config", "", "path to codex.toml (default: search upwards from the working directory)")

	f.Bool("amiga", false, "enable Amiga coding standards (implies NDK)")
	f.Bool("ndk", false, "flag NDK reserved words")
	f.Bool("c89", false, "enforce C89")
	f.Bool("c99", false, "report C99 features as compatibility warnings")
	f.Bool("sasc", false, "SAS/C compatibility (implies C89)")
	f.Bool("vbcc", false, "VBCC compatibility (implies C99)")
	f.Bool("dice", false, "DICE compatibility (implies C89 and NDK)")
	f.Bool("memsafe", false, "flag memory-unsafe library calls (implies C89)")

	f.Int("line-limit", 0, "maximum line length (0 = from config)")
	f.Int("max-depth", 0, "maximum tracked brace depth (0 = from config)")
	f.Bool("no-magic-numbers", false, "disable the magic number check")
	f.Bool("no-echo", false, "disable $CODEX: echo comments")

	f.Bool("no-pairing", false, "disable critical section pairing checks")
	f.String("pair-enter", "", "name of the call that enters a critical section")
	f.String("pair-leave", "", "name of the call that leaves a critical section")
	f.Int("pair-distance", 0, "maximum lines between enter and leave (0 = from config)")

	f.String("format", "", "output format (pretty|short|json|sarif)")
	f.String("path-mode", "", "how paths are printed (auto|absolute|relative|basename)")
}

var modeFlags = []struct {
	name string
	m    mode.Mode
}{
	{"amiga", mode.Amiga},
	{"ndk", mode.NDK},
	{"c89", mode.C89},
	{"c99", mode.C99},
	{"sasc", mode.SASC},
	{"vbcc", mode.VBCC},
	{"dice", mode.DICE},
	{"memsafe", mode.MemSafe},
}

// resolveConfig loads codex.toml (explicit or discovered) and applies the
// command line overrides on top of it.
func resolveConfig(cmd *cobra.Command, g globalFlags, logger *log.Logger) (project.Config, error) {
	f := cmd.Flags()
	explicit, err := f.GetString("config")
	if err != nil {
		return project.Config{}, fmt.Errorf("failed to get config flag: %w", err)
	}

	var cfg project.Config
	if explicit != "" {
		cfg, err = project.LoadFile(explicit)
		if err != nil {
			return project.Config{}, err
		}
		logger.Debug("config", "path", explicit)
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return project.Config{}, fmt.Errorf("failed to get working directory: %w", err)
		}
		loaded, ok, err := project.Load(wd)
		if err != nil {
			return project.Config{}, err
		}
		if ok {
			logger.Debug("config", "path", loaded.Path)
		}
		cfg = loaded.Config
	}

	// флаги режимов добавляются к режимам из файла
	modes := cfg.ModeSet()
	for _, mf := range modeFlags {
		on, err := f.GetBool(mf.name)
		if err != nil {
			return project.Config{}, fmt.Errorf("failed to get %s flag: %w", mf.name, err)
		}
		if on {
			modes = modes.With(mf.m)
		}
	}
	cfg.SetModes(modes)

	ints := []struct {
		name string
		dst  *int
	}{
		{"line-limit", &cfg.Style.LineLimit},
		{"max-depth", &cfg.Style.MaxDepth},
		{"pair-distance", &cfg.Pairing.MaxDistance},
	}
	for _, it := range ints {
		if !f.Changed(it.name) {
			continue
		}
		v, err := f.GetInt(it.name)
		if err != nil {
			return project.Config{}, fmt.Errorf("failed to get %s flag: %w", it.name, err)
		}
		*it.dst = v
	}
	if g.maxDiagnostics > 0 {
		cfg.Output.MaxDiagnostics = g.maxDiagnostics
	}

	strs := []struct {
		name string
		dst  *string
	}{
		{"pair-enter", &cfg.Pairing.Enter},
		{"pair-leave", &cfg.Pairing.Leave},
		{"format", &cfg.Output.Format},
		{"path-mode", &cfg.Output.PathMode},
	}
	for _, it := range strs {
		if !f.Changed(it.name) {
			continue
		}
		v, err := f.GetString(it.name)
		if err != nil {
			return project.Config{}, fmt.Errorf("failed to get %s flag: %w", it.name, err)
		}
		*it.dst = v
	}

	disable := []struct {
		name string
		dst  *bool
	}{
		{"no-magic-numbers", &cfg.Style.MagicNumbers},
		{"no-echo", &cfg.Style.Echo},
		{"no-pairing", &cfg.Pairing.Enabled},
	}
	for _, it := range disable {
		off, err := f.GetBool(it.name)
		if err != nil {
			return project.Config{}, fmt.Errorf("failed to get %s flag: %w", it.name, err)
		}
		if off {
			*it.dst = false
		}
	}

	if err := cfg.Validate(); err != nil {
		return project.Config{}, err
	}
	return cfg, nil
}

// logModeNotices reports implied and overridden modes.
func logModeNotices(logger *log.Logger, r mode.Resolved) {
	for _, n := range r.Notices {
		if n.Level == mode.NoticeWarning {
			logger.Warn(n.Message)
		} else {
			logger.Info(n.Message)
		}
	}
}

func pathModeOf(cfg *project.Config) diagfmt.PathMode {
	m, err := diagfmt.ParsePathMode(cfg.Output.PathMode)
	if err != nil {
		// Validate уже отсеял неизвестные значения
		return diagfmt.PathModeAuto
	}
	return m
}
