package rules

import (
	"codex/internal/mode"
	"codex/internal/scan"
)

// Config selects the rule checkers for a run.
type Config struct {
	Modes mode.Resolved
	// LineLimit is the maximum line length; 0 selects DefaultLineLimit.
	LineLimit    int
	MagicNumbers bool
	Echo         bool
}

func DefaultConfig(modes mode.Resolved) Config {
	return Config{Modes: modes, LineLimit: DefaultLineLimit, MagicNumbers: true, Echo: true}
}

// Build returns the checkers enabled by cfg in the order they run:
// echo, c89, c99, amiga, ndk, sasc, vbcc, dice, memsafe, magic numbers,
// line length. Echo wraps the checker that follows it.
func Build(cfg Config) []scan.Checker {
	var out []scan.Checker
	m := cfg.Modes
	if m.Has(mode.C89) {
		out = append(out, C89Checker{})
	}
	if m.Has(mode.C99) {
		out = append(out, C99Checker{})
	}
	if m.Has(mode.Amiga) {
		out = append(out, AmigaChecker{PascalCase: m.PascalCase})
	}
	if m.Has(mode.NDK) {
		out = append(out, NDKChecker{})
	}
	if m.Has(mode.SASC) {
		out = append(out, NewSASCChecker())
	}
	if m.Has(mode.VBCC) {
		out = append(out, NewVBCCChecker())
	}
	if m.Has(mode.DICE) {
		out = append(out, NewDICEChecker())
	}
	if m.Has(mode.MemSafe) {
		out = append(out, MemSafeChecker{})
	}
	if cfg.MagicNumbers {
		out = append(out, MagicNumberChecker{})
	}
	out = append(out, LineLengthChecker{Limit: cfg.LineLimit})
	if cfg.Echo {
		out[0] = EchoChecker{Then: out[0]}
	}
	return out
}

// Names lists the names of checkers.
func Names(checkers []scan.Checker) []string {
	names := make([]string, len(checkers))
	for i, c := range checkers {
		names[i] = c.Name()
	}
	return names
}
