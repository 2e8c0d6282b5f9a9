package mode

// NoticeLevel says how loudly a resolution notice should be shown.
type NoticeLevel uint8

const (
	NoticeInfo NoticeLevel = iota
	NoticeWarning
)

// Notice explains an implied or overridden mode.
type Notice struct {
	Level   NoticeLevel
	Message string
}

// Resolved is the effective configuration after applying mode dependencies.
type Resolved struct {
	Requested Set
	Modes     Set
	// Compat enables compiler compatibility checks.
	Compat bool
	// PascalCase enforces PascalCase function names (Amiga).
	PascalCase bool
	Notices    []Notice
}

// Resolve applies mode dependencies to the requested set:
//
//   - SASC implies C89 and turns C99 off.
//   - VBCC implies C99 and turns C89 off.
//   - AMIGA implies NDK.
//   - DICE implies C89 and NDK.
//   - MEMSAFE implies C89.
//   - With neither C89 nor C99 left, C89 is the default.
func Resolve(requested Set) Resolved {
	res := Resolved{Requested: requested, Modes: requested}
	info := func(msg string) {
		res.Notices = append(res.Notices, Notice{Level: NoticeInfo, Message: msg})
	}
	warn := func(msg string) {
		res.Notices = append(res.Notices, Notice{Level: NoticeWarning, Message: msg})
	}

	s := requested
	if s.Has(SASC) {
		if s.Has(C99) {
			warn("SAS/C mode overrides C99 mode (SAS/C is C89-only)")
		}
		s = s.With(C89).Without(C99)
		res.Compat = true
	}
	if s.Has(VBCC) {
		if s.Has(C89) {
			warn("VBCC mode overrides C89 mode (VBCC supports C99)")
		}
		s = s.With(C99).Without(C89)
		res.Compat = true
	}
	if s.Has(Amiga) {
		if !s.Has(NDK) {
			info("Amiga mode enables NDK validation")
		}
		s = s.With(NDK)
		res.PascalCase = true
		res.Compat = true
	}
	if s.Has(DICE) {
		if !s.Has(C89) {
			info("DICE mode enables C89 validation")
		}
		if !s.Has(NDK) {
			info("DICE mode enables NDK validation")
		}
		s = s.With(C89).With(NDK)
		res.Compat = true
	}
	if s.Has(NDK) {
		res.Compat = true
	}
	if s.Has(MemSafe) {
		if !s.Has(C89) {
			info("MEMSAFE mode enables C89 validation")
		}
		s = s.With(C89)
	}
	if !s.Has(C89) && !s.Has(C99) {
		s = s.With(C89)
	}

	res.Modes = s
	return res
}

// Has reports whether m is active after resolution.
func (r Resolved) Has(m Mode) bool {
	return r.Modes.Has(m)
}

// FlagLineComments reports whether "//" comments are errors: C89 without
// SAS/C, which accepts them.
func (r Resolved) FlagLineComments() bool {
	return r.Modes.Has(C89) && !r.Modes.Has(SASC)
}

// DeclPlacement reports whether declarations must precede statements.
func (r Resolved) DeclPlacement() bool {
	return r.Modes.Has(C89)
}
