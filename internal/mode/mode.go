// Package mode models validation modes and the way they imply each other.
package mode

import (
	"fmt"
	"strings"
)

// Mode is a single validation mode.
type Mode uint16

const (
	Amiga Mode = 1 << iota
	NDK
	C89
	C99
	SASC
	VBCC
	DICE
	MemSafe
)

// All lists modes in reporting order.
var All = []Mode{Amiga, NDK, C89, C99, SASC, VBCC, DICE, MemSafe}

var modeNames = map[Mode]string{
	Amiga:   "amiga",
	NDK:     "ndk",
	C89:     "c89",
	C99:     "c99",
	SASC:    "sasc",
	VBCC:    "vbcc",
	DICE:    "dice",
	MemSafe: "memsafe",
}

var modeLabels = map[Mode]string{
	Amiga:   "Amiga",
	NDK:     "NDK",
	C89:     "C89",
	C99:     "C99",
	SASC:    "SAS/C",
	VBCC:    "VBCC",
	DICE:    "DICE",
	MemSafe: "MEMSAFE",
}

// Name is the lower-case identifier used by flags and codex.toml.
func (m Mode) Name() string {
	if n, ok := modeNames[m]; ok {
		return n
	}
	return fmt.Sprintf("mode(%d)", uint16(m))
}

// String is the human label used in summaries.
func (m Mode) String() string {
	if l, ok := modeLabels[m]; ok {
		return l
	}
	return m.Name()
}

// Parse maps a name such as "c89" or "SASC" to a Mode.
func Parse(name string) (Mode, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.ReplaceAll(n, "/", "")
	for _, m := range All {
		if modeNames[m] == n {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown validation mode %q", name)
}

// Set is a combination of modes.
type Set uint16

func Of(modes ...Mode) Set {
	var s Set
	for _, m := range modes {
		s = s.With(m)
	}
	return s
}

func (s Set) Has(m Mode) bool {
	return uint16(s)&uint16(m) != 0
}

func (s Set) With(m Mode) Set {
	return Set(uint16(s) | uint16(m))
}

func (s Set) Without(m Mode) Set {
	return Set(uint16(s) &^ uint16(m))
}

// Modes returns the members of s in reporting order.
func (s Set) Modes() []Mode {
	out := make([]Mode, 0, len(All))
	for _, m := range All {
		if s.Has(m) {
			out = append(out, m)
		}
	}
	return out
}

func (s Set) String() string {
	modes := s.Modes()
	if len(modes) == 0 {
		return "None (basic style checking only)"
	}
	labels := make([]string, len(modes))
	for i, m := range modes {
		labels[i] = m.String()
	}
	return strings.Join(labels, ", ")
}

// ParseList parses names into a Set; empty entries are skipped.
func ParseList(names []string) (Set, error) {
	var s Set
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}
		m, err := Parse(name)
		if err != nil {
			return 0, err
		}
		s = s.With(m)
	}
	return s, nil
}
