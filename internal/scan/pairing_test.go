package scan

import (
	"testing"

	"codex/internal/diag"
)

// runPairing кормит монитор строками и возвращает коды в порядке появления.
func runPairing(t *testing.T, lines []string) ([]diag.Code, *diag.Bag) {
	t.Helper()
	bag := diag.NewBag(0)
	r := diag.BagReporter{Bag: bag}
	m := NewPairingMonitor(DefaultPairingConfig())
	for i, line := range lines {
		m.Observe(&Line{Num: uint32(i + 1), Raw: line, Clean: line}, r)
	}
	m.Finish(0, uint32(len(lines)), r)

	codes := make([]diag.Code, 0, bag.Len())
	for _, d := range bag.Items() {
		codes = append(codes, d.Code)
	}
	return codes, bag
}

func linesWithGap(gap int) []string {
	lines := []string{"Forbid();"}
	for range gap - 1 {
		lines = append(lines, "x++;")
	}
	return append(lines, "Permit();")
}

func equalCodes(a, b []diag.Code) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestPairing(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  []diag.Code
	}{
		{"balanced", []string{"Forbid();", "Permit();"}, []diag.Code{diag.InfPairUsage}},
		{"unused", []string{"foo();", "bar();"}, nil},
		{
			"unmatched enter",
			[]string{"Forbid();"},
			[]diag.Code{diag.InfPairUsage, diag.WrnPairNoLeave, diag.WrnPairUnmatchedAtEOF},
		},
		{
			"leave without enter",
			[]string{"Permit();"},
			[]diag.Code{diag.WrnPairLeaveWithoutEnter},
		},
		{
			"nested enter",
			[]string{"Forbid();", "Forbid ();", "Permit();"},
			[]diag.Code{diag.InfPairUsage, diag.WrnPairNested, diag.WrnPairCountMismatch},
		},
		{
			"leave before enter on one line",
			[]string{"Permit(); Forbid();"},
			[]diag.Code{diag.WrnPairLeaveWithoutEnter, diag.InfPairUsage, diag.WrnPairUnmatchedAtEOF},
		},
		{
			"enter then leave on one line",
			[]string{"Forbid(); x = 1; Permit();"},
			[]diag.Code{diag.InfPairUsage},
		},
		{"distance 3", linesWithGap(3), []diag.Code{diag.InfPairUsage}},
		{"distance 5", linesWithGap(5), []diag.Code{diag.InfPairUsage}},
		{"distance 7", linesWithGap(7), []diag.Code{diag.InfPairUsage, diag.WrnPairDistance}},
		{"identifier suffix ignored", []string{"MyForbid();", "NoPermit ();"}, nil},
		{"name without call ignored", []string{"p = Forbid;"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := runPairing(t, tt.lines)
			if !equalCodes(got, tt.want) {
				t.Fatalf("codes = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPairingDistanceNote(t *testing.T) {
	_, bag := runPairing(t, linesWithGap(7))
	d := bag.Items()[1]
	if d.Primary.Line != 8 {
		t.Fatalf("expected distance diagnostic on line 8, got %d", d.Primary.Line)
	}
	if len(d.Notes) != 1 || d.Notes[0].Pos.Line != 1 {
		t.Fatalf("expected note at enter line 1, got %+v", d.Notes)
	}
}

func TestPairingPositions(t *testing.T) {
	_, bag := runPairing(t, []string{"", "  Forbid();"})
	items := bag.Items()
	if items[0].Primary.Line != 2 || items[0].Primary.Col != 3 {
		t.Fatalf("unexpected usage position %v", items[0].Primary)
	}
	// WRN3013 и WRN3015 указывают на строку входа
	for _, d := range items[1:] {
		if d.Primary.Line != 2 {
			t.Fatalf("%s must point at the enter line, got %d", d.Code.ID(), d.Primary.Line)
		}
	}
}

func TestPairingCustomNames(t *testing.T) {
	m := NewPairingMonitor(PairingConfig{Enter: "Disable", Leave: "Enable", MaxDistance: 1})
	bag := diag.NewBag(0)
	r := diag.BagReporter{Bag: bag}
	m.Observe(&Line{Num: 1, Clean: "Disable();"}, r)
	m.Observe(&Line{Num: 3, Clean: "Enable();"}, r)
	if bag.Len() != 2 || bag.Items()[1].Code != diag.WrnPairDistance {
		t.Fatalf("expected usage and distance diagnostics, got %d", bag.Len())
	}
	st := m.State()
	if st.Active || st.EnterCount != 1 || st.LeaveCount != 1 || st.LeaveLine != 3 {
		t.Fatalf("unexpected state %+v", st)
	}
}

func TestPairingDefaults(t *testing.T) {
	cfg := NewPairingMonitor(PairingConfig{}).Config()
	if cfg != DefaultPairingConfig() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}
