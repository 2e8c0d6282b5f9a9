package diag

import (
	"strings"
	"testing"

	"codex/internal/source"
)

func TestReportBuilderEmitsOnce(t *testing.T) {
	bag := NewBag(10)
	counter := &CountingReporter{Next: BagReporter{Bag: bag}}

	b := Report(counter, WrnPairDistance, source.At(0, 9, 1), "too far").
		WithNote(source.At(0, 2, 1), "entered here").
		WithExcerpt("Permit();")
	b.Emit()
	b.Emit()

	if counter.Count != 1 || bag.Len() != 1 {
		t.Fatalf("expected one emission, got count=%d len=%d", counter.Count, bag.Len())
	}
	d := bag.Items()[0]
	if d.Severity != SevWarning {
		t.Fatalf("expected default warning severity, got %s", d.Severity)
	}
	if len(d.Notes) != 1 || d.Notes[0].Pos.Line != 2 {
		t.Fatalf("unexpected notes: %+v", d.Notes)
	}
	if d.Excerpt != "Permit();" {
		t.Fatalf("unexpected excerpt %q", d.Excerpt)
	}
}

func TestNilBuilderIsSafe(t *testing.T) {
	var b *ReportBuilder
	b.WithNote(source.Pos{}, "x").WithFix("t", "a", "b").WithExcerpt("y").Emit()
	if d := b.Diagnostic(); d.Code != UnknownCode {
		t.Fatalf("expected zero diagnostic, got %+v", d)
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(0)
	r := NewDedupReporter(BagReporter{Bag: bag})

	d := New(SevWarning, CmpNDKReserved, source.At(1, 4, 1), "reserved")
	r.Report(d)
	r.Report(d)
	d.Message = "other"
	r.Report(d)

	if bag.Len() != 2 {
		t.Fatalf("expected 2 diagnostics, got %d", bag.Len())
	}
}

func TestExcerpt(t *testing.T) {
	short := strings.Repeat("a", ExcerptLimit)
	if got := Excerpt(short); got != short {
		t.Fatal("line at the limit must be kept intact")
	}

	long := strings.Repeat("b", ExcerptLimit+1)
	got := Excerpt(long)
	if len(got) != ExcerptLimit {
		t.Fatalf("expected %d bytes, got %d", ExcerptLimit, len(got))
	}
	if !strings.HasSuffix(got, "...") || got[:ExcerptLimit-3] != long[:ExcerptLimit-3] {
		t.Fatalf("unexpected excerpt %q", got)
	}
}

func TestCodeKinds(t *testing.T) {
	tests := []struct {
		code Code
		id   string
		kind Kind
		sev  Severity
	}{
		{SynLineComment, "SYN1001", KindSyntax, SevError},
		{StyMagicNumber, "STY2001", KindStyle, SevWarning},
		{WrnUnterminatedComment, "WRN3001", KindWarning, SevWarning},
		{CmpSASC, "CMP4002", KindCompiler, SevWarning},
		{InfEcho, "INF5001", KindComment, SevInfo},
		{LimTooManyDiagnostics, "LIM6001", KindLimit, SevWarning},
		{IOReadFailed, "IO7001", KindIO, SevError},
		{UnknownCode, "E0000", KindUnknown, SevWarning},
	}
	for _, tt := range tests {
		if got := tt.code.ID(); got != tt.id {
			t.Errorf("%d: ID() = %s, want %s", tt.code, got, tt.id)
		}
		if got := tt.code.Kind(); got != tt.kind {
			t.Errorf("%s: Kind() = %s, want %s", tt.id, got, tt.kind)
		}
		if got := tt.code.DefaultSeverity(); got != tt.sev {
			t.Errorf("%s: DefaultSeverity() = %s, want %s", tt.id, got, tt.sev)
		}
	}
	if SynDeclAfterStatement.Title() == UnknownCode.Title() {
		t.Error("every declared code needs a description")
	}
}
