package diag

import (
	"testing"

	"codex/internal/source"
)

func warningAt(line uint32) Diagnostic {
	return New(SevWarning, StyMagicNumber, source.At(0, line, 1), "magic")
}

func TestBagOverflowAddsSingleNotice(t *testing.T) {
	const capacity = 5
	b := NewBag(capacity)

	for i := range 12 {
		added := b.Add(warningAt(uint32(i + 1)))
		if want := i < capacity; added != want {
			t.Fatalf("Add #%d returned %v, want %v", i, added, want)
		}
	}

	if b.Len() != capacity+1 {
		t.Fatalf("expected %d items, got %d", capacity+1, b.Len())
	}
	last := b.Items()[b.Len()-1]
	if last.Code != LimTooManyDiagnostics {
		t.Fatalf("expected overflow notice last, got %s", last.Code.ID())
	}
	if !b.Overflowed() {
		t.Fatal("expected Overflowed() to be true")
	}
	if b.Dropped() != 7 {
		t.Fatalf("expected 7 dropped diagnostics, got %d", b.Dropped())
	}

	notices := 0
	for _, d := range b.Items() {
		if d.Code == LimTooManyDiagnostics {
			notices++
		}
	}
	if notices != 1 {
		t.Fatalf("expected exactly one overflow notice, got %d", notices)
	}
}

func TestBagUnbounded(t *testing.T) {
	b := NewBag(0)
	for i := range 2500 {
		if !b.Add(warningAt(uint32(i + 1))) {
			t.Fatalf("unbounded bag rejected item %d", i)
		}
	}
	if b.Len() != 2500 || b.Overflowed() {
		t.Fatalf("unexpected state: len=%d overflowed=%v", b.Len(), b.Overflowed())
	}
}

func TestBagSeverityQueries(t *testing.T) {
	b := NewBag(10)
	b.Add(New(SevInfo, InfEcho, source.At(0, 1, 1), "echo"))
	if b.HasWarnings() || b.HasErrors() {
		t.Fatal("info-only bag must not report warnings or errors")
	}
	b.Add(New(SevError, SynLineComment, source.At(0, 2, 3), "comment"))
	if !b.HasWarnings() || !b.HasErrors() {
		t.Fatal("expected error to count as warning and error")
	}

	counts := b.CountByKind()
	if counts[KindComment] != 1 || counts[KindSyntax] != 1 {
		t.Fatalf("unexpected kind counts: %v", counts)
	}
}

func TestBagSortAndDedup(t *testing.T) {
	b := NewBag(0)
	b.Add(warningAt(3))
	b.Add(warningAt(1))
	b.Add(warningAt(3))
	b.Sort()
	b.Dedup()

	items := b.Items()
	if len(items) != 2 {
		t.Fatalf("expected 2 items after dedup, got %d", len(items))
	}
	if items[0].Primary.Line != 1 || items[1].Primary.Line != 3 {
		t.Fatalf("unexpected order: %v, %v", items[0].Primary, items[1].Primary)
	}
}
