package diag

import (
	"fmt"
	"sort"
)

// DefaultCapacity is the number of diagnostics a run keeps before
// switching to overflow mode.
const DefaultCapacity = 1000

// Bag is an append-only diagnostic store. A positive max bounds it: once
// max diagnostics are stored, one LIM6001 notice is appended and every
// later diagnostic is dropped. max <= 0 means unbounded.
type Bag struct {
	items      []Diagnostic
	max        int
	overflowed bool
	dropped    int
}

func NewBag(max int) *Bag {
	capHint := max
	if capHint <= 0 || capHint > 64 {
		capHint = 64
	}
	return &Bag{
		items: make([]Diagnostic, 0, capHint),
		max:   max,
	}
}

// Add добавляет диагностику, учитывая лимит.
// Возвращает false, если диагностика не добавлена (достигнут лимит).
func (b *Bag) Add(d Diagnostic) bool {
	if b.max > 0 && len(b.items) >= b.max {
		b.dropped++
		if !b.overflowed {
			b.overflowed = true
			b.items = append(b.items, Diagnostic{
				Severity: SevWarning,
				Code:     LimTooManyDiagnostics,
				Primary:  d.Primary,
				Message:  fmt.Sprintf("Maximum diagnostic count (%d) reached. Further diagnostics will be ignored.", b.max),
			})
		}
		return false
	}
	b.items = append(b.items, d)
	return true
}

// Cap returns the configured capacity (0 when unbounded).
func (b *Bag) Cap() int {
	if b.max < 0 {
		return 0
	}
	return b.max
}

// Overflowed reports whether the overflow notice has been recorded.
func (b *Bag) Overflowed() bool {
	return b.overflowed
}

// Dropped returns how many diagnostics were discarded after overflow.
func (b *Bag) Dropped() int {
	return b.dropped
}

// HasErrors возвращает true, если есть хотя бы одна диагностика с Severity >= Error
func (b *Bag) HasErrors() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			return true
		}
	}
	return false
}

// HasWarnings возвращает true, если есть хотя бы одна диагностика с Severity >= Warning
func (b *Bag) HasWarnings() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevWarning {
			return true
		}
	}
	return false
}

// длина
func (b *Bag) Len() int {
	return len(b.items)
}

// Items возвращает read-only slice диагностик.
// ВАЖНО: не модифицируйте возвращаемый срез! (он указывает на внутренний массив Bag)
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Pointers returns pointers into the bag, in insertion order, for the formatters.
func (b *Bag) Pointers() []*Diagnostic {
	out := make([]*Diagnostic, len(b.items))
	for i := range b.items {
		out[i] = &b.items[i]
	}
	return out
}

// CountByKind tallies stored diagnostics per kind.
func (b *Bag) CountByKind() map[Kind]int {
	out := make(map[Kind]int)
	for i := range b.items {
		out[b.items[i].Code.Kind()]++
	}
	return out
}

// Sort сортирует диагностики по: file, line, column, severity (desc), code (asc)
// для стабильного и детерминированного порядка вывода.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		if di.Primary != dj.Primary {
			return di.Primary.Less(dj.Primary)
		}
		// затем по severity (по убыванию: Error > Warning > Info)
		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}
		return di.Code < dj.Code
	})
}

// простая дедупликация (по Code+Primary)
func (b *Bag) Dedup() {
	seen := make(map[string]bool)
	newitems := make([]Diagnostic, 0, len(b.items))
	for _, d := range b.items {
		key := fmt.Sprintf("%s:%s", d.Code.ID(), d.Primary.String())
		if seen[key] {
			continue
		}
		seen[key] = true
		newitems = append(newitems, d)
	}
	b.items = newitems
}
