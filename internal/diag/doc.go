// Package diag defines the diagnostic model shared by the scanner, the rule
// checkers and the driver.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity: Info, Warning or Error (severity.go).
//   - Code: compact numeric identifier with a stable string form such as
//     SYN1002. The thousands digit selects the Kind (syntax, style, warning,
//     compiler compatibility, comment echo, limit, io).
//   - Message: short, human oriented text.
//   - Primary: source.Pos with 1-based line and column.
//   - Excerpt: the offending line, at most ExcerptLimit bytes.
//   - Notes: optional secondary positions, e.g. where a critical section
//     was entered.
//   - Fixes: optional textual replacements (old -> new).
//
// # Emitting diagnostics
//
// Producers talk to a Reporter. ReportBuilder (Report, ReportError,
// ReportWarning, ReportInfo) lets them chain WithExcerpt / WithNote / WithFix
// before calling Emit. CountingReporter tells a line driver whether a check
// produced anything, which is how "first diagnostic wins" is enforced.
//
// # Storage
//
// Bag is append-only and optionally bounded. When the bound is reached a
// single LIM6001 notice is stored and everything after it is dropped, so
// Len never exceeds Cap()+1.
//
// Package diag does no IO; rendering lives in internal/diagfmt.
package diag
