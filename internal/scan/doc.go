// Package scan is the stateful part of the analyzer: it sanitizes lines,
// tracks brace depth for declaration placement and follows enter/leave
// critical-section pairing across a whole file.
//
// A Session owns all per-file state. Create one per file, feed it raw lines
// in order and call Finish at EOF. Sessions are never shared across files
// or goroutines.
package scan
