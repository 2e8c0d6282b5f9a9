package diag

import "unicode/utf8"

// ExcerptLimit caps the length of a line excerpt in bytes, marker included.
const ExcerptLimit = 120

const truncationMarker = "..."

// Excerpt shortens line to at most ExcerptLimit bytes. Longer lines keep
// their first ExcerptLimit-3 bytes followed by "...".
func Excerpt(line string) string {
	if len(line) <= ExcerptLimit {
		return line
	}
	cut := ExcerptLimit - len(truncationMarker)
	// не режем посреди руны
	for cut > 0 && !utf8.RuneStart(line[cut]) {
		cut--
	}
	return line[:cut] + truncationMarker
}
