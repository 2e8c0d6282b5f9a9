package rules

import "strings"

// Ident is an identifier found on a sanitized line.
type Ident struct {
	Text string
	// Col is the 1-based column of the first byte.
	Col int
	// Call is true when the next non-blank byte is '('.
	Call bool
}

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentByte(b byte) bool {
	return isIdentStart(b) || (b >= '0' && b <= '9')
}

// identifiers lists identifiers outside string and char literals, in order.
func identifiers(line string) []Ident {
	var out []Ident
	inD, inS := false, false
	for i := 0; i < len(line); i++ {
		b := line[i]
		if inD || inS {
			switch {
			case b == '\\':
				i++
			case b == '"' && inD:
				inD = false
			case b == '\'' && inS:
				inS = false
			}
			continue
		}
		switch {
		case b == '"':
			inD = true
		case b == '\'':
			inS = true
		case isIdentStart(b) && (i == 0 || !isIdentByte(line[i-1])):
			j := i + 1
			for j < len(line) && isIdentByte(line[j]) {
				j++
			}
			k := j
			for k < len(line) && (line[k] == ' ' || line[k] == '\t') {
				k++
			}
			out = append(out, Ident{Text: line[i:j], Col: i + 1, Call: k < len(line) && line[k] == '('})
			i = j - 1
		}
	}
	return out
}

// findWord returns the 1-based column of the first occurrence of word in
// line that is not part of a longer identifier, or 0.
func findWord(line, word string) int {
	from := 0
	for {
		i := strings.Index(line[from:], word)
		if i < 0 {
			return 0
		}
		i += from
		end := i + len(word)
		before := i == 0 || !isIdentByte(line[i-1])
		after := end >= len(line) || !isIdentByte(line[end])
		if before && after {
			return i + 1
		}
		from = i + 1
	}
}

// findAny returns the earliest pattern found as a substring and its column.
func findAny(line string, patterns []string) (string, int) {
	best, col := "", 0
	for _, p := range patterns {
		if i := strings.Index(line, p); i >= 0 && (col == 0 || i+1 < col) {
			best, col = p, i+1
		}
	}
	return best, col
}

func set(words ...string) map[string]struct{} {
	out := make(map[string]struct{}, len(words))
	for _, w := range words {
		out[w] = struct{}{}
	}
	return out
}
