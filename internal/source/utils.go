package source

import (
	"fmt"
	"path/filepath"
	"slices"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Normalize strips a UTF-8 BOM, folds CRLF into LF and decodes content that
// is not valid UTF-8 as ISO-8859-1. The returned flags describe what changed.
func Normalize(content []byte) ([]byte, FileFlags, error) {
	var flags FileFlags
	content, hadBOM := removeBOM(content)
	if hadBOM {
		flags |= FileHadBOM
	}
	content, hadCRLF := normalizeCRLF(content)
	if hadCRLF {
		flags |= FileNormalizedCRLF
	}
	if !utf8.Valid(content) {
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(content)
		if err != nil {
			return nil, flags, fmt.Errorf("decode latin-1: %w", err)
		}
		content = decoded
		flags |= FileDecodedLatin1
	}
	return content, flags, nil
}

// normalizeCRLF заменяет все \r\n на \n, не трогая одиночные \r.
// Возвращает новый слайс и флаг: были ли замены (true, если хотя бы одна).
func normalizeCRLF(content []byte) ([]byte, bool) {
	// Быстрый путь: если нет \r, возвращаем как есть.
	if !slices.Contains(content, '\r') {
		return content, false
	}

	// Новый слайс для результата (максимум такой же длины, может быть короче).
	out := make([]byte, 0, len(content))
	changed := false

	i := 0
	for i < len(content) {
		// Если встретили \r\n, заменяем на \n.
		if content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n' {
			out = append(out, '\n')
			i += 2
			changed = true
		} else {
			out = append(out, content[i])
			i++
		}
	}
	return out, changed
}

// Denormalize undoes what Normalize recorded in flags, so that edited content
// can be written back in the file's original form. Every LF becomes CRLF when
// the file had CRLF line endings.
func Denormalize(content []byte, flags FileFlags) ([]byte, error) {
	out := content
	if flags&FileDecodedLatin1 != 0 {
		encoded, err := charmap.ISO8859_1.NewEncoder().Bytes(out)
		if err != nil {
			return nil, fmt.Errorf("encode latin-1: %w", err)
		}
		out = encoded
	}
	if flags&FileNormalizedCRLF != 0 {
		crlf := make([]byte, 0, len(out)+len(out)/32)
		for _, b := range out {
			if b == '\n' {
				crlf = append(crlf, '\r')
			}
			crlf = append(crlf, b)
		}
		out = crlf
	}
	if flags&FileHadBOM != 0 {
		out = append([]byte{0xEF, 0xBB, 0xBF}, out...)
	}
	return out, nil
}

func removeBOM(content []byte) ([]byte, bool) {
	if len(content) < 3 {
		return content, false
	}

	if content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		return content[3:], true
	}

	return content, false
}

func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, len(content))
	for i, b := range content {
		if b == '\n' {
			out = append(out, uint32(i))
		}
	}
	return out
}

func normalizePath(p string) string {
	// единый вид в кроссплатформенных дифах
	return filepath.ToSlash(filepath.Clean(p))
}
