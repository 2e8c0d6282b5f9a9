package rules

import (
	"regexp"
	"strings"
)

// feature is a C99 construct recognised on a sanitized line.
type feature uint8

const (
	featNone feature = iota
	featKeyword
	featForDecl
	featDesignatedInit
	featCompoundLiteral
	featVariadicMacro
	featFlexibleArray
	featStdlibCall
	featHeader
)

var (
	reForDecl = regexp.MustCompile(
		`\bfor\s*\(\s*(?:(?:const|volatile|register|static|signed|unsigned)\s+)*` +
			`(?:int|char|long|short|float|double|signed|unsigned|_Bool|size_t|[A-Za-z_]\w*_t|[A-Z][A-Z0-9_]*)` +
			`\b(?:\s+|\s*\*+\s*)[A-Za-z_]\w*\s*(?:=|;|,|\[)`)
	// .field = / [index] = after '{' or ','
	reDesignatedInit = regexp.MustCompile(`[{,]\s*(?:\.[A-Za-z_]\w*|\[[^\]]+\])\s*=`)
	reCompoundLiteral = regexp.MustCompile(
		`(?:[=(,]|\breturn)\s*(\(\s*(?:(?:struct|union|const|unsigned|signed)\s+)*[A-Za-z_]\w*\s*(?:\[\s*\w*\s*\])?\s*\)\s*\{)`)
	reVariadicMacro = regexp.MustCompile(`^\s*#\s*define\s+\w+\([^)]*\.\.\.\s*\)|__VA_ARGS__|__VA_OPT__`)
	reFlexibleArray = regexp.MustCompile(`^\s*(?:(?:struct|unsigned|signed|const)\s+)*[A-Za-z_]\w*[\s*]+[A-Za-z_]\w*\s*\[\s*\]\s*;`)
	reInclude       = regexp.MustCompile(`^\s*#\s*include\s*<`)
)

// detectC99 returns the first C99 construct found on clean and its column.
func detectC99(clean string, keywords []string) (feature, string, int) {
	for _, id := range identifiers(clean) {
		for _, kw := range keywords {
			if id.Text == kw {
				return featKeyword, kw, id.Col
			}
		}
	}
	if loc := firstMatch(reForDecl, clean); loc != nil {
		return featForDecl, "", loc[0] + 1
	}
	if loc := firstMatch(reDesignatedInit, clean); loc != nil {
		return featDesignatedInit, "", loc[0] + 1
	}
	if loc := firstMatch(reCompoundLiteral, clean); loc != nil {
		return featCompoundLiteral, "", loc[2] + 1
	}
	if loc := firstMatch(reVariadicMacro, clean); loc != nil {
		return featVariadicMacro, "", skipBlank(clean, loc[0]) + 1
	}
	if !strings.HasPrefix(strings.TrimSpace(clean), "extern") && reFlexibleArray.MatchString(clean) {
		return featFlexibleArray, "", skipBlank(clean, 0) + 1
	}
	for _, id := range identifiers(clean) {
		if _, ok := c99StdlibFunctions[id.Text]; ok && id.Call {
			return featStdlibCall, id.Text, id.Col
		}
	}
	if reInclude.MatchString(clean) {
		if h, col := findAny(clean, c99Headers); col > 0 {
			return featHeader, h, col
		}
	}
	return featNone, "", 0
}

func skipBlank(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return i
}
