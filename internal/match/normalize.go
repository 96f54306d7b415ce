package match

import (
	"strings"
	"unicode"
)

// NormalizeCode normalizes a unit or family code for fuzzy matching: it is
// case-folded to lower and separators (_, -, ., spaces) are dropped, so
// "CUBIC_METER", "cubic-meter" and "CubicMeter" all normalize to
// "cubicmeter".
func NormalizeCode(s string) string {
	var b strings.Builder

	b.Grow(len(s))

	for _, r := range s {
		if isSeparator(r) {
			continue
		}

		b.WriteRune(unicode.ToLower(r))
	}

	return b.String()
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == '.' || unicode.IsSpace(r)
}
