package textx

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var exoticSpace = strings.NewReplacer(
	"\u00a0", " ", // no-break space
	"\u202f", " ", // narrow no-break space
	"\u2007", " ", // figure space
	"\u200b", "", // zero-width space
	"\u200c", "",
	"\u200d", "",
	"\ufeff", "", // byte order mark
)

// Sanitize prepares a field value for substitution: exotic spaces become plain
// spaces, zero-width characters are removed, whitespace runs collapse to one
// space, and the result is NFC-normalized UTF-8. Bytes that are not valid
// UTF-8 are dropped; dropped reports how many such sequences were removed so
// callers can log it.
func Sanitize(s string) (clean string, dropped int) {
	if !utf8.ValidString(s) {
		dropped = countInvalid(s)
		s = strings.ToValidUTF8(s, "")
	}
	s = exoticSpace.Replace(s)
	s = strings.Join(strings.Fields(s), " ")
	return norm.NFC.String(s), dropped
}

// NormalizeSpaces applies the exotic-space rules of Sanitize without
// collapsing whitespace, so authored line breaks survive.
func NormalizeSpaces(s string) string {
	s = strings.ToValidUTF8(s, "")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return norm.NFC.String(exoticSpace.Replace(s))
}

func countInvalid(s string) int {
	n := 0
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		if r == utf8.RuneError && size == 1 {
			n++
		}
		s = s[size:]
	}
	return n
}
