package textx

import (
	"path"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var folder = cases.Fold()

// NameKey normalizes a display name into its comparison key: surrounding
// whitespace is stripped, the string is NFC-normalized and case-folded, and every whitespace,
// underscore, hyphen or dot is removed. Two names match iff their keys are
// equal.
func NameKey(name string) string {
	name = folder.String(norm.NFC.String(strings.TrimSpace(name)))

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if isSeparator(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FileKey is NameKey applied to a file name with its directory and last
// extension removed, so "certs/John_Doe.pdf" keys as "johndoe".
func FileKey(filename string) string {
	return NameKey(Stem(filename))
}

// Stem returns the base name of filename without its final extension.
func Stem(filename string) string {
	base := path.Base(strings.ReplaceAll(strings.TrimSpace(filename), "\\", "/"))
	if ext := path.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}

// Ext returns the lower-cased extension of filename without the dot.
func Ext(filename string) string {
	ext := path.Ext(strings.TrimSpace(filename))
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

func isSeparator(r rune) bool {
	switch r {
	case '_', '-', '.', '\u200b', '\ufeff':
		return true
	}
	return unicode.IsSpace(r)
}
