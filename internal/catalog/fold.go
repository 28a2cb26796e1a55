package catalog

import (
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var foldChain = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold strips diacritics: "café" becomes "cafe". Input that cannot be
// transformed is returned unchanged.
func Fold(s string) string {
	out, _, err := transform.String(foldChain, s)
	if err != nil {
		return s
	}
	return out
}
