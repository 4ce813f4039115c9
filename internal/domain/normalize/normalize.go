// Package normalize canonicalizes Turkish place names so that lookups are
// case and diacritic insensitive. The character table is fixed; nothing is
// locale-negotiated at runtime.
package normalize

import (
	"regexp"
	"strings"
)

// Lowercasing "İ" in Go yields "i" plus a combining dot (U+0307), the same
// artifact the character tables below fold back to a plain "i".
const dottedLowerI = "i̇"

var lowerReplacer = strings.NewReplacer(
	"ğ", "g",
	"ü", "u",
	"ş", "s",
	"ı", "i",
	"ö", "o",
	"ç", "c",
	dottedLowerI, "i",
)

var casedReplacer = strings.NewReplacer(
	"ğ", "g", "Ğ", "G",
	"ü", "u", "Ü", "U",
	"ş", "s", "Ş", "S",
	"ı", "i", "İ", "I",
	"ö", "o", "Ö", "O",
	"ç", "c", "Ç", "C",
	dottedLowerI, "i",
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// Normalize lowercases, folds Turkish special characters to ASCII and trims
// surrounding whitespace. It must be applied identically to stored names and
// query names; the result is idempotent under Normalize.
func Normalize(s string) string {
	return strings.TrimSpace(lowerReplacer.Replace(strings.ToLower(s)))
}

// URLSafe folds Turkish characters while preserving case and encodes internal
// whitespace as literal %20. It is only used when constructing outbound URLs,
// never for comparisons.
func URLSafe(s string) string {
	return whitespaceRun.ReplaceAllString(strings.TrimSpace(casedReplacer.Replace(s)), "%20")
}

// FileName turns a district name into the ASCII stem used for archive file
// names: normalized, with whitespace runs collapsed to underscores.
func FileName(s string) string {
	return whitespaceRun.ReplaceAllString(Normalize(s), "_")
}
