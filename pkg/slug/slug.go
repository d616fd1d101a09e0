package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var slugRegexp = regexp.MustCompile(`[^a-z0-9]+`)

// Generate creates a URL-friendly slug from the given name. Accented letters
// are folded to their ASCII base.
//
// Examples:
//   - "Oslo Three-Seater Sofa" → "oslo-three-seater-sofa"
//   - "Chaise Longue Élégante" → "chaise-longue-elegante"
//   - "  Hello   World! " → "hello-world"
func Generate(name string) string {
	folded, _, err := transform.String(
		transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
		name,
	)
	if err != nil {
		folded = name
	}

	s := strings.ToLower(strings.TrimSpace(folded))
	s = slugRegexp.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Normalize cleans a user-supplied lookup key. Keys that are already valid
// slugs are returned unchanged.
func Normalize(key string) string {
	if IsValid(key) {
		return key
	}
	return Generate(key)
}

// IsValid reports whether s is a non-empty slug in canonical form.
func IsValid(s string) bool {
	return s != "" && s == strings.Trim(slugRegexp.ReplaceAllString(s, "-"), "-")
}
