// Package slug builds the URL identifiers used for facility, region, city and
// type routes.
//
// Every function applies the same normalization: lower-case, strip
// diacritics, collapse each run of characters outside [a-z0-9] into a single
// hyphen and trim hyphens at both ends. The output of Make is a fixed point
// of Make, so slugs can be regenerated from stored values without drift.
package slug

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Make normalizes a free-text value into a slug. Empty and whitespace-only
// input yields "".
func Make(value string) string {
	folded := stripDiacritics(strings.ToLower(value))

	var b strings.Builder
	b.Grow(len(folded))
	pendingHyphen := false
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}

// Facility derives a facility slug from its name, city and region
// abbreviation. Identical inputs always collide; uniqueness is the
// responsibility of the caller (see WithSuffix).
func Facility(name, city, regionAbbr string) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{name, city, regionAbbr} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return Make(strings.Join(parts, "-"))
}

// Region derives the slug for a region (state or province) name.
func Region(name string) string { return Make(name) }

// City derives the slug for a city name.
func City(name string) string { return Make(name) }

// Type derives the slug for a facility type name.
func Type(name string) string { return Make(name) }

// WithSuffix appends a numeric disambiguation suffix to base.
func WithSuffix(base string, n int) string {
	return fmt.Sprintf("%s-%d", base, n)
}

// HasBase reports whether s is base itself or base with a numeric
// disambiguation suffix of 2 or more.
func HasBase(s, base string) bool {
	if base == "" {
		return false
	}
	if s == base {
		return true
	}
	suffix, ok := strings.CutPrefix(s, base+"-")
	if !ok || suffix == "" || suffix[0] == '0' {
		return false
	}
	n, err := strconv.Atoi(suffix)
	return err == nil && n >= 2
}

// Valid reports whether s is a non-empty, already normalized slug.
func Valid(s string) bool {
	return s != "" && Make(s) == s
}

func stripDiacritics(s string) string {
	// transformers are stateful, build one per call
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
