// Package lang normalizes language codes arriving from product metadata
// and OCR prediction payloads into canonical two-letter base codes.
package lang

import (
	"strings"

	"golang.org/x/text/language"
)

// Canonical parses a language code and returns its lowercase base form
// ("fr-FR" -> "fr", "FR" -> "fr"). The second return is false when the
// code cannot be interpreted as a language at all; such codes carry no
// usable evidence and callers drop them.
func Canonical(code string) (string, bool) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", false
	}
	tag, err := language.Parse(code)
	if err != nil {
		return "", false
	}
	base, conf := tag.Base()
	if conf == language.No {
		return "", false
	}
	return base.String(), true
}

// CanonicalSet canonicalizes a set of language codes, dropping invalid
// entries and duplicates while preserving first-seen order.
func CanonicalSet(codes []string) []string {
	var out []string
	seen := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		canon, ok := Canonical(c)
		if !ok {
			continue
		}
		if _, dup := seen[canon]; dup {
			continue
		}
		seen[canon] = struct{}{}
		out = append(out, canon)
	}
	return out
}
