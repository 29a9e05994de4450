package mention

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/nutripick/nutripick/internal/insight"
)

// Extract scans OCR text for nutrient-name mentions, nutrient-value
// mentions, and adjacent name+value pairs. Every occurrence counts
// separately; the same word appearing twice yields two mentions.
func Extract(text string) ([]insight.NutrientMention, []insight.NutrientPair) {
	if text == "" {
		return nil, nil
	}

	var mentions []insight.NutrientMention
	var pairs []insight.NutrientPair

	for _, cf := range compiledForms {
		for _, loc := range cf.re.FindAllStringIndex(text, -1) {
			if !wordBounded(text, loc[0], loc[1]) {
				continue
			}
			mentions = append(mentions, insight.NutrientMention{
				Kind:      insight.MentionName,
				Languages: cf.languages,
			})
		}
		if cf.pairRe == nil {
			continue
		}
		for _, loc := range cf.pairRe.FindAllStringIndex(text, -1) {
			if !wordBounded(text, loc[0], loc[1]) {
				continue
			}
			pairs = append(pairs, insight.NutrientPair{Languages: cf.languages})
		}
	}

	for _, m := range valueRe.FindAllStringSubmatchIndex(text, -1) {
		if !wordBounded(text, m[0], m[1]) {
			continue
		}
		unit := strings.ToLower(text[m[4]:m[5]])
		mentions = append(mentions, insight.NutrientMention{
			Kind:     insight.MentionValue,
			IsEnergy: energyUnits[unit],
			// Numeric values read the same in every supported language.
			Languages: allLanguages,
		})
	}

	return mentions, pairs
}

// allLanguages tags language-neutral value mentions so they count toward
// any language that name mentions establish.
var allLanguages = []string{"da", "de", "en", "es", "fr", "hu", "it", "nl", "pt"}

// wordBounded reports whether text[start:end] is not embedded in a longer
// word. This mirrors lookaround boundaries without consuming the
// neighboring runes, so adjacent occurrences all match.
func wordBounded(text string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:start])
		if isWordRune(r) {
			return false
		}
	}
	if end < len(text) {
		r, _ := utf8.DecodeRuneInString(text[end:])
		if isWordRune(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
