package scoring

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// canonicalize folds text to a comparable form: NFKC normalization collapses
// fullwidth and composed variants that show up in captions, then lowercase.
func canonicalize(s string) string {
	return strings.ToLower(norm.NFKC.String(s))
}

// tokenSet splits canonicalized text into a lookup set of word tokens.
// Hashtag markers and punctuation act as separators, so "#CookingHacks"
// yields "cookinghacks".
func tokenSet(parts ...string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, part := range parts {
		fields := strings.FieldsFunc(canonicalize(part), func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		for _, f := range fields {
			tokens[f] = struct{}{}
		}
	}
	return tokens
}

// tagTokens splits a taxonomy tag like "street_food" into its terms.
func tagTokens(tag string) []string {
	return strings.Split(canonicalize(tag), "_")
}
