// Package phrases extracts candidate two-word phrases from job descriptions.
package phrases

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/okian/skillpulse/internal/domain/model"
)

const (
	// MaxPhrases caps the number of unique phrases returned.
	MaxPhrases = 500

	minTokenLen = 3
)

// Extract walks descriptions in record order and returns each distinct pair of
// adjacent tokens, lowercase and space separated, in first-seen order.
func Extract(records []model.JobRecord) []string {
	seen := make(map[string]struct{})
	var out []string
	for i := range records {
		tokens := Tokens(records[i].Description)
		for j := 0; j+1 < len(tokens); j++ {
			phrase := tokens[j] + " " + tokens[j+1]
			if _, dup := seen[phrase]; dup {
				continue
			}
			seen[phrase] = struct{}{}
			out = append(out, phrase)
			if len(out) == MaxPhrases {
				return out
			}
		}
	}
	return out
}

// Tokens lowercases text and returns its words made only of ASCII letters and
// at least three long. A word is a maximal run of letters, digits or
// underscores, so "web3" and "café" yield nothing. Lowercasing applies the full
// Unicode mappings: "İ" becomes "i" plus a combining dot, which splits words.
func Tokens(text string) []string {
	lower := cases.Lower(language.Und).String(text)
	words := strings.FieldsFunc(lower, func(r rune) bool {
		return !isWordRune(r)
	})
	out := words[:0]
	for _, w := range words {
		if len(w) >= minTokenLen && isLowerASCII(w) {
			out = append(out, w)
		}
	}
	return out
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsNumber(r)
}

func isLowerASCII(w string) bool {
	for i := 0; i < len(w); i++ {
		if w[i] < 'a' || w[i] > 'z' {
			return false
		}
	}
	return true
}
