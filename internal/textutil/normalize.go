package textutil

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// tokenSplitPattern matches non-alphanumeric character sequences for tokenization.
var tokenSplitPattern = regexp.MustCompile(`[^a-z0-9]+`)

// NormalizeTitle folds a title to a canonical comparison key: NFKC
// normalization, Unicode lowercasing, punctuation and whitespace collapsed
// to single spaces. Two titles with the same key are treated as duplicates.
func NormalizeTitle(title string) string {
	folded := cases.Lower(language.Und).String(norm.NFKC.String(strings.TrimSpace(title)))
	raw := tokenSplitPattern.Split(folded, -1)
	tokens := make([]string, 0, len(raw))
	for _, token := range raw {
		if token == "" {
			continue
		}
		tokens = append(tokens, token)
	}
	return strings.Join(tokens, " ")
}

// Tokenize splits text into lowercase tokens, filtering tokens shorter than
// three characters.
func Tokenize(text string) []string {
	lowered := cases.Lower(language.Und).String(norm.NFKC.String(text))
	raw := tokenSplitPattern.Split(lowered, -1)
	terms := make([]string, 0, len(raw))
	for _, token := range raw {
		if len(token) < 3 {
			continue
		}
		terms = append(terms, token)
	}
	return terms
}

// TokenSet returns the unique tokens of the text.
func TokenSet(text string) map[string]struct{} {
	tokens := Tokenize(text)
	set := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		set[token] = struct{}{}
	}
	return set
}

// OverlapScore counts how many tokens of want appear in have.
func OverlapScore(want []string, have map[string]struct{}) int {
	score := 0
	for _, token := range want {
		if _, ok := have[token]; ok {
			score++
		}
	}
	return score
}
