package featurize

import (
	"regexp"
	"strings"
	"unicode"

	porterstemmer "github.com/kiteco/go-porterstemmer"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// markup matches <br> variants and short tags. A '<' not followed by a letter
// or '/' is prose, as in "I <3 it" or "5 > 4".
var markup = regexp.MustCompile(`(?i)<\s*br\s*/?\s*>|<[a-z/][^>]{0,40}>`)

// Normalize strips markup and diacritics and lower-cases s.
// Transformers carry state, so a fresh chain is built per call.
func Normalize(s string) string {
	s = markup.ReplaceAllString(s, " ")

	fold := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if out, _, err := transform.String(fold, s); err == nil {
		s = out
	}
	return cases.Lower(language.Und).String(s)
}

// Tokenize splits normalized text into stemmed word tokens.
// "Don't" -> "dont", "movies" -> "movi".
func Tokenize(s string) []string {
	fields := strings.FieldsFunc(Normalize(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.ReplaceAll(f, "'", "")
		if f == "" {
			continue
		}
		tokens = append(tokens, porterstemmer.StemString(f))
	}
	return tokens
}

// Terms expands tokens into all word n-grams of order 1..n, joined by "_".
func Terms(tokens []string, n int) []string {
	if n < 1 {
		n = 1
	}
	var terms []string
	for order := 1; order <= n; order++ {
		for i := 0; i+order <= len(tokens); i++ {
			terms = append(terms, strings.Join(tokens[i:i+order], "_"))
		}
	}
	return terms
}
