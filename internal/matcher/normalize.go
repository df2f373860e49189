// ABOUTME: Ingredient name normalization and the default token similarity scorer.
// ABOUTME: Word boundaries are Unicode-aware so Cyrillic stopwords are removed.
package matcher

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Boundaries are captured instead of asserted because RE2 has no lookaround
// and its \b only understands ASCII word characters.
var (
	stopwordPattern = regexp.MustCompile(
		`(^|[^\p{L}\p{N}_])(нарийн боовтой|нарийн|боовтой|хуурай|шинэ|давсгүй|өөх тостой)($|[^\p{L}\p{N}_])`)
	quantityPattern = regexp.MustCompile(
		`(^|[^\p{L}\p{N}_])\d+\s*(г|кг|мл|л|ширхэг|аяга|хэсэг|хэмжээ)($|[^\p{L}\p{N}_])`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// NormalizeIngredientName lowercases a name, drops preparation words and
// quantity tokens, and collapses whitespace.
func NormalizeIngredientName(name string) string {
	s := strings.TrimSpace(strings.ToLower(name))
	s = replaceUntilStable(stopwordPattern, s)
	s = replaceUntilStable(quantityPattern, s)
	s = whitespacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// replaceUntilStable repeats the replacement because adjacent matches share
// the separator between them and a single pass skips every second one.
func replaceUntilStable(re *regexp.Regexp, s string) string {
	for {
		next := re.ReplaceAllString(s, "$1$3")
		if next == s {
			return s
		}
		s = next
	}
}

// Scorer rates how similar two ingredient names are, from 0 to 1.
type Scorer interface {
	Score(a, b string) float64
}

// ScorerFunc adapts a plain function to Scorer.
type ScorerFunc func(a, b string) float64

// Score calls f(a, b).
func (f ScorerFunc) Score(a, b string) float64 { return f(a, b) }

// TokenScorer compares normalized names: 1.0 when equal, 0.8 when one
// contains the other, otherwise the share of words longer than two letters
// they have in common.
type TokenScorer struct{}

// Score implements Scorer.
func (TokenScorer) Score(a, b string) float64 {
	na := NormalizeIngredientName(a)
	nb := NormalizeIngredientName(b)

	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1.0
	}
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return 0.8
	}

	wa := significantWords(na)
	wb := significantWords(nb)
	if len(wa) == 0 || len(wb) == 0 {
		return 0
	}

	set := make(map[string]bool, len(wb))
	for _, w := range wb {
		set[w] = true
	}
	common := 0
	for _, w := range wa {
		if set[w] {
			common++
		}
	}

	return float64(common) / float64(max(len(wa), len(wb)))
}

func significantWords(s string) []string {
	var out []string
	for _, w := range strings.Split(s, " ") {
		if utf8.RuneCountInString(w) > 2 {
			out = append(out, w)
		}
	}
	return out
}
