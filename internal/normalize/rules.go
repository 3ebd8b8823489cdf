package normalize

import (
	"slices"
	"strings"
	"unicode"

	"github.com/samber/lo"
)

// label is the lower-cased, trimmed input a rule is evaluated against.
type label struct {
	text   string
	tokens []string
}

func newLabel(input string) label {
	text := strings.ToLower(strings.TrimSpace(input))
	tokens := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return label{text: text, tokens: tokens}
}

type predicate func(label) bool

// contains matches when any keyword is a substring of the label.
func contains(keywords ...string) predicate {
	return func(l label) bool {
		for _, k := range keywords {
			if strings.Contains(l.text, k) {
				return true
			}
		}
		return false
	}
}

// token matches whole words only, for acronyms short enough to appear inside
// unrelated words.
func token(tokens ...string) predicate {
	return func(l label) bool {
		for _, t := range tokens {
			if lo.Contains(l.tokens, t) {
				return true
			}
		}
		return false
	}
}

func anyOf(ps ...predicate) predicate {
	return func(l label) bool {
		for _, p := range ps {
			if p(l) {
				return true
			}
		}
		return false
	}
}

func allOf(ps ...predicate) predicate {
	return func(l label) bool {
		for _, p := range ps {
			if !p(l) {
				return false
			}
		}
		return true
	}
}

type rule[T ~string] struct {
	name   string
	match  predicate
	result T
}

// classify returns the result of the first matching rule, or fallback.
func classify[T ~string](rules []rule[T], input string, fallback T) T {
	l := newLabel(input)
	for _, r := range rules {
		if r.match(l) {
			return r.result
		}
	}
	return fallback
}

// sortCanonical dedupes values and orders them by their position in order.
// Values missing from order go last, lexicographically.
func sortCanonical(values []string, order []string) []string {
	rank := make(map[string]int, len(order))
	for i, v := range order {
		rank[v] = i
	}
	out := lo.Uniq(values)
	slices.SortFunc(out, func(a, b string) int {
		ra, okA := rank[a]
		rb, okB := rank[b]
		switch {
		case okA && okB:
			return ra - rb
		case okA:
			return -1
		case okB:
			return 1
		default:
			return strings.Compare(a, b)
		}
	})
	return out
}
