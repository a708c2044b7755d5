// Package moderation redacts banned terms from free text.
package moderation

import (
	"fmt"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Redaction replaces a whole banned token
const Redaction = "*"

// Sanitizer redacts banned terms by exact, case-insensitive,
// whole-token matching. It's safe for concurrent use.
type Sanitizer struct {
	banned map[string]struct{}
}

// New creates a sanitizer for a set of single-word terms
func New(terms []string) (*Sanitizer, error) {

	banned := make(map[string]struct{}, len(terms))
	for _, term := range terms {
		t := strings.ToLower(strings.TrimSpace(term))
		if t == "" {
			return nil, fmt.Errorf("empty banned term")
		}

		if !isSingleWord(t) {
			return nil, fmt.Errorf("banned term %q is not a single word", term)
		}

		banned[t] = struct{}{}
	}

	return &Sanitizer{banned: banned}, nil
}

// Sanitize splits the text into alternating word and non-word runs,
// keeps the non-word runs verbatim and replaces every banned word with "*".
func (s *Sanitizer) Sanitize(text string) string {

	if text == "" || len(s.banned) == 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))

	for len(text) > 0 {
		r, _ := utf8.DecodeRuneInString(text)
		word := isWordRune(r)

		// Find the end of the current run
		end := len(text)
		for i, r := range text {
			if isWordRune(r) != word {
				end = i
				break
			}
		}

		token := text[:end]
		text = text[end:]

		if word && s.IsBanned(token) {
			b.WriteString(Redaction)
			continue
		}

		b.WriteString(token)
	}

	return b.String()
}

// IsBanned reports whether a single token is a banned term
func (s *Sanitizer) IsBanned(token string) bool {
	_, ok := s.banned[strings.ToLower(token)]
	return ok
}

// Terms returns the banned terms sorted
func (s *Sanitizer) Terms() []string {
	terms := make([]string, 0, len(s.banned))
	for t := range s.banned {
		terms = append(terms, t)
	}
	slices.Sort(terms)
	return terms
}

// Word characters are letters, numbers and the underscore
func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

func isSingleWord(s string) bool {
	for _, r := range s {
		if !isWordRune(r) {
			return false
		}
	}
	return true
}
