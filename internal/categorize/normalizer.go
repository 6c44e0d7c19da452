package categorize

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	branchNumberRe = regexp.MustCompile(`#\d+`)
	storeNumberRe  = regexp.MustCompile(`\bSTORE\s*\d+\b`)
	postalCodeRe   = regexp.MustCompile(`\b[A-Z]{2}\d{5}\b`)
	whitespaceRe   = regexp.MustCompile(`[\s\p{Z}]+`)
)

// Normalize cleans a raw bank description for matching. It upper-cases the text,
// strips branch numbers (#1234), store numbers (STORE 12) and postal-code-like
// tokens (AB12345), and collapses whitespace, Unicode spaces included. compact is cleaned with every space
// removed, so "GROCERY STORE" and "GROCERYSTORE" share a form.
func Normalize(description string) (cleaned, compact string) {
	s := upper(description)
	s = branchNumberRe.ReplaceAllString(s, " ")
	s = storeNumberRe.ReplaceAllString(s, " ")
	s = postalCodeRe.ReplaceAllString(s, " ")
	cleaned = collapse(s)
	return cleaned, removeSpaces(cleaned)
}

// token is a pattern prepared for matching against a normalized description.
type token struct {
	spaced  string
	compact string
}

// prepareToken upper-cases and collapses a pattern without stripping anything.
func prepareToken(pattern string) token {
	spaced := collapse(upper(pattern))
	return token{spaced: spaced, compact: removeSpaces(spaced)}
}

// in reports whether the token occurs in either form of the description.
// Empty tokens never match.
func (t token) in(cleaned, compact string) bool {
	if t.spaced == "" {
		return false
	}
	if strings.Contains(cleaned, t.spaced) {
		return true
	}
	return t.compact != "" && strings.Contains(compact, t.compact)
}

func upper(s string) string {
	// Casers are stateful; build one per call.
	return cases.Upper(language.Und).String(s)
}

func collapse(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

func removeSpaces(s string) string {
	return whitespaceRe.ReplaceAllString(s, "")
}
