package matching

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NormalizeTitle lowercases a title locale-independently, strips punctuation,
// and collapses whitespace runs to single spaces.
func NormalizeTitle(title string) string {
	lowered := cases.Lower(language.Und).String(title)

	var b strings.Builder
	b.Grow(len(lowered))
	prevSpace := false
	for _, r := range lowered {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			b.WriteRune(r)
			prevSpace = false
		case unicode.IsSpace(r):
			if !prevSpace && b.Len() > 0 {
				b.WriteByte(' ')
				prevSpace = true
			}
		}
	}
	return strings.TrimRight(b.String(), " ")
}
