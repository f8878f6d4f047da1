// Package normalize converts free-form money, date and keyword text coming
// from chats and forms into canonical values.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold lower-cases s, strips Vietnamese diacritics and collapses whitespace,
// so "Quần Short" and "quan short" compare equal.
func Fold(s string) string {
	// transform.Chain keeps state, build one per call
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	out = strings.NewReplacer("đ", "d", "Đ", "d").Replace(out)
	return strings.Join(strings.Fields(strings.ToLower(out)), " ")
}

// Words folds s and keeps only letters and digits, one space between words.
func Words(s string) string {
	return strings.Join(strings.FieldsFunc(Fold(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}), " ")
}

// Lower lower-cases s in NFC form and collapses whitespace. Diacritics are
// kept, so "bảy" and "bay" stay different words.
func Lower(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(norm.NFC.String(s))), " ")
}

func tokens(s string) string {
	return strings.Join(strings.FieldsFunc(Lower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}), " ")
}

// Mentions reports whether text contains any of the phrases as whole words,
// ignoring case but not diacritics.
func Mentions(text string, phrases []string) bool {
	return containsWords(tokens(text), phrases, tokens)
}

// ContainsAny reports whether text contains any of the phrases as whole words,
// ignoring case and diacritics. Use it for names and aliases, not for
// Vietnamese keywords whose accent-free forms collide.
func ContainsAny(text string, phrases []string) bool {
	return containsWords(Words(text), phrases, Words)
}

func containsWords(words string, phrases []string, split func(string) string) bool {
	if words == "" {
		return false
	}
	padded := " " + words + " "
	for _, p := range phrases {
		if w := split(p); w != "" && strings.Contains(padded, " "+w+" ") {
			return true
		}
	}
	return false
}
