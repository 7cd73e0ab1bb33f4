// Package vntext provides Vietnamese text normalization for search matching.
// Normalization strips diacritics, lowercases and collapses whitespace so
// that "Cấp Giấy Phép" and "cap giay phep" compare equal.
package vntext

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes accented characters and removes the combining marks.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize returns the search form of s: diacritics stripped, đ/Đ mapped
// to d/D, lowercased, runs of whitespace collapsed to single spaces, trimmed.
// Normalize is idempotent.
func Normalize(s string) string {
	if s == "" {
		return ""
	}

	// đ (U+0111) and Đ (U+0110) are base letters, not accented ones,
	// so NFD decomposition leaves them alone.
	s = strings.NewReplacer("đ", "d", "Đ", "D").Replace(s)

	stripped, _, err := transform.String(stripMarks, s)
	if err == nil {
		s = stripped
	}

	s = strings.ToLower(s)
	return strings.Join(strings.Fields(s), " ")
}

// Tokenize splits the normalized form of s on whitespace, dropping tokens
// of length <= 1 which carry no matching signal.
func Tokenize(s string) []string {
	fields := strings.Fields(Normalize(s))
	tokens := fields[:0]
	for _, f := range fields {
		if len(f) > 1 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}
