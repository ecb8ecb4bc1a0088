// Package textcase converts display strings between casing styles.
package textcase

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var camelBoundary = regexp.MustCompile(`([a-z])([A-Z])`)

// SentenceCase capitalizes the first letter of every '.'-separated sentence and
// lowercases the rest. A trailing period is preserved.
func SentenceCase(s string) string {
	if strings.TrimSpace(s) == "" {
		return s
	}

	var sentences []string
	for _, part := range strings.Split(s, ".") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		sentences = append(sentences, capitalize(part))
	}

	out := strings.Join(sentences, ". ")
	if strings.HasSuffix(strings.TrimSpace(s), ".") {
		out += "."
	}
	return out
}

// CamelToTitle turns a camelCase identifier into space separated Title Case,
// e.g. "deadlineDate" becomes "Deadline Date".
func CamelToTitle(s string) string {
	words := strings.Split(camelBoundary.ReplaceAllString(s, "$1 $2"), " ")
	for i, w := range words {
		words[i] = capitalize(w)
	}
	return strings.Join(words, " ")
}

func capitalize(w string) string {
	r, size := utf8.DecodeRuneInString(w)
	if r == utf8.RuneError {
		return w
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(w[size:])
}
