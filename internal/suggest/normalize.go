package suggest

import (
	"strings"
	"unicode"
)

// Normalize folds an identifier for comparison: CamelCase and separators
// are erased and the result lower-cased, so someString, some_string and
// SomeString all normalize to somestring.
func Normalize(s string) string {
	return strings.ToLower(strings.Join(tokenize(s), ""))
}

// tokenize splits an identifier into words.
//
//   - "someString" -> ["some", "String"]
//   - "HTTPClient" -> ["HTTP", "Client"]
//   - "request_id" -> ["request", "id"]
func tokenize(s string) []string {
	var (
		tokens  []string
		current strings.Builder
	)

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		if isSeparator(r) {
			flush()
			continue
		}

		if i > 0 && startsToken(runes, i) {
			flush()
		}

		current.WriteRune(r)
	}

	flush()

	return tokens
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' ' || r == '.'
}

// startsToken reports whether runes[i] begins a new word: a lower-to-upper
// transition, or the last capital of an acronym followed by a lower-case
// letter.
func startsToken(runes []rune, i int) bool {
	r, prev := runes[i], runes[i-1]

	if !unicode.IsUpper(r) || isSeparator(prev) {
		return false
	}

	if !unicode.IsUpper(prev) {
		return true
	}

	return i+1 < len(runes) && unicode.IsLower(runes[i+1])
}
