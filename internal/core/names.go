package core

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// normalize приводит имя команды или флага к ключу для сравнения без учета регистра.
func normalize(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

func equalFold(a, b string) bool {
	return normalize(a) == normalize(b)
}

// looksLikeFlag: "-x" и "--x" считаются флагами, "-5" и "-" нет.
func looksLikeFlag(token string) bool {
	name := strings.TrimLeft(token, "-")
	if name == token || name == "" {
		return false
	}
	if len(token)-len(name) > 2 {
		return false
	}
	r, _ := utf8.DecodeRuneInString(name)
	return r == '_' || unicode.IsLetter(r)
}
