package faq

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// minTokenLength is the shortest token that takes part in matching
const minTokenLength = 3

// Tokenize lowercases text, splits it on whitespace, trims surrounding
// punctuation and drops tokens shorter than three characters. Order of first
// occurrence is kept and duplicates are removed.
func Tokenize(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	tokens := make([]string, 0, len(fields))
	seen := make(map[string]struct{}, len(fields))

	for _, f := range fields {
		f = strings.TrimFunc(f, unicode.IsPunct)
		if utf8.RuneCountInString(f) < minTokenLength {
			continue
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		tokens = append(tokens, f)
	}
	return tokens
}

// NormalizeKeywords lowercases, trims and deduplicates keywords, dropping blanks
func NormalizeKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	seen := make(map[string]struct{}, len(keywords))
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
