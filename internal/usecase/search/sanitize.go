package search

import "strings"

// MaxQueryLength is the number of characters of a query that are considered.
const MaxQueryLength = 128

// punctuation is trimmed from both ends of a query and of every token.
const punctuation = " ,./<>?;':\"\\[]}{|=-`~_+)(*&^%$#@!"

// IsValid reports whether raw holds anything besides punctuation.
// A nil query is invalid.
func IsValid(raw *string) bool {
	if raw == nil {
		return false
	}
	return strings.Trim(*raw, punctuation) != ""
}

// Tokenize splits a query into search terms. Spaces, '<' and '>' separate
// terms; '_' stands for a space inside a term. Only the first
// MaxQueryLength characters are read.
func Tokenize(raw string) []string {
	return tokenize(raw, MaxQueryLength)
}

func tokenize(raw string, limit int) []string {
	if r := []rune(raw); len(r) > limit {
		raw = string(r[:limit])
	}
	if raw == "" {
		return []string{}
	}

	s := strings.Trim(raw, punctuation)
	s = strings.NewReplacer(" ", ",", "<", ",", ">", ",", "_", " ").Replace(s)

	tokens := []string{}
	for _, piece := range strings.Split(s, ",") {
		if piece = strings.Trim(piece, punctuation); piece != "" {
			tokens = append(tokens, piece)
		}
	}
	return tokens
}
