package services

import (
	"strings"
)

// defaultProfanityWords is intentionally short; PROFANITY_WORDS in the
// environment replaces it with a comma-separated list.
var defaultProfanityWords = []string{
	"fuck", "shit", "bitch", "asshole", "bastard", "cunt", "dick", "slut", "whore",
}

var leetReplacer = strings.NewReplacer(
	"0", "o",
	"1", "i",
	"3", "e",
	"4", "a",
	"5", "s",
	"7", "t",
	"@", "a",
	"$", "s",
	"!", "i",
)

type ProfanityFilter struct {
	words map[string]struct{}
}

func NewProfanityFilter(words []string) *ProfanityFilter {
	if len(words) == 0 {
		words = defaultProfanityWords
	}
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			set[w] = struct{}{}
		}
	}
	return &ProfanityFilter{words: set}
}

// ContainsProfanity reports whether any word of the content, lowercased and
// with common leetspeak substitutions undone, is on the wordlist.
func (f *ProfanityFilter) ContainsProfanity(content string) bool {
	normalized := leetReplacer.Replace(strings.ToLower(content))
	words := strings.FieldsFunc(normalized, func(r rune) bool {
		return !('a' <= r && r <= 'z')
	})
	for _, w := range words {
		if _, ok := f.words[w]; ok {
			return true
		}
	}
	return false
}
