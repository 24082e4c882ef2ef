package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsProfanity(t *testing.T) {
	filter := NewProfanityFilter(nil)

	tests := []struct {
		name    string
		content string
		want    bool
	}{
		{"clean text", "what a lovely post", false},
		{"plain word", "fuck this", true},
		{"uppercase", "FUCK", true},
		{"leetspeak", "sh1t happens", true},
		{"punctuation boundary", "well, shit.", true},
		{"substring is not a match", "I love Scunthorpe", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, filter.ContainsProfanity(tt.content))
		})
	}
}

func TestProfanityFilterCustomWordlist(t *testing.T) {
	filter := NewProfanityFilter([]string{"tofu"})

	assert.True(t, filter.ContainsProfanity("no tofu allowed"))
	assert.False(t, filter.ContainsProfanity("fuck"))
}
