package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanKeywords(t *testing.T) {
	got := CleanKeywords(
		[]string{" ~Sunset", "BEACH~ ", "ignored", "beach", "~", "Do~g"},
		"~",
		[]string{" IGNORED ", "other"},
	)

	assert.Equal(t, []string{"Sunset", "Beach", "Beach", "Dog"}, got)
}

func TestCleanKeywordsIdempotent(t *testing.T) {
	inputs := [][]string{
		{"  hello World ", "~x~", "a b", "skip"},
		{"~ spaced ~", "ÆØÅ"},
		{},
	}
	for _, in := range inputs {
		once := CleanKeywords(in, "~", []string{"skip"})
		twice := CleanKeywords(once, "~", []string{"skip"})
		assert.Equal(t, once, twice)
	}
}

func TestCleanKeywordsMultipleTrimCharacters(t *testing.T) {
	assert.Equal(t, []string{"Tree"}, CleanKeywords([]string{"#tr*ee*"}, "#*", nil))
}

func TestSplitKeywords(t *testing.T) {
	assert.Equal(t, []string{"sea", "boats", "sky"}, SplitKeywords("sea, boats,,  sky "))
	assert.Empty(t, SplitKeywords(""))
	assert.NotNil(t, SplitKeywords(""))
	assert.Equal(t, "a, b", JoinKeywords([]string{"a", "b"}))
}
