package nbayes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNGrams(t *testing.T) {
	assert.Equal(t, []string{"A", "B", "C"}, NGrams("ABC", 1))
	assert.Equal(t, []string{"AA", "AB", "BA", "BB"}, NGrams("AB", 2))
	assert.Equal(t, []string{"A", "B"}, NGrams("ABBA", 1), "duplicated runes ignored")
	assert.Nil(t, NGrams("ABC", 0))
	assert.Nil(t, NGrams("", 2))
	assert.Len(t, NGrams(DefaultAlphabet, 3), 26*26*26)
	assert.Equal(t, []string{"ÄÄ", "ÄB", "BÄ", "BB"}, NGrams("ÄB", 2))
}

func TestLetters(t *testing.T) {
	letters := Letters(DefaultAlphabet)
	require.Len(t, letters, 26)
	assert.Equal(t, "A", letters[0])
	assert.Equal(t, "Z", letters[25])
}

func TestVocabulary(t *testing.T) {
	v := Vocabulary("AB", 2)
	assert.Equal(t, []string{"A", "B", "AA", "AB", "BA", "BB"}, v)
	assert.Empty(t, Vocabulary("AB", 0))
}

func TestParseVocabulary(t *testing.T) {
	tests := []struct {
		kind     string
		alphabet string
		wantLen  int
		wantErr  bool
	}{
		{kind: "letters", wantLen: 26},
		{kind: "bigrams", wantLen: 26 + 26*26},
		{kind: "trigrams", wantLen: 26 + 26*26 + 26*26*26},
		{kind: " Bigrams ", alphabet: "XY", wantLen: 2 + 4},
		{kind: "words", wantErr: true},
		{kind: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			v, err := ParseVocabulary(tt.kind, tt.alphabet)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, v, tt.wantLen)
		})
	}
}
