package nbayes

import (
	"fmt"
	"strings"
)

// DefaultAlphabet is the upper-case latin alphabet used for the reference vocabularies
const DefaultAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// VocabularyKind names a predefined feature vocabulary
type VocabularyKind string

// enum of predefined vocabularies, each one includes the previous
const (
	VocabLetters  VocabularyKind = "letters"  // single letters
	VocabBigrams  VocabularyKind = "bigrams"  // letters and all two-letter combinations
	VocabTrigrams VocabularyKind = "trigrams" // letters, bigrams and all three-letter combinations
)

// MaxN returns the longest n-gram length of the vocabulary kind
func (k VocabularyKind) MaxN() (int, error) {
	switch k {
	case VocabLetters:
		return 1, nil
	case VocabBigrams:
		return 2, nil
	case VocabTrigrams:
		return 3, nil
	}
	return 0, fmt.Errorf("unknown vocabulary %q", string(k))
}

// Letters returns one pattern per distinct rune of the alphabet
func Letters(alphabet string) []string {
	return NGrams(alphabet, 1)
}

// NGrams returns all combinations of n runes from the alphabet in lexicographic order of the alphabet.
// Duplicated runes in the alphabet are ignored. Returns nil for n < 1 or an empty alphabet.
func NGrams(alphabet string, n int) []string {
	runes := uniqueRunes(alphabet)
	if n < 1 || len(runes) == 0 {
		return nil
	}

	res := []string{""}
	for range n {
		next := make([]string, 0, len(res)*len(runes))
		for _, prefix := range res {
			for _, r := range runes {
				next = append(next, prefix+string(r))
			}
		}
		res = next
	}
	return res
}

// Vocabulary returns all n-grams of the alphabet for n in [1, maxN], shorter ones first
func Vocabulary(alphabet string, maxN int) []string {
	var res []string
	for n := 1; n <= maxN; n++ {
		res = append(res, NGrams(alphabet, n)...)
	}
	return res
}

// ParseVocabulary builds the named vocabulary over the alphabet, DefaultAlphabet is used if alphabet is empty
func ParseVocabulary(kind, alphabet string) ([]string, error) {
	maxN, err := VocabularyKind(strings.ToLower(strings.TrimSpace(kind))).MaxN()
	if err != nil {
		return nil, err
	}
	if alphabet == "" {
		alphabet = DefaultAlphabet
	}
	return Vocabulary(alphabet, maxN), nil
}

func uniqueRunes(s string) []rune {
	seen := make(map[rune]struct{}, len(s))
	res := make([]rune, 0, len(s))
	for _, r := range s {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		res = append(res, r)
	}
	return res
}
