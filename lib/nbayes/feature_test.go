package nbayes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFeature(t *testing.T) {
	tests := []struct {
		name       string
		pattern    string
		numClasses int
		matcher    Matcher
		wantErr    error
	}{
		{name: "two classes", pattern: "A", numClasses: 2},
		{name: "five classes", pattern: "AB", numClasses: 5},
		{name: "one class", pattern: "A", numClasses: 1, wantErr: ErrTooFewClasses},
		{name: "empty pattern", pattern: "", numClasses: 2, wantErr: ErrEmptyVocabulary},
		{name: "valid regexp", pattern: "^A+$", numClasses: 2, matcher: NewRegexpMatcher()},
		{name: "invalid regexp", pattern: "[A", numClasses: 2, matcher: NewRegexpMatcher(), wantErr: ErrInvalidPattern},
		{name: "brackets as substring", pattern: "[A", numClasses: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewFeature(tt.pattern, tt.numClasses, tt.matcher)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, f)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.pattern, f.Pattern())
			assert.Len(t, f.counts, tt.numClasses)
			assert.Len(t, f.totals, tt.numClasses)
		})
	}
}

func TestFeature_IsPresent(t *testing.T) {
	f, err := NewFeature("AB", 2, nil)
	require.NoError(t, err)

	tests := []struct {
		text string
		want int
	}{
		{"AB", 1},
		{"CABD", 1},
		{"A B", 0},
		{"ab", 0}, // case-sensitive
		{"", 0},
		{"BA", 0},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, f.IsPresent(tt.text))
		})
	}
}

func TestFeature_RecordAndProbability(t *testing.T) {
	f, err := NewFeature("A", 3, nil)
	require.NoError(t, err)

	// nothing recorded, (0+1)/(0+3)
	for class := range 3 {
		for presence := range 2 {
			p, err := f.Probability(presence, class)
			require.NoError(t, err)
			assert.InDelta(t, 1.0/3.0, p, 1e-12)
		}
	}

	require.NoError(t, f.Record(1, 0))
	require.NoError(t, f.Record(1, 0))
	require.NoError(t, f.Record(0, 0))
	require.NoError(t, f.Record(0, 2))

	assert.Equal(t, 2, f.Count(1, 0))
	assert.Equal(t, 1, f.Count(0, 0))
	assert.Equal(t, 3, f.Total(0))
	assert.Equal(t, 0, f.Total(1))
	assert.Equal(t, 1, f.Total(2))

	p, err := f.Probability(1, 0)
	require.NoError(t, err)
	assert.InDelta(t, 3.0/6.0, p, 1e-12)

	p, err = f.Probability(0, 0)
	require.NoError(t, err)
	assert.InDelta(t, 2.0/6.0, p, 1e-12)

	p, err = f.Probability(0, 2)
	require.NoError(t, err)
	assert.InDelta(t, 2.0/4.0, p, 1e-12)

	p, err = f.Probability(1, 2)
	require.NoError(t, err)
	assert.InDelta(t, 1.0/4.0, p, 1e-12)
}

func TestFeature_InvalidArguments(t *testing.T) {
	f, err := NewFeature("A", 2, nil)
	require.NoError(t, err)

	assert.ErrorIs(t, f.Record(1, 2), ErrInvalidClass)
	assert.ErrorIs(t, f.Record(1, -1), ErrInvalidClass)
	assert.ErrorIs(t, f.Record(2, 0), ErrInvalidPresence)

	_, err = f.Probability(0, 5)
	assert.ErrorIs(t, err, ErrInvalidClass)
	_, err = f.Probability(-1, 0)
	assert.ErrorIs(t, err, ErrInvalidPresence)

	// rejected calls don't touch counters
	assert.Equal(t, 0, f.Total(0))
	assert.Equal(t, 0, f.Total(1))
	assert.Equal(t, 0, f.Count(1, 5))
	assert.Equal(t, 0, f.Total(7))
}

func TestFeature_ProbabilityBounds(t *testing.T) {
	f, err := NewFeature("A", 2, nil)
	require.NoError(t, err)
	for i := range 1000 {
		require.NoError(t, f.Record(i%2, 0))
		require.NoError(t, f.Record(1, 1)) // class 1 never sees absence
	}
	for class := range 2 {
		for presence := range 2 {
			p, err := f.Probability(presence, class)
			require.NoError(t, err)
			assert.Greater(t, p, 0.0)
			assert.Less(t, p, 1.0)
		}
		assert.Equal(t, f.Total(class), f.Count(0, class)+f.Count(1, class))
	}
}
