package nbayes

import "fmt"

// additive smoothing constants. The denominator pseudo-total is 3, not 2,
// this is the reference behaviour and counts-based tests depend on it.
const (
	numeratorSmoothing   = 1
	denominatorSmoothing = 3
)

// Feature keeps counts for one boolean substring feature across all classes.
// counts[class][presence] is the number of training examples of class with the feature
// absent (0) or present (1); totals[class] always equals counts[class][0] + counts[class][1].
// Feature is not thread-safe by itself, Classifier guards it.
type Feature struct {
	pattern string
	matcher Matcher
	counts  [][2]int
	totals  []int
}

// NewFeature makes a feature for the given pattern and number of classes.
// Nil matcher means SubstringMatcher.
func NewFeature(pattern string, numClasses int, matcher Matcher) (*Feature, error) {
	if numClasses < 2 {
		return nil, fmt.Errorf("feature %q with %d classes: %w", pattern, numClasses, ErrTooFewClasses)
	}
	if pattern == "" {
		return nil, fmt.Errorf("empty feature pattern: %w", ErrEmptyVocabulary)
	}
	if matcher == nil {
		matcher = SubstringMatcher{}
	}
	if v, ok := matcher.(PatternValidator); ok {
		if err := v.Validate(pattern); err != nil {
			return nil, fmt.Errorf("feature %q: %w", pattern, err)
		}
	}
	return &Feature{
		pattern: pattern,
		matcher: matcher,
		counts:  make([][2]int, numClasses),
		totals:  make([]int, numClasses),
	}, nil
}

// Pattern returns the substring this feature detects
func (f *Feature) Pattern() string { return f.pattern }

// IsPresent returns 1 if the pattern occurs in text, 0 otherwise
func (f *Feature) IsPresent(text string) int {
	if f.matcher.Match(f.pattern, text) {
		return 1
	}
	return 0
}

// Record adds one training example of class with the given presence
func (f *Feature) Record(presence, class int) error {
	if err := f.check(presence, class); err != nil {
		return err
	}
	f.counts[class][presence]++
	f.totals[class]++
	return nil
}

// Probability returns smoothed P(feature=presence | class),
// (counts[class][presence] + 1) / (totals[class] + 3). The result is always in (0, 1).
func (f *Feature) Probability(presence, class int) (float64, error) {
	if err := f.check(presence, class); err != nil {
		return 0, err
	}
	return f.prob(presence, class), nil
}

// Count returns the raw count for class and presence, zero for invalid arguments
func (f *Feature) Count(presence, class int) int {
	if f.check(presence, class) != nil {
		return 0
	}
	return f.counts[class][presence]
}

// Total returns the number of examples of class seen by this feature, zero for invalid class
func (f *Feature) Total(class int) int {
	if class < 0 || class >= len(f.totals) {
		return 0
	}
	return f.totals[class]
}

// prob skips argument checks, used by the classifier in hot loops
func (f *Feature) prob(presence, class int) float64 {
	num := float64(f.counts[class][presence] + numeratorSmoothing)
	den := float64(f.totals[class] + denominatorSmoothing)
	return num / den
}

func (f *Feature) reset() {
	for i := range f.counts {
		f.counts[i] = [2]int{}
		f.totals[i] = 0
	}
}

func (f *Feature) check(presence, class int) error {
	if class < 0 || class >= len(f.counts) {
		return fmt.Errorf("feature %q, class %d of %d: %w", f.pattern, class, len(f.counts), ErrInvalidClass)
	}
	if presence != 0 && presence != 1 {
		return fmt.Errorf("feature %q, presence %d: %w", f.pattern, presence, ErrInvalidPresence)
	}
	return nil
}
