// Package nbayes implements a multi-class naive Bayes classifier over boolean substring features.
//
// Each feature is a pattern (a letter, a bigram, a trigram or anything else the caller provides)
// and takes value 1 if the pattern is present in a text and 0 otherwise. Conditional probabilities
// P(feature=v | class) are estimated from counts with additive smoothing, (count+1)/(total+3), and
// combined under the independence assumption. Classify returns the maximum a posteriori class,
// ties go to the lowest class index.
//
// The classifier performs no text normalization, patterns are matched against whatever is passed in.
// Use textprep.Clean to get upper-cased, letters-only text for the predefined vocabularies.
//
// Classifier is thread-safe, training calls are serialized and queries run concurrently.
package nbayes

import (
	"fmt"
	"sync"
)

// Classifier is a naive Bayes classifier with a fixed feature set and a fixed number of classes
type Classifier struct {
	features    []*Feature
	classTotals []int
	lock        sync.RWMutex
}

// Score is a per-class breakdown of a classification
type Score struct {
	Class      int     `json:"class"`
	Prior      float64 `json:"prior"`
	Likelihood float64 `json:"likelihood"`
	Score      float64 `json:"score"`     // prior * likelihood
	Posterior  float64 `json:"posterior"` // score normalized over all classes
}

// Stats is a snapshot of classifier counters
type Stats struct {
	NumClasses  int   `json:"num_classes"`
	NumFeatures int   `json:"num_features"`
	ClassTotals []int `json:"class_totals"`
	Examples    int   `json:"examples"`
}

// Option sets optional classifier parameters
type Option func(*options)

type options struct {
	matcher Matcher
}

// WithMatcher sets the matcher used by all features, SubstringMatcher by default
func WithMatcher(m Matcher) Option {
	return func(o *options) { o.matcher = m }
}

// New makes a classifier for numClasses classes with one feature per distinct pattern.
// Patterns keep the order of their first occurrence.
func New(numClasses int, patterns []string, opts ...Option) (*Classifier, error) {
	if numClasses < 2 {
		return nil, fmt.Errorf("can't make classifier with %d classes: %w", numClasses, ErrTooFewClasses)
	}
	o := options{matcher: SubstringMatcher{}}
	for _, opt := range opts {
		opt(&o)
	}

	res := &Classifier{classTotals: make([]int, numClasses)}
	seen := make(map[string]struct{}, len(patterns))
	for _, p := range patterns {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		f, err := NewFeature(p, numClasses, o.matcher)
		if err != nil {
			return nil, fmt.Errorf("can't make classifier: %w", err)
		}
		res.features = append(res.features, f)
	}
	if len(res.features) == 0 {
		return nil, fmt.Errorf("can't make classifier: %w", ErrEmptyVocabulary)
	}
	return res, nil
}

// Train adds a labeled example. Every feature records its presence for the class.
func (c *Classifier) Train(text string, class int) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	// validate up front, a failure in the middle of the loop would break count invariants
	if err := c.checkClass(class); err != nil {
		return err
	}
	for _, f := range c.features {
		if err := f.Record(f.IsPresent(text), class); err != nil {
			return fmt.Errorf("can't record %q: %w", f.Pattern(), err)
		}
	}
	c.classTotals[class]++
	return nil
}

// Prior returns P(class) estimated from class frequencies
func (c *Classifier) Prior(class int) (float64, error) {
	c.lock.RLock()
	defer c.lock.RUnlock()
	if err := c.checkClass(class); err != nil {
		return 0, err
	}
	return c.prior(class)
}

// Likelihood returns P(features of text | class) under the independence assumption
func (c *Classifier) Likelihood(class int, text string) (float64, error) {
	c.lock.RLock()
	defer c.lock.RUnlock()
	if err := c.checkClass(class); err != nil {
		return 0, err
	}
	return c.likelihood(class, c.presence(text)), nil
}

// Classify returns the class with the maximal prior * likelihood.
// On ties the lowest class index wins.
func (c *Classifier) Classify(text string) (int, error) {
	c.lock.RLock()
	defer c.lock.RUnlock()

	scores, err := c.scores(text)
	if err != nil {
		return 0, err
	}
	best := 0
	for class := 1; class < len(scores); class++ {
		if scores[class] > scores[best] {
			best = class
		}
	}
	return best, nil
}

// Posterior returns P(class | features of text) by Bayes rule.
// Returns ErrDegeneratePosterior if every class score is zero.
func (c *Classifier) Posterior(class int, text string) (float64, error) {
	c.lock.RLock()
	defer c.lock.RUnlock()

	if err := c.checkClass(class); err != nil {
		return 0, err
	}
	posteriors, err := c.posteriors(text)
	if err != nil {
		return 0, err
	}
	return posteriors[class], nil
}

// Posteriors returns the posterior distribution over all classes, indexed by class
func (c *Classifier) Posteriors(text string) ([]float64, error) {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.posteriors(text)
}

// Scores returns a per-class breakdown for text, indexed by class
func (c *Classifier) Scores(text string) ([]Score, error) {
	c.lock.RLock()
	defer c.lock.RUnlock()

	present := c.presence(text)
	res := make([]Score, len(c.classTotals))
	sum := 0.0
	for class := range c.classTotals {
		prior, err := c.prior(class)
		if err != nil {
			return nil, err
		}
		lk := c.likelihood(class, present)
		res[class] = Score{Class: class, Prior: prior, Likelihood: lk, Score: prior * lk}
		sum += prior * lk
	}
	if sum == 0 {
		return nil, fmt.Errorf("scores for %q: %w", text, ErrDegeneratePosterior)
	}
	for i := range res {
		res[i].Posterior = res[i].Score / sum
	}
	return res, nil
}

// Reset drops all training counts, the feature set is kept
func (c *Classifier) Reset() {
	c.lock.Lock()
	defer c.lock.Unlock()
	for _, f := range c.features {
		f.reset()
	}
	for i := range c.classTotals {
		c.classTotals[i] = 0
	}
}

// NumClasses returns the number of classes
func (c *Classifier) NumClasses() int { return len(c.classTotals) }

// Patterns returns feature patterns in classifier order
func (c *Classifier) Patterns() []string {
	res := make([]string, len(c.features))
	for i, f := range c.features {
		res[i] = f.Pattern()
	}
	return res
}

// ClassTotals returns a copy of per-class example counts
func (c *Classifier) ClassTotals() []int {
	c.lock.RLock()
	defer c.lock.RUnlock()
	res := make([]int, len(c.classTotals))
	copy(res, c.classTotals)
	return res
}

// Stats returns a snapshot of classifier counters
func (c *Classifier) Stats() Stats {
	totals := c.ClassTotals()
	res := Stats{NumClasses: len(totals), NumFeatures: len(c.features), ClassTotals: totals}
	for _, t := range totals {
		res.Examples += t
	}
	return res
}

func (c *Classifier) scores(text string) ([]float64, error) {
	present := c.presence(text)
	res := make([]float64, len(c.classTotals))
	for class := range c.classTotals {
		prior, err := c.prior(class)
		if err != nil {
			return nil, err
		}
		res[class] = prior * c.likelihood(class, present)
	}
	return res, nil
}

func (c *Classifier) posteriors(text string) ([]float64, error) {
	scores, err := c.scores(text)
	if err != nil {
		return nil, err
	}
	sum := 0.0
	for _, s := range scores {
		sum += s
	}
	if sum == 0 {
		return nil, fmt.Errorf("posterior for %q: %w", text, ErrDegeneratePosterior)
	}
	for i := range scores {
		scores[i] /= sum
	}
	return scores, nil
}

func (c *Classifier) prior(class int) (float64, error) {
	total := 0
	for _, t := range c.classTotals {
		total += t
	}
	if total == 0 {
		return 0, ErrNoTrainingData
	}
	return float64(c.classTotals[class]) / float64(total), nil
}

// likelihood multiplies per-feature probabilities for precomputed presence values
func (c *Classifier) likelihood(class int, present []int) float64 {
	res := 1.0
	for i, f := range c.features {
		res *= f.prob(present[i], class)
	}
	return res
}

// presence evaluates every feature on text once, in feature order
func (c *Classifier) presence(text string) []int {
	res := make([]int, len(c.features))
	for i, f := range c.features {
		res[i] = f.IsPresent(text)
	}
	return res
}

func (c *Classifier) checkClass(class int) error {
	if class < 0 || class >= len(c.classTotals) {
		return fmt.Errorf("class %d of %d: %w", class, len(c.classTotals), ErrInvalidClass)
	}
	return nil
}
