package nbayes

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
)

// Matcher decides if a feature pattern is present in a text.
// Implementations must be deterministic for the same (pattern, text) pair.
type Matcher interface {
	Match(pattern, text string) bool
}

// PatternValidator is implemented by matchers rejecting some patterns, checked when a feature is made
type PatternValidator interface {
	Validate(pattern string) error
}

// MatcherFunc is an adapter to use ordinary functions as Matcher
type MatcherFunc func(pattern, text string) bool

// Match calls f(pattern, text)
func (f MatcherFunc) Match(pattern, text string) bool { return f(pattern, text) }

// SubstringMatcher matches pattern as a literal, case-sensitive substring. This is the default.
type SubstringMatcher struct{}

// Match returns true if text contains pattern
func (SubstringMatcher) Match(pattern, text string) bool { return strings.Contains(text, pattern) }

// FoldMatcher matches pattern as a literal substring ignoring case
type FoldMatcher struct{}

// Match returns true if text contains pattern under Unicode case folding
func (FoldMatcher) Match(pattern, text string) bool {
	return strings.Contains(strings.ToLower(text), strings.ToLower(pattern))
}

// RegexpMatcher treats patterns as regular expressions. Compiled expressions are cached,
// invalid expressions never match and are rejected by Validate.
type RegexpMatcher struct {
	mu    sync.RWMutex
	cache map[string]*regexp.Regexp
}

// NewRegexpMatcher makes a RegexpMatcher with an empty cache
func NewRegexpMatcher() *RegexpMatcher {
	return &RegexpMatcher{cache: make(map[string]*regexp.Regexp)}
}

// Validate returns ErrInvalidPattern if the pattern can't be compiled
func (m *RegexpMatcher) Validate(pattern string) error {
	if _, err := regexp.Compile(pattern); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}
	return nil
}

// Match returns true if the compiled pattern matches text
func (m *RegexpMatcher) Match(pattern, text string) bool {
	re := m.compile(pattern)
	if re == nil {
		return false
	}
	return re.MatchString(text)
}

func (m *RegexpMatcher) compile(pattern string) *regexp.Regexp {
	m.mu.RLock()
	re, ok := m.cache[pattern]
	m.mu.RUnlock()
	if ok {
		return re
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		re = nil // cache the failure as well
	}
	m.mu.Lock()
	if m.cache == nil {
		m.cache = make(map[string]*regexp.Regexp)
	}
	m.cache[pattern] = re
	m.mu.Unlock()
	return re
}
