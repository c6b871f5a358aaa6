// Package trainer owns the live classifier. It loads labelled samples from per-class files and
// the samples storage, learns new examples on the fly and persists them, classifies cleaned text
// and reloads everything when sample files change.
package trainer

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-pkgz/fileutils"
	"github.com/hashicorp/go-multierror"

	"github.com/substrbayes/nbclass/app/storage"
	"github.com/substrbayes/nbclass/lib/nbayes"
	"github.com/substrbayes/nbclass/lib/textprep"
)

//go:generate moq --out mocks/samples_store.go --pkg mocks --skip-ensure --with-resets . SamplesStore
//go:generate moq --out mocks/sample_updater.go --pkg mocks --skip-ensure --with-resets . SampleUpdater

// ErrEmptyText returned when the text has nothing left after cleanup
var ErrEmptyText = errors.New("empty text after cleanup")

// ErrUnknownClass returned for a class index or name not configured
var ErrUnknownClass = errors.New("unknown class")

// ErrSampleNotFound returned by Forget if the class has no such learned sample
var ErrSampleNotFound = storage.ErrSampleNotFound

// Trainer keeps the classifier built from samples and swaps it on reload
type Trainer struct {
	params     Config
	lock       sync.RWMutex
	classifier *nbayes.Classifier
	loaded     LoadResult
	generation atomic.Uint64
}

// Config is a set of trainer parameters
type Config struct {
	Classes     []Class              // ordered classes, the index of a class is its label
	Patterns    []string             // feature vocabulary
	Matcher     nbayes.Matcher       // presence test, substring if nil
	Store       SamplesStore         // optional samples storage, merged into every reload
	StoreOrigin storage.SampleOrigin // origin of stored samples to load, all if empty
	Updaters    []SampleUpdater      // optional per-class persistence for trained examples, same order as Classes
	WatchDelay  time.Duration        // debounce delay for file watcher
}

// Class describes a single class and its sample sources
type Class struct {
	Name        string // display name
	SamplesFile string // preset samples, required if set
	DynamicFile string // samples learned live, optional
}

// SamplesStore is a storage of labelled samples
type SamplesStore interface {
	Iterator(ctx context.Context, o storage.SampleOrigin) (iter.Seq[storage.Sample], error)
}

// SampleUpdater persists learned samples of a single class
type SampleUpdater interface {
	Append(msg string) error
	Remove(msg string) error
}

// LoadResult reports what was loaded by Reload
type LoadResult struct {
	ByClass []int `json:"by_class"` // examples per class, files and storage together
	Stored  int   `json:"stored"`   // examples read from storage
	Skipped int   `json:"skipped"`  // stored examples with a class out of range
}

// Total returns the number of loaded examples
func (r LoadResult) Total() int {
	res := 0
	for _, n := range r.ByClass {
		res += n
	}
	return res
}

// String implements Stringer
func (r LoadResult) String() string {
	return fmt.Sprintf("total: %d, by class: %v, stored: %d, skipped: %d", r.Total(), r.ByClass, r.Stored, r.Skipped)
}

// Result is a classification outcome
type Result struct {
	Class     int            `json:"class"`
	Name      string         `json:"name"`
	Posterior float64        `json:"posterior"`
	Scores    []nbayes.Score `json:"scores"`
	Text      string         `json:"text"` // cleaned text the classifier has seen
}

// Stats is a snapshot of the trainer state
type Stats struct {
	Classes    []string     `json:"classes"`
	Classifier nbayes.Stats `json:"classifier"`
	Loaded     LoadResult   `json:"loaded"`
	Generation uint64       `json:"generation"`
}

// ClassSamples is a list of learned samples of a class
type ClassSamples struct {
	Class   int      `json:"class"`
	Name    string   `json:"name"`
	Samples []string `json:"samples"`
}

// New makes a trainer with an empty classifier, call Reload to load samples
func New(params Config) (*Trainer, error) {
	if len(params.Updaters) > 0 && len(params.Updaters) != len(params.Classes) {
		return nil, fmt.Errorf("updaters count %d doesn't match classes count %d", len(params.Updaters), len(params.Classes))
	}
	res := &Trainer{params: params}
	c, err := res.makeClassifier()
	if err != nil {
		return nil, err
	}
	res.classifier = c
	res.loaded = LoadResult{ByClass: make([]int, len(params.Classes))}
	return res, nil
}

// Reload builds a new classifier from sample files and storage and swaps it in.
// On any error the current classifier stays untouched.
func (t *Trainer) Reload(ctx context.Context) (LoadResult, error) {
	log.Printf("[DEBUG] reloading samples")
	c, err := t.makeClassifier()
	if err != nil {
		return LoadResult{}, err
	}

	lr := LoadResult{ByClass: make([]int, len(t.params.Classes))}
	errs := new(multierror.Error)
	for i, cls := range t.params.Classes {
		if cls.SamplesFile != "" {
			n, e := trainFile(c, cls.SamplesFile, i)
			errs = multierror.Append(errs, e)
			lr.ByClass[i] += n
		}
		// dynamic samples are optional
		if cls.DynamicFile != "" && fileutils.IsFile(cls.DynamicFile) {
			n, e := trainFile(c, cls.DynamicFile, i)
			errs = multierror.Append(errs, e)
			lr.ByClass[i] += n
		}
	}
	if err := errs.ErrorOrNil(); err != nil {
		return LoadResult{}, fmt.Errorf("failed to load samples: %w", err)
	}

	if t.params.Store != nil {
		if err := t.trainStored(ctx, c, &lr); err != nil {
			return LoadResult{}, err
		}
	}

	t.lock.Lock()
	t.classifier = c
	t.loaded = lr
	t.lock.Unlock()
	t.generation.Add(1)
	log.Printf("[INFO] loaded samples, %s", lr)
	return lr, nil
}

// Train persists a single example with the class updater, if any, and learns it.
// Nothing is learned if persisting failed. An example trained while Reload is running
// may be missing from the reloaded classifier until the next reload picks it from storage.
func (t *Trainer) Train(text string, class int) error {
	if err := t.checkClass(class); err != nil {
		return err
	}
	clean := textprep.Clean(text)
	if clean == "" {
		return ErrEmptyText
	}
	log.Printf("[DEBUG] train %q as %s", clean, t.params.Classes[class].Name)

	if len(t.params.Updaters) > 0 && t.params.Updaters[class] != nil {
		if err := t.params.Updaters[class].Append(clean); err != nil {
			return fmt.Errorf("can't persist %s sample: %w", t.params.Classes[class].Name, err)
		}
	}

	t.lock.Lock()
	defer t.lock.Unlock()
	if err := t.classifier.Train(clean, class); err != nil {
		return fmt.Errorf("can't train classifier: %w", err)
	}
	t.loaded.ByClass[class]++
	t.generation.Add(1)
	return nil
}

// Forget removes a learned example from the class persistence and reloads samples.
// Counters can't be decremented, so the classifier is rebuilt from scratch.
func (t *Trainer) Forget(ctx context.Context, text string, class int) error {
	if err := t.checkClass(class); err != nil {
		return err
	}
	if len(t.params.Updaters) == 0 || t.params.Updaters[class] == nil {
		return fmt.Errorf("no sample updater for class %s", t.params.Classes[class].Name)
	}
	clean := textprep.Clean(text)
	if clean == "" {
		return ErrEmptyText
	}
	if err := t.params.Updaters[class].Remove(clean); err != nil {
		return fmt.Errorf("can't remove %s sample: %w", t.params.Classes[class].Name, err)
	}
	if _, err := t.Reload(ctx); err != nil {
		return fmt.Errorf("failed to reload samples after removal: %w", err)
	}
	return nil
}

// Classify cleans the text and returns the most probable class with the full posterior
func (t *Trainer) Classify(text string) (Result, error) {
	clean := textprep.Clean(text)
	if clean == "" {
		return Result{}, ErrEmptyText
	}
	scores, err := t.current().Scores(clean)
	if err != nil {
		return Result{}, fmt.Errorf("can't classify %q: %w", clean, err)
	}
	// same argmax as Classifier.Classify, lowest class wins ties
	class := 0
	for i := 1; i < len(scores); i++ {
		if scores[i].Score > scores[class].Score {
			class = i
		}
	}
	return Result{Class: class, Name: t.params.Classes[class].Name, Posterior: scores[class].Posterior,
		Scores: scores, Text: clean}, nil
}

// ClassIndex returns the index of the class by name, case-insensitive
func (t *Trainer) ClassIndex(name string) (int, error) {
	for i, cls := range t.params.Classes {
		if strings.EqualFold(cls.Name, strings.TrimSpace(name)) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownClass, name)
}

// ClassNames returns names of all classes in label order
func (t *Trainer) ClassNames() []string {
	res := make([]string, len(t.params.Classes))
	for i, cls := range t.params.Classes {
		res[i] = cls.Name
	}
	return res
}

// Samples returns learned samples per class, from dynamic files and user samples in storage
func (t *Trainer) Samples(ctx context.Context) ([]ClassSamples, error) {
	res := make([]ClassSamples, len(t.params.Classes))
	errs := new(multierror.Error)
	for i, cls := range t.params.Classes {
		res[i] = ClassSamples{Class: i, Name: cls.Name, Samples: []string{}}
		if cls.DynamicFile == "" || !fileutils.IsFile(cls.DynamicFile) {
			continue
		}
		lines, err := textprep.ReadFile(cls.DynamicFile)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		res[i].Samples = append(res[i].Samples, lines...)
	}

	if t.params.Store != nil {
		samples, err := t.params.Store.Iterator(ctx, storage.SampleOriginUser)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("can't read stored samples: %w", err))
		} else {
			for s := range samples {
				if s.Class >= 0 && s.Class < len(res) {
					res[s.Class].Samples = append(res[s.Class].Samples, s.Message)
				}
			}
		}
	}
	return res, errs.ErrorOrNil()
}

// Stats returns the trainer state
func (t *Trainer) Stats() Stats {
	t.lock.RLock()
	c, loaded := t.classifier, t.loaded
	loaded.ByClass = append([]int(nil), t.loaded.ByClass...)
	t.lock.RUnlock()
	return Stats{Classes: t.ClassNames(), Classifier: c.Stats(), Loaded: loaded, Generation: t.Generation()}
}

// Generation is incremented on every change of the classifier, train or reload
func (t *Trainer) Generation() uint64 {
	return t.generation.Load()
}

func (t *Trainer) current() *nbayes.Classifier {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return t.classifier
}

func (t *Trainer) checkClass(class int) error {
	if class < 0 || class >= len(t.params.Classes) {
		return fmt.Errorf("%w: %d, classes: %d", ErrUnknownClass, class, len(t.params.Classes))
	}
	return nil
}

func (t *Trainer) makeClassifier() (*nbayes.Classifier, error) {
	var opts []nbayes.Option
	if t.params.Matcher != nil {
		opts = append(opts, nbayes.WithMatcher(t.params.Matcher))
	}
	c, err := nbayes.New(len(t.params.Classes), t.params.Patterns, opts...)
	if err != nil {
		return nil, fmt.Errorf("can't make classifier: %w", err)
	}
	return c, nil
}

// trainStored trains the classifier with all samples from storage
func (t *Trainer) trainStored(ctx context.Context, c *nbayes.Classifier, lr *LoadResult) error {
	origin := t.params.StoreOrigin
	if origin == "" {
		origin = storage.SampleOriginAny
	}
	samples, err := t.params.Store.Iterator(ctx, origin)
	if err != nil {
		return fmt.Errorf("can't read stored samples: %w", err)
	}
	for s := range samples {
		clean := textprep.Clean(s.Message)
		if s.Class >= c.NumClasses() || clean == "" {
			log.Printf("[WARN] skip stored sample %d, class %d, %q", s.ID, s.Class, textprep.Truncate(s.Message, 64))
			lr.Skipped++
			continue
		}
		if err := c.Train(clean, s.Class); err != nil {
			return fmt.Errorf("can't train stored sample %d: %w", s.ID, err)
		}
		lr.ByClass[s.Class]++
		lr.Stored++
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("reading stored samples interrupted: %w", err)
	}
	return nil
}

// trainFile trains the classifier with every cleaned line of the file as class example
func trainFile(c *nbayes.Classifier, path string, class int) (int, error) {
	lines, err := textprep.ReadFile(path)
	if err != nil {
		return 0, err
	}
	for _, line := range lines {
		if err := c.Train(line, class); err != nil {
			return 0, fmt.Errorf("can't train %s: %w", path, err)
		}
	}
	log.Printf("[DEBUG] loaded %d samples from %s", len(lines), path)
	return len(lines), nil
}
