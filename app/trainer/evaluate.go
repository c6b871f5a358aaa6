package trainer

import (
	"context"
	"fmt"

	"github.com/substrbayes/nbclass/lib/textprep"
)

// Report is a result of evaluation on labelled test files
type Report struct {
	Classes   []string     `json:"classes"`
	Confusion [][]int      `json:"confusion"` // confusion[expected][predicted]
	Results   []EvalResult `json:"results"`
	Total     int          `json:"total"`
	Correct   int          `json:"correct"`
}

// EvalResult is a single evaluated example
type EvalResult struct {
	Text      string  `json:"text"`
	Expected  int     `json:"expected"`
	Predicted int     `json:"predicted"`
	Posterior float64 `json:"posterior"` // posterior of the predicted class
}

// Accuracy returns a share of correctly classified examples, 0 for empty report
func (r Report) Accuracy() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Correct) / float64(r.Total)
}

// Recall returns a share of examples of the class classified correctly, 0 if there are none
func (r Report) Recall(class int) float64 {
	total := 0
	for _, n := range r.Confusion[class] {
		total += n
	}
	if total == 0 {
		return 0
	}
	return float64(r.Confusion[class][class]) / float64(total)
}

// Precision returns a share of correct predictions among examples predicted as the class, 0 if there are none
func (r Report) Precision(class int) float64 {
	total := 0
	for i := range r.Confusion {
		total += r.Confusion[i][class]
	}
	if total == 0 {
		return 0
	}
	return float64(r.Confusion[class][class]) / float64(total)
}

// Evaluate classifies every line of test files, files[i] holds examples of class i.
// Empty file names are skipped.
func (t *Trainer) Evaluate(ctx context.Context, files []string) (Report, error) {
	if len(files) > len(t.params.Classes) {
		return Report{}, fmt.Errorf("%d test files for %d classes", len(files), len(t.params.Classes))
	}
	n := len(t.params.Classes)
	rep := Report{Classes: t.ClassNames(), Confusion: make([][]int, n), Results: []EvalResult{}}
	for i := range rep.Confusion {
		rep.Confusion[i] = make([]int, n)
	}

	for expected, file := range files {
		if file == "" {
			continue
		}
		lines, err := textprep.ReadFile(file)
		if err != nil {
			return Report{}, fmt.Errorf("can't read test file: %w", err)
		}
		for _, line := range lines {
			if err := ctx.Err(); err != nil {
				return Report{}, fmt.Errorf("evaluation interrupted: %w", err)
			}
			res, err := t.Classify(line)
			if err != nil {
				return Report{}, err
			}
			rep.Confusion[expected][res.Class]++
			rep.Results = append(rep.Results, EvalResult{Text: res.Text, Expected: expected,
				Predicted: res.Class, Posterior: res.Posterior})
			rep.Total++
			if res.Class == expected {
				rep.Correct++
			}
		}
	}
	return rep, nil
}
