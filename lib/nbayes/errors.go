package nbayes

import "errors"

// errors returned by Feature and Classifier, wrapped with call details
var (
	ErrInvalidClass        = errors.New("invalid class index")
	ErrInvalidPresence     = errors.New("invalid feature presence")
	ErrNoTrainingData      = errors.New("no training data")
	ErrDegeneratePosterior = errors.New("degenerate posterior, all class scores are zero")
	ErrEmptyVocabulary     = errors.New("empty feature vocabulary")
	ErrTooFewClasses       = errors.New("at least two classes required")
	ErrInvalidPattern      = errors.New("invalid feature pattern")
)
