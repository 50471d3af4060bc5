package emotion

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
)

var (
	ErrClassification = errors.New("classification failed")
	ErrInvalidConfig  = errors.New("invalid pipeline config")
)

// Prediction is the classifier's categorical distribution for one window,
// plus its top-1 pick.
type Prediction struct {
	Emotion    Label             `json:"emotion"`
	Confidence float64           `json:"confidence"`
	Scores     map[Label]float64 `json:"all_scores"`
}

// Classifier is the port to the pretrained emotion model. Implementations
// must be deterministic for fixed weights, carry no cross-call state, and be
// safe for concurrent use: segments are analytically independent and the
// pipeline may classify them in parallel.
type Classifier interface {
	Classify(ctx context.Context, samples []float64, sampleRate int) (Prediction, error)
}

// validatePrediction rejects malformed classifier output before it can
// corrupt the timeline.
func validatePrediction(p Prediction) error {
	if _, ok := ParseLabel(string(p.Emotion)); !ok {
		return fmt.Errorf("%w: unknown emotion %q", ErrClassification, p.Emotion)
	}
	if p.Confidence < 0 || p.Confidence > 1 || math.IsNaN(p.Confidence) {
		return fmt.Errorf("%w: confidence %v out of range", ErrClassification, p.Confidence)
	}
	if len(p.Scores) == 0 {
		return fmt.Errorf("%w: empty score map", ErrClassification)
	}
	sum := 0.0
	for _, v := range p.Scores {
		sum += v
	}
	if math.Abs(sum-1.0) > 1e-3 {
		return fmt.Errorf("%w: probabilities sum to %.4f", ErrClassification, sum)
	}
	return nil
}

// ClassifierFactory builds the shared classifier on first use and hands the
// same instance to every caller afterwards. The model stays read-only after
// construction, so the single instance is safe to share across requests.
type ClassifierFactory struct {
	once  sync.Once
	build func() (Classifier, error)

	classifier Classifier
	err        error
}

func NewClassifierFactory(build func() (Classifier, error)) *ClassifierFactory {
	return &ClassifierFactory{build: build}
}

// Get returns the shared classifier, constructing it exactly once. A failed
// construction is sticky: every later call reports the same error.
func (f *ClassifierFactory) Get() (Classifier, error) {
	f.once.Do(func() {
		f.classifier, f.err = f.build()
	})
	return f.classifier, f.err
}
