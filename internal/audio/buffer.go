package audio

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput  = errors.New("invalid audio input")
	ErrInvalidConfig = errors.New("invalid segmentation config")
)

// Buffer holds a mono audio signal at a fixed sample rate. Resampling and
// channel mixing happen at decode time; everything downstream assumes the
// rate never changes within one analysis.
type Buffer struct {
	Samples    []float64
	SampleRate int
}

func (b Buffer) Duration() float64 {
	if b.SampleRate <= 0 {
		return 0
	}
	return float64(len(b.Samples)) / float64(b.SampleRate)
}

func (b Buffer) Validate() error {
	if len(b.Samples) == 0 {
		return fmt.Errorf("%w: empty buffer", ErrInvalidInput)
	}
	if b.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %d", ErrInvalidInput, b.SampleRate)
	}
	return nil
}
