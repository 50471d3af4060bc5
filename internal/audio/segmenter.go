package audio

import (
	"fmt"
)

// Segment is one classifier-sized window of the signal. Samples are always
// exactly window-length (the tail is zero-padded), while StartTime/EndTime
// reflect the un-padded position in the recording.
type Segment struct {
	Samples        []float64
	Index          int
	StartTime      float64
	EndTime        float64
	StartFormatted string
	EndFormatted   string
}

// Segmenter slices a buffer into fixed-length overlapping windows.
type Segmenter struct {
	window  float64 // seconds
	overlap float64 // seconds
}

func NewSegmenter(window, overlap float64) (*Segmenter, error) {
	if window <= 0 {
		return nil, fmt.Errorf("%w: window %.2fs", ErrInvalidConfig, window)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("%w: overlap %.2fs", ErrInvalidConfig, overlap)
	}
	if overlap >= window {
		return nil, fmt.Errorf("%w: overlap %.2fs must be smaller than window %.2fs", ErrInvalidConfig, overlap, window)
	}
	return &Segmenter{window: window, overlap: overlap}, nil
}

// Hop is the stride between consecutive window starts, in seconds.
func (s *Segmenter) Hop() float64 { return s.window - s.overlap }

func (s *Segmenter) Window() float64 { return s.window }

// Segment produces the ordered window sequence covering the whole buffer.
// A buffer shorter than one window yields a single padded segment. The loop
// stops after the window that reaches the buffer end, so the tail is never
// emitted twice.
func (s *Segmenter) Segment(buf Buffer) ([]Segment, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}

	windowSamples := int(s.window * float64(buf.SampleRate))
	hopSamples := int(s.Hop() * float64(buf.SampleRate))
	if windowSamples <= 0 || hopSamples <= 0 {
		return nil, fmt.Errorf("%w: window/hop collapse to zero samples at %dHz", ErrInvalidConfig, buf.SampleRate)
	}

	var segments []Segment
	for start := 0; start < len(buf.Samples); start += hopSamples {
		end := start + windowSamples
		if end > len(buf.Samples) {
			end = len(buf.Samples)
		}

		samples := make([]float64, windowSamples)
		copy(samples, buf.Samples[start:end])

		startTime := float64(start) / float64(buf.SampleRate)
		endTime := float64(end) / float64(buf.SampleRate)

		segments = append(segments, Segment{
			Samples:        samples,
			Index:          len(segments),
			StartTime:      startTime,
			EndTime:        endTime,
			StartFormatted: FormatClock(startTime),
			EndFormatted:   FormatClock(endTime),
		})

		if end >= len(buf.Samples) {
			break
		}
	}

	return segments, nil
}

// FormatClock renders seconds as MM:SS. There is no hours field; minutes
// keep counting past 59.
func FormatClock(seconds float64) string {
	mins := int(seconds) / 60
	secs := int(seconds) % 60
	return fmt.Sprintf("%02d:%02d", mins, secs)
}
