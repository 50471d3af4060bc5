package emotion

import "fmt"

// Config carries every tunable of the analysis core. All values are pure
// parameters; nothing here reads the environment.
type Config struct {
	// Window is the segment length in seconds.
	Window float64
	// Overlap between consecutive windows in seconds. Hop = Window - Overlap.
	Overlap float64
	// TransitionThreshold is the confidence delta above which a transition
	// counts as significant.
	TransitionThreshold float64
	// DominantTopN caps the dominant-emotion ranking.
	DominantTopN int
	// VariabilityThreshold is the transition rate (fraction of segments)
	// above which the journey is classified as high variability.
	VariabilityThreshold float64
	// Workers bounds parallel classification. 1 means serial; results are
	// identical either way.
	Workers int
}

func DefaultConfig() Config {
	return Config{
		Window:               2.0,
		Overlap:              1.0,
		TransitionThreshold:  0.1,
		DominantTopN:         3,
		VariabilityThreshold: 0.3,
		Workers:              4,
	}
}

func (c Config) Validate() error {
	if c.Window <= 0 {
		return fmt.Errorf("%w: window %.2fs", ErrInvalidConfig, c.Window)
	}
	if c.Overlap < 0 || c.Overlap >= c.Window {
		return fmt.Errorf("%w: overlap %.2fs with window %.2fs", ErrInvalidConfig, c.Overlap, c.Window)
	}
	if c.TransitionThreshold < 0 {
		return fmt.Errorf("%w: transition threshold %.2f", ErrInvalidConfig, c.TransitionThreshold)
	}
	if c.DominantTopN <= 0 {
		return fmt.Errorf("%w: dominant top-N %d", ErrInvalidConfig, c.DominantTopN)
	}
	if c.VariabilityThreshold < 0 {
		return fmt.Errorf("%w: variability threshold %.2f", ErrInvalidConfig, c.VariabilityThreshold)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("%w: workers %d", ErrInvalidConfig, c.Workers)
	}
	return nil
}
