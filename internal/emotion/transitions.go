package emotion

import (
	"math"
	"sort"
)

// TimelineEntry joins one segment's metadata with its prediction and the
// derived sentiment fields.
type TimelineEntry struct {
	SegmentID      int               `json:"segment_id"`
	StartTime      float64           `json:"start_time"`
	EndTime        float64           `json:"end_time"`
	StartFormatted string            `json:"start_formatted"`
	EndFormatted   string            `json:"end_formatted"`
	Emotion        Label             `json:"emotion"`
	Confidence     float64           `json:"confidence"`
	AllScores      map[Label]float64 `json:"all_scores"`
	Sentiment      SentimentCategory `json:"sentiment,omitempty"`
	SentimentScore float64           `json:"sentiment_score"`
}

// Transition marks a point where the top-1 emotion changes between adjacent
// timeline entries.
type Transition struct {
	Time             string  `json:"time"`
	TimeSeconds      float64 `json:"time_seconds"`
	FromEmotion      Label   `json:"from_emotion"`
	ToEmotion        Label   `json:"to_emotion"`
	FromConfidence   float64 `json:"from_confidence"`
	ToConfidence     float64 `json:"to_confidence"`
	ConfidenceChange float64 `json:"confidence_change"`
	IsSignificant    bool    `json:"is_significant"`
}

// Distribution maps each emotion to its percentage share of the timeline.
type Distribution map[Label]float64

type DominantEmotion struct {
	Emotion    Label   `json:"emotion"`
	Percentage float64 `json:"percentage"`
}

// Journey summarizes the emotional arc of a recording. The zero value is
// the documented result for an empty timeline.
type Journey struct {
	PrimaryEmotion       Label             `json:"primary_emotion"`
	TotalTransitions     int               `json:"total_transitions"`
	StabilityScore       float64           `json:"stability_score"`
	DominantEmotions     []DominantEmotion `json:"dominant_emotions"`
	EmotionalVariability string            `json:"emotional_variability"`
}

// Analyzer derives transitions, distribution, stability and journey
// summaries from an ordered timeline. All methods are read-only.
type Analyzer struct {
	threshold   float64 // confidence delta for a significant transition
	topN        int     // dominant emotions to report
	variability float64 // transition rate above which variability is "high"
}

func NewAnalyzer(cfg Config) *Analyzer {
	return &Analyzer{
		threshold:   cfg.TransitionThreshold,
		topN:        cfg.DominantTopN,
		variability: cfg.VariabilityThreshold,
	}
}

// Transitions emits one event per adjacent pair whose emotion differs.
// Timelines shorter than two entries produce none.
func (a *Analyzer) Transitions(timeline []TimelineEntry) []Transition {
	transitions := []Transition{}
	for i := 1; i < len(timeline); i++ {
		prev, curr := timeline[i-1], timeline[i]
		if prev.Emotion == curr.Emotion {
			continue
		}
		change := curr.Confidence - prev.Confidence
		transitions = append(transitions, Transition{
			Time:             curr.StartFormatted,
			TimeSeconds:      curr.StartTime,
			FromEmotion:      prev.Emotion,
			ToEmotion:        curr.Emotion,
			FromConfidence:   prev.Confidence,
			ToConfidence:     curr.Confidence,
			ConfidenceChange: round3(change),
			IsSignificant:    math.Abs(change) > a.threshold,
		})
	}
	return transitions
}

// Distribution computes each emotion's percentage share, rounded to two
// decimals. An empty timeline yields an empty map.
func (a *Analyzer) Distribution(timeline []TimelineEntry) Distribution {
	dist := Distribution{}
	if len(timeline) == 0 {
		return dist
	}
	counts := map[Label]int{}
	for _, entry := range timeline {
		counts[entry.Emotion]++
	}
	total := float64(len(timeline))
	for label, count := range counts {
		dist[label] = round2(float64(count) / total * 100)
	}
	return dist
}

// DominantEmotions ranks labels by share, ties broken by first appearance
// in the timeline.
func (a *Analyzer) DominantEmotions(timeline []TimelineEntry) []DominantEmotion {
	if len(timeline) == 0 {
		return nil
	}

	counts := map[Label]int{}
	var order []Label
	for _, entry := range timeline {
		if _, seen := counts[entry.Emotion]; !seen {
			order = append(order, entry.Emotion)
		}
		counts[entry.Emotion]++
	}

	total := float64(len(timeline))
	ranked := make([]DominantEmotion, 0, len(order))
	for _, label := range order {
		ranked = append(ranked, DominantEmotion{
			Emotion:    label,
			Percentage: round2(float64(counts[label]) / total * 100),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Percentage > ranked[j].Percentage
	})

	if len(ranked) > a.topN {
		ranked = ranked[:a.topN]
	}
	return ranked
}

// Stability is the normalized inverse transition rate, in [0, 1]. A single
// entry or empty timeline is maximally stable by convention.
func (a *Analyzer) Stability(timeline []TimelineEntry) float64 {
	if len(timeline) < 2 {
		return 1.0
	}
	rate := float64(len(a.Transitions(timeline))) / float64(len(timeline))
	return round3(math.Max(0, 1-rate))
}

// Journey composes the other computations into a high-level summary.
func (a *Analyzer) Journey(timeline []TimelineEntry) Journey {
	if len(timeline) == 0 {
		return Journey{}
	}

	transitions := a.Transitions(timeline)
	dominant := a.DominantEmotions(timeline)

	primary := Neutral
	if len(dominant) > 0 {
		primary = dominant[0].Emotion
	}

	variability := "low"
	if float64(len(transitions)) > a.variability*float64(len(timeline)) {
		variability = "high"
	}

	return Journey{
		PrimaryEmotion:       primary,
		TotalTransitions:     len(transitions),
		StabilityScore:       a.Stability(timeline),
		DominantEmotions:     dominant,
		EmotionalVariability: variability,
	}
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
