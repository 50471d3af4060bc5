package emotion

// SentimentCategory buckets emotion labels by polarity.
type SentimentCategory string

const (
	Positive         SentimentCategory = "positive"
	NeutralSentiment SentimentCategory = "neutral"
	Negative         SentimentCategory = "negative"
)

var sentimentCategories = map[Label]SentimentCategory{
	Happy:    Positive,
	Surprise: Positive,
	Neutral:  NeutralSentiment,
	Sad:      Negative,
	Angry:    Negative,
	Fear:     Negative,
	Disgust:  Negative,
}

// Polarity scores in [-1, 1] per label.
var sentimentScores = map[Label]float64{
	Happy:    0.8,
	Surprise: 0.6,
	Neutral:  0.0,
	Sad:      -0.6,
	Angry:    -0.8,
	Fear:     -0.7,
	Disgust:  -0.75,
}

// SentimentOf maps a label to its category. Labels outside the vocabulary
// fall back to neutral; this is the one place unknown labels are tolerated.
func SentimentOf(label Label) SentimentCategory {
	l, ok := ParseLabel(string(label))
	if !ok {
		return NeutralSentiment
	}
	return sentimentCategories[l]
}

// PolarityOf maps a label to its polarity score, 0 for unknown labels.
func PolarityOf(label Label) float64 {
	l, ok := ParseLabel(string(label))
	if !ok {
		return 0.0
	}
	return sentimentScores[l]
}

// SentimentSummary is the distribution-weighted sentiment verdict.
type SentimentSummary struct {
	Score     float64                       `json:"score"`
	Category  SentimentCategory             `json:"category"`
	Breakdown map[SentimentCategory]float64 `json:"breakdown"`
}

// OverallSentiment aggregates a distribution into one polarity score and
// category. Boundaries are exclusive: exactly ±0.2 is still neutral.
func OverallSentiment(dist Distribution) SentimentSummary {
	total := 0.0
	breakdown := map[SentimentCategory]float64{
		Positive:         0.0,
		NeutralSentiment: 0.0,
		Negative:         0.0,
	}

	for label, percentage := range dist {
		total += PolarityOf(label) * (percentage / 100)
		breakdown[SentimentOf(label)] += percentage
	}

	category := NeutralSentiment
	switch {
	case total > 0.2:
		category = Positive
	case total < -0.2:
		category = Negative
	}

	return SentimentSummary{
		Score:     round3(total),
		Category:  category,
		Breakdown: breakdown,
	}
}

// EnrichTimeline attaches sentiment category and polarity to every entry.
// The input slice is left untouched.
func EnrichTimeline(timeline []TimelineEntry) []TimelineEntry {
	enriched := make([]TimelineEntry, len(timeline))
	for i, entry := range timeline {
		entry.Sentiment = SentimentOf(entry.Emotion)
		entry.SentimentScore = PolarityOf(entry.Emotion)
		enriched[i] = entry
	}
	return enriched
}
