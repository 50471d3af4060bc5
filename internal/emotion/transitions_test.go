package emotion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sathwik2s/voice-pulse-ai/internal/audio"
)

// makeTimeline builds entries one second apart, mirroring the default
// 2s-window/1s-hop layout.
func makeTimeline(labels []Label, confidences []float64) []TimelineEntry {
	timeline := make([]TimelineEntry, len(labels))
	for i := range labels {
		start := float64(i)
		timeline[i] = TimelineEntry{
			SegmentID:      i,
			StartTime:      start,
			EndTime:        start + 2,
			StartFormatted: audio.FormatClock(start),
			EndFormatted:   audio.FormatClock(start + 2),
			Emotion:        labels[i],
			Confidence:     confidences[i],
		}
	}
	return timeline
}

func repeat(l Label, conf float64, n int) ([]Label, []float64) {
	labels := make([]Label, n)
	confs := make([]float64, n)
	for i := range labels {
		labels[i] = l
		confs[i] = conf
	}
	return labels, confs
}

func happySadTimeline() []TimelineEntry {
	// 6 happy @0.9 followed by 4 sad @0.7.
	hl, hc := repeat(Happy, 0.9, 6)
	sl, sc := repeat(Sad, 0.7, 4)
	return makeTimeline(append(hl, sl...), append(hc, sc...))
}

func TestTransitionsHappySadScenario(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())
	transitions := a.Transitions(happySadTimeline())

	require.Len(t, transitions, 1)
	tr := transitions[0]
	assert.Equal(t, Happy, tr.FromEmotion)
	assert.Equal(t, Sad, tr.ToEmotion)
	assert.Equal(t, "00:06", tr.Time)
	assert.InDelta(t, 6.0, tr.TimeSeconds, 1e-9)
	assert.InDelta(t, 0.9, tr.FromConfidence, 1e-9)
	assert.InDelta(t, 0.7, tr.ToConfidence, 1e-9)
	assert.InDelta(t, -0.2, tr.ConfidenceChange, 1e-9)
	assert.True(t, tr.IsSignificant)
}

func TestTransitionsInsignificantDelta(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())
	timeline := makeTimeline([]Label{Happy, Sad}, []float64{0.8, 0.75})
	transitions := a.Transitions(timeline)

	require.Len(t, transitions, 1)
	assert.False(t, transitions[0].IsSignificant)
}

func TestTransitionsShortTimelines(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())
	assert.Empty(t, a.Transitions(nil))
	assert.Empty(t, a.Transitions(makeTimeline([]Label{Happy}, []float64{0.9})))
}

func TestTransitionsCountBound(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())
	// Alternating labels: the worst case still yields at most n-1 events.
	labels := []Label{Happy, Sad, Happy, Sad, Happy}
	confs := []float64{0.9, 0.8, 0.7, 0.6, 0.5}
	transitions := a.Transitions(makeTimeline(labels, confs))
	assert.Len(t, transitions, 4)
}

func TestDistributionHappySadScenario(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())
	dist := a.Distribution(happySadTimeline())

	assert.InDelta(t, 60.0, dist[Happy], 1e-9)
	assert.InDelta(t, 40.0, dist[Sad], 1e-9)
}

func TestDistributionSumsToHundred(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())
	labels := []Label{Happy, Happy, Sad, Angry, Fear, Neutral, Happy}
	confs := []float64{0.9, 0.9, 0.8, 0.7, 0.6, 0.5, 0.9}
	dist := a.Distribution(makeTimeline(labels, confs))

	sum := 0.0
	for _, pct := range dist {
		sum += pct
	}
	assert.InDelta(t, 100.0, sum, 0.1)
}

func TestDistributionEmptyTimeline(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())
	dist := a.Distribution(nil)
	require.NotNil(t, dist)
	assert.Empty(t, dist)
}

func TestStabilityScore(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())

	assert.Equal(t, 1.0, a.Stability(nil))
	assert.Equal(t, 1.0, a.Stability(makeTimeline([]Label{Happy}, []float64{0.9})))

	// One transition over ten entries.
	assert.InDelta(t, 0.9, a.Stability(happySadTimeline()), 1e-9)

	// No label changes: maximally stable.
	labels, confs := repeat(Neutral, 0.8, 5)
	assert.Equal(t, 1.0, a.Stability(makeTimeline(labels, confs)))

	// Alternating labels stay within [0, 1].
	alt := makeTimeline([]Label{Happy, Sad, Happy, Sad}, []float64{0.9, 0.9, 0.9, 0.9})
	s := a.Stability(alt)
	assert.GreaterOrEqual(t, s, 0.0)
	assert.LessOrEqual(t, s, 1.0)
}

func TestDominantEmotionsTieBreakByFirstSeen(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())
	// Sad and Happy tie at 40%, Neutral trails; Sad appeared first.
	labels := []Label{Sad, Sad, Happy, Happy, Neutral}
	confs := []float64{0.9, 0.9, 0.9, 0.9, 0.9}
	dominant := a.DominantEmotions(makeTimeline(labels, confs))

	require.Len(t, dominant, 3)
	assert.Equal(t, Sad, dominant[0].Emotion)
	assert.Equal(t, Happy, dominant[1].Emotion)
	assert.Equal(t, Neutral, dominant[2].Emotion)
	assert.InDelta(t, 40.0, dominant[0].Percentage, 1e-9)
}

func TestDominantEmotionsTopNCap(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())
	labels := []Label{Happy, Sad, Angry, Fear, Neutral}
	confs := []float64{0.9, 0.9, 0.9, 0.9, 0.9}
	dominant := a.DominantEmotions(makeTimeline(labels, confs))
	assert.Len(t, dominant, 3)
}

func TestJourneyHappySadScenario(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())
	journey := a.Journey(happySadTimeline())

	assert.Equal(t, Happy, journey.PrimaryEmotion)
	assert.Equal(t, 1, journey.TotalTransitions)
	assert.InDelta(t, 0.9, journey.StabilityScore, 1e-9)
	require.Len(t, journey.DominantEmotions, 2)
	assert.Equal(t, Happy, journey.DominantEmotions[0].Emotion)
	// 1 transition over 10 entries is below the 0.3 rate.
	assert.Equal(t, "low", journey.EmotionalVariability)
}

func TestJourneyHighVariability(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())
	labels := []Label{Happy, Sad, Happy, Sad, Happy}
	confs := []float64{0.9, 0.9, 0.9, 0.9, 0.9}
	journey := a.Journey(makeTimeline(labels, confs))
	assert.Equal(t, "high", journey.EmotionalVariability)
}

func TestJourneyEmptyTimeline(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())
	journey := a.Journey(nil)
	assert.Equal(t, Journey{}, journey)
}
