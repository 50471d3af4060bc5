package emotion

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sathwik2s/voice-pulse-ai/internal/audio"
	"github.com/sathwik2s/voice-pulse-ai/internal/metrics"
)

// Metadata describes the analyzed recording.
type Metadata struct {
	Duration      float64 `json:"duration"`
	TotalSegments int     `json:"total_segments"`
	SamplingRate  int     `json:"sampling_rate"`
}

// ConfidencePoint is one sample of the confidence curve.
type ConfidencePoint struct {
	Time        string  `json:"time"`
	TimeSeconds float64 `json:"time_seconds"`
	Confidence  float64 `json:"confidence"`
	Emotion     Label   `json:"emotion"`
}

// HeatmapPoint is one row of the emotion-intensity matrix: every vocabulary
// label's probability for one segment, rounded to three decimals.
type HeatmapPoint struct {
	Time        string            `json:"time"`
	TimeSeconds float64           `json:"time_seconds"`
	Scores      map[Label]float64 `json:"scores"`
}

// Result bundles the complete analysis for one recording. All values are
// plain numbers, strings or nested maps/slices, ready for serialization.
type Result struct {
	Success           bool              `json:"success"`
	Metadata          Metadata          `json:"metadata"`
	Timeline          []TimelineEntry   `json:"timeline"`
	Transitions       []Transition      `json:"transitions"`
	Distribution      Distribution      `json:"distribution"`
	ConfidenceCurve   []ConfidencePoint `json:"confidence_curve"`
	HeatmapData       []HeatmapPoint    `json:"heatmap_data"`
	SentimentAnalysis SentimentSummary  `json:"sentiment_analysis"`
	JourneyAnalysis   Journey           `json:"journey_analysis"`
}

// QuickResult is the single-shot verdict for quick mode.
type QuickResult struct {
	Success    bool    `json:"success"`
	Emotion    Label   `json:"emotion"`
	Confidence float64 `json:"confidence"`
}

// Pipeline composes segmentation, classification, transition analytics and
// sentiment mapping into one batch analysis. It owns no per-request state;
// the shared classifier comes from the factory on first use.
type Pipeline struct {
	segmenter *audio.Segmenter
	factory   *ClassifierFactory
	analyzer  *Analyzer
	cfg       Config
	log       *logrus.Logger
}

func NewPipeline(cfg Config, factory *ClassifierFactory, log *logrus.Logger) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	segmenter, err := audio.NewSegmenter(cfg.Window, cfg.Overlap)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if log == nil {
		log = logrus.New()
	}
	return &Pipeline{
		segmenter: segmenter,
		factory:   factory,
		analyzer:  NewAnalyzer(cfg),
		cfg:       cfg,
		log:       log,
	}, nil
}

// Analyze runs the full pipeline. Each stage consumes the complete output of
// the previous one; any failure aborts the call and no partial timeline is
// ever returned.
func (p *Pipeline) Analyze(ctx context.Context, buf audio.Buffer) (*Result, error) {
	start := time.Now()

	classifier, err := p.factory.Get()
	if err != nil {
		return nil, fmt.Errorf("%w: loading classifier: %v", ErrClassification, err)
	}

	segments, err := p.segmenter.Segment(buf)
	if err != nil {
		return nil, err
	}
	p.log.WithFields(logrus.Fields{
		"segments": len(segments),
		"duration": fmt.Sprintf("%.2fs", buf.Duration()),
	}).Info("Audio segmented")

	predictions, err := p.classifyAll(ctx, classifier, segments, buf.SampleRate)
	if err != nil {
		return nil, err
	}

	timeline := make([]TimelineEntry, len(segments))
	for i, seg := range segments {
		timeline[i] = TimelineEntry{
			SegmentID:      seg.Index,
			StartTime:      seg.StartTime,
			EndTime:        seg.EndTime,
			StartFormatted: seg.StartFormatted,
			EndFormatted:   seg.EndFormatted,
			Emotion:        predictions[i].Emotion,
			Confidence:     round3(predictions[i].Confidence),
			AllScores:      predictions[i].Scores,
		}
	}

	transitions := p.analyzer.Transitions(timeline)
	distribution := p.analyzer.Distribution(timeline)
	enriched := EnrichTimeline(timeline)
	sentiment := OverallSentiment(distribution)
	journey := p.analyzer.Journey(timeline)

	curve := make([]ConfidencePoint, len(timeline))
	for i, entry := range timeline {
		curve[i] = ConfidencePoint{
			Time:        entry.StartFormatted,
			TimeSeconds: entry.StartTime,
			Confidence:  entry.Confidence,
			Emotion:     entry.Emotion,
		}
	}

	heatmap := make([]HeatmapPoint, len(enriched))
	for i, entry := range enriched {
		scores := make(map[Label]float64, len(Vocabulary()))
		for _, label := range Vocabulary() {
			scores[label] = round3(entry.AllScores[label])
		}
		heatmap[i] = HeatmapPoint{
			Time:        entry.StartFormatted,
			TimeSeconds: entry.StartTime,
			Scores:      scores,
		}
	}

	metrics.SegmentsPerAnalysis.Observe(float64(len(segments)))
	metrics.AnalysisDuration.WithLabelValues("full").Observe(time.Since(start).Seconds())

	p.log.WithFields(logrus.Fields{
		"transitions": len(transitions),
		"primary":     journey.PrimaryEmotion,
		"sentiment":   sentiment.Category,
		"elapsed":     time.Since(start).Round(time.Millisecond),
	}).Info("Analysis complete")

	return &Result{
		Success: true,
		Metadata: Metadata{
			Duration:      round2(buf.Duration()),
			TotalSegments: len(segments),
			SamplingRate:  buf.SampleRate,
		},
		Timeline:          enriched,
		Transitions:       transitions,
		Distribution:      distribution,
		ConfidenceCurve:   curve,
		HeatmapData:       heatmap,
		SentimentAnalysis: sentiment,
		JourneyAnalysis:   journey,
	}, nil
}

// QuickAnalyze classifies the whole buffer as one window. None of the
// transition or sentiment machinery runs.
func (p *Pipeline) QuickAnalyze(ctx context.Context, buf audio.Buffer) (*QuickResult, error) {
	start := time.Now()

	if err := buf.Validate(); err != nil {
		return nil, err
	}
	classifier, err := p.factory.Get()
	if err != nil {
		return nil, fmt.Errorf("%w: loading classifier: %v", ErrClassification, err)
	}

	pred, err := p.classifyOne(ctx, classifier, buf.Samples, buf.SampleRate)
	if err != nil {
		return nil, err
	}

	metrics.AnalysisDuration.WithLabelValues("quick").Observe(time.Since(start).Seconds())

	return &QuickResult{
		Success:    true,
		Emotion:    pred.Emotion,
		Confidence: round3(pred.Confidence),
	}, nil
}

// classifyAll fans segments out over a bounded worker pool. Predictions are
// placed by segment index, so the output is identical to a serial run.
func (p *Pipeline) classifyAll(ctx context.Context, classifier Classifier, segments []audio.Segment, sampleRate int) ([]Prediction, error) {
	predictions := make([]Prediction, len(segments))

	workers := p.cfg.Workers
	if workers > len(segments) {
		workers = len(segments)
	}
	if workers <= 1 {
		for i, seg := range segments {
			pred, err := p.classifyOne(ctx, classifier, seg.Samples, sampleRate)
			if err != nil {
				return nil, fmt.Errorf("segment %d: %w", i, err)
			}
			predictions[i] = pred
		}
		return predictions, nil
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	sem := make(chan struct{}, workers)

	for i := range segments {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()

			pred, err := p.classifyOne(ctx, classifier, segments[i].Samples, sampleRate)
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = fmt.Errorf("segment %d: %w", i, err)
				}
				mu.Unlock()
				return
			}
			predictions[i] = pred
		}(i)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return predictions, nil
}

func (p *Pipeline) classifyOne(ctx context.Context, classifier Classifier, samples []float64, sampleRate int) (Prediction, error) {
	start := time.Now()
	pred, err := classifier.Classify(ctx, samples, sampleRate)
	metrics.ClassifierLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		return Prediction{}, err
	}
	if err := validatePrediction(pred); err != nil {
		return Prediction{}, err
	}
	return pred, nil
}
