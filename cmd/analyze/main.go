package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/sathwik2s/voice-pulse-ai/internal/audio"
	"github.com/sathwik2s/voice-pulse-ai/internal/emotion"
)

// One-shot analyzer: decodes a local WAV file, runs the pipeline against a
// model server and prints the report JSON to stdout.
func main() {
	filePath := flag.String("file", "", "Path to a PCM WAV file")
	modelURL := flag.String("model-url", os.Getenv("MODEL_URL"), "Emotion model server URL")
	quick := flag.Bool("quick", false, "Single whole-file prediction instead of a full report")
	flag.Parse()

	log := logrus.New()
	log.SetOutput(os.Stderr)

	if *filePath == "" {
		log.Fatal("Please provide an audio file with -file")
	}
	if *modelURL == "" {
		log.Fatal("Please provide a model server URL with -model-url or MODEL_URL")
	}

	f, err := os.Open(*filePath)
	if err != nil {
		log.WithError(err).Fatal("Failed to open file")
	}
	defer f.Close()

	buf, err := audio.NewWAVDecoder().Decode(f)
	if err != nil {
		log.WithError(err).Fatal("Failed to decode audio")
	}

	factory := emotion.NewClassifierFactory(func() (emotion.Classifier, error) {
		return emotion.NewRemoteClassifier(*modelURL), nil
	})
	pipeline, err := emotion.NewPipeline(emotion.DefaultConfig(), factory, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to build pipeline")
	}

	ctx := context.Background()
	var out any
	if *quick {
		out, err = pipeline.QuickAnalyze(ctx, buf)
	} else {
		out, err = pipeline.Analyze(ctx, buf)
	}
	if err != nil {
		log.WithError(err).Fatal("Analysis failed")
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.WithError(err).Fatal("Failed to encode result")
	}
}
