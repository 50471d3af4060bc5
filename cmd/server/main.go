package main

import (
	"net/http"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/sathwik2s/voice-pulse-ai/internal/api"
	"github.com/sathwik2s/voice-pulse-ai/internal/audio"
	"github.com/sathwik2s/voice-pulse-ai/internal/database"
	"github.com/sathwik2s/voice-pulse-ai/internal/emotion"
	"github.com/sathwik2s/voice-pulse-ai/internal/metrics"
	"github.com/sathwik2s/voice-pulse-ai/internal/storage"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if level, err := logrus.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		log.SetLevel(level)
	}

	port := getEnv("PORT", "8080")
	uploadDir := getEnv("UPLOAD_DIR", "./uploads")
	dbPath := getEnv("DB_PATH", "./voicepulse.db")
	modelURL := os.Getenv("MODEL_URL")
	if modelURL == "" {
		log.Fatal("MODEL_URL is required (emotion model server endpoint)")
	}

	maxUploadSize, err := strconv.ParseInt(getEnv("MAX_UPLOAD_SIZE", "52428800"), 10, 64)
	if err != nil {
		log.WithError(err).Fatal("Invalid MAX_UPLOAD_SIZE")
	}

	cfg := emotion.DefaultConfig()
	if v := os.Getenv("WINDOW_SECONDS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Window = f
		}
	}
	if v := os.Getenv("OVERLAP_SECONDS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Overlap = f
		}
	}
	if v := os.Getenv("TRANSITION_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.TransitionThreshold = f
		}
	}
	if v := os.Getenv("CLASSIFY_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Workers = n
		}
	}

	localStorage, err := storage.NewLocalStorage(uploadDir)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize storage")
	}

	db, err := database.Open(dbPath)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	// The classifier is built on first use and shared by every request.
	factory := emotion.NewClassifierFactory(func() (emotion.Classifier, error) {
		log.WithField("url", modelURL).Info("Connecting emotion classifier")
		return emotion.NewRemoteClassifier(modelURL), nil
	})

	pipeline, err := emotion.NewPipeline(cfg, factory, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to build pipeline")
	}

	app := &api.App{
		Storage:       localStorage,
		Reports:       database.NewReportRepo(db),
		Pipeline:      pipeline,
		Decoder:       audio.NewWAVDecoder(),
		Log:           log,
		MaxUploadSize: maxUploadSize,
		MinDuration:   0.5,
		MaxDuration:   600,
	}

	router := api.NewRouter(app, metrics.Init(log))

	log.WithFields(logrus.Fields{
		"port":       port,
		"upload_dir": uploadDir,
		"db_path":    dbPath,
		"window":     cfg.Window,
		"overlap":    cfg.Overlap,
	}).Info("VoicePulse server starting")

	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.WithError(err).Fatal("Server stopped")
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
