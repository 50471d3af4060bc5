package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/sathwik2s/voice-pulse-ai/internal/audio"
	"github.com/sathwik2s/voice-pulse-ai/internal/database"
	"github.com/sathwik2s/voice-pulse-ai/internal/emotion"
	"github.com/sathwik2s/voice-pulse-ai/internal/metrics"
	"github.com/sathwik2s/voice-pulse-ai/internal/models"
	"github.com/sathwik2s/voice-pulse-ai/internal/storage"
)

// App carries the wired dependencies into the handlers.
type App struct {
	Storage       storage.Storage
	Reports       *database.ReportRepo
	Pipeline      *emotion.Pipeline
	Decoder       audio.Decoder
	Log           *logrus.Logger
	MaxUploadSize int64
	MinDuration   float64 // seconds
	MaxDuration   float64 // seconds
}

// analysisResponse is the full report envelope: the pipeline result plus
// request-level metadata.
type analysisResponse struct {
	*emotion.Result
	AnalysisID string `json:"analysis_id"`
	Filename   string `json:"filename"`
	Timestamp  string `json:"timestamp"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (app *App) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"service":   "VoicePulse",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// AnalyzeHandler runs the full pipeline on an uploaded recording and
// persists the report.
func (app *App) AnalyzeHandler(w http.ResponseWriter, r *http.Request) {
	metrics.UploadsTotal.WithLabelValues("analyze").Inc()

	file, header, ok := app.acceptUpload(w, r)
	if !ok {
		return
	}
	defer file.Close()

	storedName, err := app.Storage.Save(file, header.Filename)
	if err != nil {
		app.Log.WithError(err).Error("Failed to store upload")
		app.writeFailure(w, http.StatusInternalServerError, "Failed to save file", "full")
		return
	}

	buf, ok := app.decodeStored(w, storedName, "full")
	if !ok {
		return
	}

	result, err := app.Pipeline.Analyze(r.Context(), buf)
	if err != nil {
		app.writePipelineError(w, err, "full")
		return
	}

	report := models.NewReport(header.Filename, nil)
	resp := analysisResponse{
		Result:     result,
		AnalysisID: report.ID,
		Filename:   header.Filename,
		Timestamp:  time.Now().Format(time.RFC3339),
	}

	payload, err := json.Marshal(resp)
	if err != nil {
		app.Log.WithError(err).Error("Failed to encode report")
		app.writeFailure(w, http.StatusInternalServerError, "Failed to encode report", "full")
		return
	}
	report.Payload = payload
	report.Duration = result.Metadata.Duration
	report.TotalSegments = result.Metadata.TotalSegments
	report.PrimaryEmotion = string(result.JourneyAnalysis.PrimaryEmotion)
	report.SentimentCategory = string(result.SentimentAnalysis.Category)

	if err := app.Reports.Insert(r.Context(), report); err != nil {
		app.Log.WithError(err).Error("Failed to persist report")
		app.writeFailure(w, http.StatusInternalServerError, "Failed to save report", "full")
		return
	}

	metrics.AnalysesTotal.WithLabelValues("full", "success").Inc()
	app.Log.WithFields(logrus.Fields{
		"analysis_id": report.ID,
		"filename":    header.Filename,
		"segments":    result.Metadata.TotalSegments,
	}).Info("Analysis stored")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(payload)
}

// QuickAnalyzeHandler classifies the whole recording in one shot. The
// upload is deleted afterwards and nothing is persisted.
func (app *App) QuickAnalyzeHandler(w http.ResponseWriter, r *http.Request) {
	metrics.UploadsTotal.WithLabelValues("quick-analyze").Inc()

	file, header, ok := app.acceptUpload(w, r)
	if !ok {
		return
	}
	defer file.Close()

	storedName, err := app.Storage.Save(file, header.Filename)
	if err != nil {
		app.Log.WithError(err).Error("Failed to store upload")
		app.writeFailure(w, http.StatusInternalServerError, "Failed to save file", "quick")
		return
	}
	defer app.Storage.Delete(storedName)

	buf, ok := app.decodeStored(w, storedName, "quick")
	if !ok {
		return
	}

	result, err := app.Pipeline.QuickAnalyze(r.Context(), buf)
	if err != nil {
		app.writePipelineError(w, err, "quick")
		return
	}

	metrics.AnalysesTotal.WithLabelValues("quick", "success").Inc()
	writeJSON(w, http.StatusOK, result)
}

func (app *App) GetReportHandler(w http.ResponseWriter, r *http.Request) {
	report, ok := app.lookupReport(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(report.Payload)
}

func (app *App) DownloadReportHandler(w http.ResponseWriter, r *http.Request) {
	report, ok := app.lookupReport(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="voicepulse_report_%s.json"`, report.ID))
	w.WriteHeader(http.StatusOK)
	w.Write(report.Payload)
}

func (app *App) ListReportsHandler(w http.ResponseWriter, r *http.Request) {
	summaries, err := app.Reports.List(r.Context(), 50)
	if err != nil {
		app.Log.WithError(err).Error("Failed to list reports")
		writeError(w, http.StatusInternalServerError, "Failed to list reports")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"reports": summaries,
	})
}

// acceptUpload pulls the audio file out of the multipart form and runs the
// extension allowlist. It writes the error response itself on failure.
func (app *App) acceptUpload(w http.ResponseWriter, r *http.Request) (multipart.File, *multipart.FileHeader, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, app.MaxUploadSize)

	if err := r.ParseMultipartForm(app.MaxUploadSize); err != nil {
		writeError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("File too large (max %dMB)", app.MaxUploadSize/(1024*1024)))
		return nil, nil, false
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No audio file provided")
		return nil, nil, false
	}

	if header.Filename == "" {
		file.Close()
		writeError(w, http.StatusBadRequest, "No file selected")
		return nil, nil, false
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !app.Decoder.Supports(ext) {
		file.Close()
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("Unsupported file type %q (PCM WAV expected)", ext))
		return nil, nil, false
	}

	return file, header, true
}

// decodeStored opens a stored upload, decodes it and enforces the duration
// bounds. Error responses are written here.
func (app *App) decodeStored(w http.ResponseWriter, storedName, mode string) (audio.Buffer, bool) {
	f, err := app.Storage.Open(storedName)
	if err != nil {
		app.Log.WithError(err).Error("Failed to reopen upload")
		app.writeFailure(w, http.StatusInternalServerError, "Failed to read file", mode)
		return audio.Buffer{}, false
	}
	defer f.Close()

	buf, err := app.Decoder.Decode(f)
	if err != nil {
		app.writeFailure(w, http.StatusBadRequest, fmt.Sprintf("Invalid audio: %v", err), mode)
		return audio.Buffer{}, false
	}

	if d := buf.Duration(); d < app.MinDuration {
		app.writeFailure(w, http.StatusBadRequest,
			fmt.Sprintf("Audio too short: %.2fs (minimum %.1fs)", d, app.MinDuration), mode)
		return audio.Buffer{}, false
	} else if d > app.MaxDuration {
		app.writeFailure(w, http.StatusBadRequest,
			fmt.Sprintf("Audio too long: %.2fs (maximum %.0fs)", d, app.MaxDuration), mode)
		return audio.Buffer{}, false
	}

	return buf, true
}

func (app *App) lookupReport(w http.ResponseWriter, r *http.Request) (*models.Report, bool) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "Missing report ID")
		return nil, false
	}
	report, err := app.Reports.GetByID(r.Context(), id)
	if errors.Is(err, database.ErrReportNotFound) {
		writeError(w, http.StatusNotFound, "Report not found")
		return nil, false
	}
	if err != nil {
		app.Log.WithError(err).Error("Failed to load report")
		writeError(w, http.StatusInternalServerError, "Failed to load report")
		return nil, false
	}
	return report, true
}

func (app *App) writePipelineError(w http.ResponseWriter, err error, mode string) {
	app.Log.WithError(err).Error("Pipeline failure")
	status := http.StatusInternalServerError
	if errors.Is(err, audio.ErrInvalidInput) || errors.Is(err, audio.ErrInvalidConfig) ||
		errors.Is(err, emotion.ErrInvalidConfig) {
		status = http.StatusBadRequest
	}
	app.writeFailure(w, status, err.Error(), mode)
}

func (app *App) writeFailure(w http.ResponseWriter, status int, msg, mode string) {
	metrics.AnalysesTotal.WithLabelValues(mode, "failure").Inc()
	writeError(w, status, msg)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Success: false, Error: msg})
}
