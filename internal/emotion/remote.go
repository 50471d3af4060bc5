package emotion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// RemoteClassifier calls a model server that wraps the pretrained wav2vec2
// emotion model. One window goes in as JSON, one prediction comes out.
type RemoteClassifier struct {
	url    string
	client *http.Client
}

type classifyRequest struct {
	Samples      []float64 `json:"samples"`
	SamplingRate int       `json:"sampling_rate"`
}

type classifyResponse struct {
	Emotion    string             `json:"emotion"`
	Confidence float64            `json:"confidence"`
	AllScores  map[string]float64 `json:"all_scores"`
}

func NewRemoteClassifier(url string) *RemoteClassifier {
	return &RemoteClassifier{
		url:    url,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *RemoteClassifier) Classify(ctx context.Context, samples []float64, sampleRate int) (Prediction, error) {
	body, err := json.Marshal(classifyRequest{Samples: samples, SamplingRate: sampleRate})
	if err != nil {
		return Prediction{}, fmt.Errorf("%w: encoding request: %v", ErrClassification, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url+"/classify", bytes.NewReader(body))
	if err != nil {
		return Prediction{}, fmt.Errorf("%w: %v", ErrClassification, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Prediction{}, fmt.Errorf("%w: %v", ErrClassification, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return Prediction{}, fmt.Errorf("%w: model server %s: %s", ErrClassification, resp.Status, string(b))
	}

	var out classifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Prediction{}, fmt.Errorf("%w: decoding response: %v", ErrClassification, err)
	}

	scores := make(map[Label]float64, len(out.AllScores))
	for k, v := range out.AllScores {
		scores[Label(k)] = v
	}
	pred := Prediction{
		Emotion:    Label(out.Emotion),
		Confidence: out.Confidence,
		Scores:     scores,
	}
	if err := validatePrediction(pred); err != nil {
		return Prediction{}, err
	}
	return pred, nil
}
