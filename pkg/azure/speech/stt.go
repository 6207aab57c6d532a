package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/boonchuay-ai/boonchuay/internal/config"
	"github.com/boonchuay-ai/boonchuay/pkg/Logger"
)

// ErrNoSpeech means the service processed the audio but recognized nothing.
// The message is surfaced to the user in Thai.
var ErrNoSpeech = errors.New("ไม่สามารถเข้าใจเสียงพูดได้")

// Recognizer submits recorded audio to the Azure Speech short-audio REST
// endpoint and returns the transcribed text.
type Recognizer struct {
	manager    *config.Manager
	httpClient *http.Client
	logger     *Logger.Logger

	// baseURL overrides the regional endpoint, for tests.
	baseURL string
}

func NewRecognizer(manager *config.Manager, logger *Logger.Logger) *Recognizer {
	return &Recognizer{
		manager: manager,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

type recognitionResponse struct {
	RecognitionStatus string `json:"RecognitionStatus"`
	DisplayText       string `json:"DisplayText"`
}

// Transcribe sends a WAV clip for recognition. wavData must carry a RIFF
// header, see EncodeWAV. Incomplete settings fail before any network call.
func (r *Recognizer) Transcribe(ctx context.Context, wavData []byte) (string, error) {
	cfg := r.manager.Snapshot()
	if err := cfg.Speech.Validate(); err != nil {
		return "", err
	}
	if len(wavData) == 0 {
		return "", fmt.Errorf("no audio provided")
	}

	base := r.baseURL
	if base == "" {
		base = fmt.Sprintf("https://%s.stt.speech.microsoft.com", cfg.Speech.Region)
	}
	requestURL := fmt.Sprintf("%s/speech/recognition/conversation/cognitiveservices/v1?language=%s&format=simple",
		base, cfg.Speech.Language)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, requestURL, bytes.NewReader(wavData))
	if err != nil {
		return "", fmt.Errorf("failed to create recognition request: %w", err)
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", cfg.Speech.Key)
	req.Header.Set("Content-Type", "audio/wav; codecs=audio/pcm; samplerate=16000")
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("recognition request failed: %w", err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read recognition response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		r.logger.Errorf("speech recognition status %d: %s", resp.StatusCode, string(responseBody))
		return "", fmt.Errorf("speech service returned status %d: %s", resp.StatusCode, string(responseBody))
	}

	var parsed recognitionResponse
	if err := json.Unmarshal(responseBody, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode recognition response: %w", err)
	}

	switch parsed.RecognitionStatus {
	case "Success":
		if parsed.DisplayText == "" {
			return "", ErrNoSpeech
		}
		r.logger.Infof("transcribed: %s", parsed.DisplayText)
		return parsed.DisplayText, nil
	case "NoMatch", "InitialSilenceTimeout":
		return "", ErrNoSpeech
	default:
		return "", fmt.Errorf("recognition failed with status %s", parsed.RecognitionStatus)
	}
}
