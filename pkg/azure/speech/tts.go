package speech

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/boonchuay-ai/boonchuay/internal/config"
	"github.com/boonchuay-ai/boonchuay/pkg/Logger"
)

// Synthesizer converts completion text to speech via the Azure Speech
// synthesis REST endpoint. Synthesis failures never abort a turn, the
// caller downgrades to a text-only response.
type Synthesizer struct {
	manager    *config.Manager
	httpClient *http.Client
	logger     *Logger.Logger

	baseURL string
}

func NewSynthesizer(manager *config.Manager, logger *Logger.Logger) *Synthesizer {
	return &Synthesizer{
		manager: manager,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

const outputFormat = "audio-16khz-32kbitrate-mono-mp3"

// Synthesize converts text to audio bytes using the configured voice.
// Incomplete settings fail before any network call.
func (s *Synthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	cfg := s.manager.Snapshot()
	if err := cfg.Speech.Validate(); err != nil {
		return nil, err
	}
	if text == "" {
		return nil, fmt.Errorf("empty text")
	}

	base := s.baseURL
	if base == "" {
		base = fmt.Sprintf("https://%s.tts.speech.microsoft.com", cfg.Speech.Region)
	}

	ssml := buildSSML(text, cfg.Speech)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+"/cognitiveservices/v1", strings.NewReader(ssml))
	if err != nil {
		return nil, fmt.Errorf("failed to create synthesis request: %w", err)
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", cfg.Speech.Key)
	req.Header.Set("Content-Type", "application/ssml+xml")
	req.Header.Set("X-Microsoft-OutputFormat", outputFormat)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("synthesis request failed: %w", err)
	}
	defer resp.Body.Close()

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read synthesized audio: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		s.logger.Errorf("speech synthesis status %d: %s", resp.StatusCode, string(audio))
		return nil, fmt.Errorf("synthesis returned status %d", resp.StatusCode)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("synthesis returned no audio")
	}

	s.logger.Debugf("synthesized %d bytes for %d chars of text", len(audio), len(text))
	return audio, nil
}

func buildSSML(text string, cfg config.SpeechConfig) string {
	var b strings.Builder
	b.WriteString(`<speak version='1.0' xml:lang='`)
	b.WriteString(cfg.Language)
	b.WriteString(`'><voice name='`)
	b.WriteString(cfg.Voice)
	b.WriteString(`'>`)
	b.WriteString(escapeXML(text))
	b.WriteString(`</voice></speak>`)
	return b.String()
}

func escapeXML(s string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&apos;",
	)
	return replacer.Replace(s)
}
