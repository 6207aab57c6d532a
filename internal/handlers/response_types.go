package handlers

import (
	"github.com/boonchuay-ai/boonchuay/internal/domains/chat"
	"github.com/boonchuay-ai/boonchuay/pkg/Logger"
	"github.com/boonchuay-ai/boonchuay/pkg/azure/search"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// SuccessResponse represents a generic success response
type SuccessResponse struct {
	Message string `json:"message"`
}

// TurnResponse is the result of one completed conversation turn.
type TurnResponse struct {
	Transcript string            `json:"transcript,omitempty"`
	Reply      chat.Turn         `json:"reply"`
	Documents  []search.Document `json:"documents,omitempty"`
	// Audio is the synthesized reply, base64-encoded. Empty when voice
	// output is disabled or synthesis degraded.
	Audio     string `json:"audio,omitempty"`
	AudioType string `json:"audioType,omitempty"`
}

// HistoryResponse is the session transcript.
type HistoryResponse struct {
	Turns []chat.Turn `json:"turns"`
	Count int         `json:"count"`
}

// LogsResponse is the captured system log view.
type LogsResponse struct {
	Entries []Logger.Entry `json:"entries"`
	Count   int            `json:"count"`
}

// SettingsResponse mirrors the settings panel, secrets masked.
type SettingsResponse struct {
	OpenAIEndpoint   string `json:"openaiEndpoint"`
	OpenAIKey        string `json:"openaiKey"`
	OpenAIDeployment string `json:"openaiDeployment"`
	OpenAIAPIVersion string `json:"openaiApiVersion"`
	SearchEndpoint   string `json:"searchEndpoint"`
	SearchKey        string `json:"searchKey"`
	SearchIndex      string `json:"searchIndex"`
	SpeechKey        string `json:"speechKey"`
	SpeechRegion     string `json:"speechRegion"`
	SpeechVoice      string `json:"speechVoice"`
	SpeechEnabled    bool   `json:"speechEnabled"`
	SearchEnabled    bool   `json:"searchEnabled"`
}

// UpdateSettingsRequest applies new values for the remainder of the
// session. Empty fields keep the current value, so the UI can resubmit the
// masked form without wiping keys.
type UpdateSettingsRequest struct {
	OpenAIEndpoint   string `json:"openaiEndpoint"`
	OpenAIKey        string `json:"openaiKey"`
	OpenAIDeployment string `json:"openaiDeployment"`
	OpenAIAPIVersion string `json:"openaiApiVersion"`
	SearchEndpoint   string `json:"searchEndpoint"`
	SearchKey        string `json:"searchKey"`
	SearchIndex      string `json:"searchIndex"`
	SpeechKey        string `json:"speechKey"`
	SpeechRegion     string `json:"speechRegion"`
	SpeechVoice      string `json:"speechVoice"`
}

// TestConnectionResponse reports the settings panel connection test.
type TestConnectionResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}
