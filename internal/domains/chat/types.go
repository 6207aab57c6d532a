package chat

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/boonchuay-ai/boonchuay/pkg/azure/search"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one entry of the conversation transcript. History is strictly
// ordered and append-only for the life of the session.
type Turn struct {
	ID        uuid.UUID `json:"id"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	HasAudio  bool      `json:"has_audio,omitempty"`
}

func NewTurn(role Role, text string) Turn {
	return Turn{
		ID:        uuid.New(),
		Role:      role,
		Text:      text,
		Timestamp: time.Now(),
	}
}

// Input is one user action: typed text, or a recorded WAV clip.
type Input struct {
	Text     string
	AudioWAV []byte
	// VoiceReply requests a synthesized audio response.
	VoiceReply bool
}

// TurnResult is what a completed turn hands back to the UI.
type TurnResult struct {
	Transcript string            `json:"transcript,omitempty"`
	Reply      Turn              `json:"reply"`
	Audio      []byte            `json:"-"`
	AudioType  string            `json:"-"`
	Documents  []search.Document `json:"documents,omitempty"`
}

// HistoryStore keeps per-session conversation history. Implementations live
// in internal/repository/session.
type HistoryStore interface {
	History(ctx context.Context, sessionID string) ([]Turn, error)
	Append(ctx context.Context, sessionID string, turns ...Turn) error
	Clear(ctx context.Context, sessionID string) error
	Close() error
}
