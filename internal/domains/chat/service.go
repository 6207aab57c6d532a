package chat

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/boonchuay-ai/boonchuay/internal/config"
	"github.com/boonchuay-ai/boonchuay/internal/constants/prompts"
	"github.com/boonchuay-ai/boonchuay/pkg/Logger"
	"github.com/boonchuay-ai/boonchuay/pkg/azure/openai"
	"github.com/boonchuay-ai/boonchuay/pkg/azure/search"
)

var ErrProcMsg = errors.New("couldn't process message, try later")

// Completer produces a single text completion for a structured conversation.
type Completer interface {
	Complete(ctx context.Context, msgs []openai.Message) (string, error)
	TestConnection(ctx context.Context) error
}

// Retriever fetches documents relevant to the user query.
type Retriever interface {
	Query(ctx context.Context, query string) ([]search.Document, error)
}

// Transcriber converts a recorded WAV clip to text.
type Transcriber interface {
	Transcribe(ctx context.Context, wavData []byte) (string, error)
}

// Synthesizer converts reply text to playable audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// Service drives one request/response cycle per user turn and keeps the
// session history consistent. Turns within a session are single-flight: a
// second turn waits until the first fully completes.
type Service struct {
	manager     *config.Manager
	store       HistoryStore
	completer   Completer
	retriever   Retriever
	transcriber Transcriber
	synthesizer Synthesizer
	logger      *Logger.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewService(
	manager *config.Manager,
	store HistoryStore,
	completer Completer,
	retriever Retriever,
	transcriber Transcriber,
	synthesizer Synthesizer,
	logger *Logger.Logger,
) *Service {
	return &Service{
		manager:     manager,
		store:       store,
		completer:   completer,
		retriever:   retriever,
		transcriber: transcriber,
		synthesizer: synthesizer,
		logger:      logger,
		locks:       make(map[string]*sync.Mutex),
	}
}

// HandleTurn runs one turn: transcribe when the input is audio, retrieve
// context, complete, and optionally synthesize the reply.
//
// Hard failures (transcription, completion) abort the turn; soft failures
// (retrieval, synthesis) degrade and the turn still returns usable output.
func (s *Service) HandleTurn(ctx context.Context, sessionID string, input Input) (*TurnResult, error) {
	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	cfg := s.manager.Snapshot()
	result := &TurnResult{}

	text := input.Text
	if len(input.AudioWAV) > 0 {
		transcript, err := s.transcriber.Transcribe(ctx, input.AudioWAV)
		if err != nil {
			// No history mutation on transcription failure.
			s.logger.Errorf("transcription failed for session %s: %v", sessionID, err)
			return nil, err
		}
		text = transcript
		result.Transcript = transcript
	}
	if text == "" {
		return nil, fmt.Errorf("empty user input")
	}

	prior, err := s.store.History(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("couldn't load history: %w", err)
	}

	userTurn := NewTurn(RoleUser, text)
	if err := s.store.Append(ctx, sessionID, userTurn); err != nil {
		return nil, fmt.Errorf("couldn't save user turn: %w", err)
	}
	s.logger.Infof("user query (session %s): %s", sessionID, text)

	retrieval := s.retrieve(ctx, cfg, text)
	if retrieval.Unavailable {
		s.logger.Warnf("retrieval unavailable for session %s: %s", sessionID, retrieval.Reason)
	}
	result.Documents = retrieval.Documents

	msgs := s.buildRequest(cfg, retrieval.Documents, prior, text)
	reply, err := s.completer.Complete(ctx, msgs)
	if err != nil {
		// The user turn stays; no assistant turn is recorded.
		s.logger.Errorf("completion failed for session %s: %v", sessionID, err)
		return nil, fmt.Errorf("%w: %v", ErrProcMsg, err)
	}

	assistantTurn := NewTurn(RoleAssistant, reply)

	if input.VoiceReply && cfg.Speech.Enabled() {
		audio, err := s.synthesizer.Synthesize(ctx, reply)
		if err != nil {
			s.logger.Warnf("synthesis failed for session %s, returning text only: %v", sessionID, err)
		} else {
			assistantTurn.HasAudio = true
			result.Audio = audio
			result.AudioType = "audio/mpeg"
		}
	}

	if err := s.store.Append(ctx, sessionID, assistantTurn); err != nil {
		return nil, fmt.Errorf("couldn't save assistant turn: %w", err)
	}
	result.Reply = assistantTurn

	s.logger.Infof("assistant reply (session %s): %d chars", sessionID, len(reply))
	return result, nil
}

func (s *Service) retrieve(ctx context.Context, cfg config.Settings, query string) search.Result {
	if !cfg.Search.Enabled() {
		return search.Unavailable("search not configured")
	}
	docs, err := s.retriever.Query(ctx, query)
	if err != nil {
		return search.Unavailable(err.Error())
	}
	return search.Result{Documents: docs}
}

// buildRequest assembles system instruction + retrieved snippets + a
// bounded window of prior turns + the new user text.
func (s *Service) buildRequest(cfg config.Settings, docs []search.Document, prior []Turn, text string) []openai.Message {
	systemPrompt := cfg.Chat.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = prompts.DefaultSystemPrompt
	}

	window := prior
	if cfg.Chat.HistoryWindow > 0 && len(window) > cfg.Chat.HistoryWindow {
		window = window[len(window)-cfg.Chat.HistoryWindow:]
	}

	msgs := make([]openai.Message, 0, len(window)+2)
	msgs = append(msgs, openai.Message{
		Role:    openai.SYSTEM,
		Content: prompts.WithContext(systemPrompt, docs),
	})
	for _, turn := range window {
		role := openai.USER
		if turn.Role == RoleAssistant {
			role = openai.ASSISTANT
		}
		msgs = append(msgs, openai.Message{Role: role, Content: turn.Text})
	}
	msgs = append(msgs, openai.Message{Role: openai.USER, Content: text})
	return msgs
}

// History returns the session transcript.
func (s *Service) History(ctx context.Context, sessionID string) ([]Turn, error) {
	return s.store.History(ctx, sessionID)
}

// ClearHistory drops the session transcript, the UI's clear-chat action.
func (s *Service) ClearHistory(ctx context.Context, sessionID string) error {
	return s.store.Clear(ctx, sessionID)
}

// TestConnection verifies the completion endpoint is reachable with the
// current settings.
func (s *Service) TestConnection(ctx context.Context) error {
	return s.completer.TestConnection(ctx)
}

func (s *Service) sessionLock(sessionID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[sessionID] = lock
	}
	return lock
}
