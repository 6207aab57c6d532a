package websocket

import (
	"context"
	"testing"

	"github.com/boonchuay-ai/boonchuay/internal/config"
	"github.com/boonchuay-ai/boonchuay/internal/domains/chat"
	"github.com/boonchuay-ai/boonchuay/internal/repository/session"
	"github.com/boonchuay-ai/boonchuay/pkg/Logger"
	"github.com/boonchuay-ai/boonchuay/pkg/azure/openai"
	"github.com/boonchuay-ai/boonchuay/pkg/azure/search"
	"github.com/boonchuay-ai/boonchuay/pkg/azure/speech"
)

type fakeCompleter struct{ reply string }

func (f *fakeCompleter) Complete(ctx context.Context, msgs []openai.Message) (string, error) {
	return f.reply, nil
}
func (f *fakeCompleter) TestConnection(ctx context.Context) error { return nil }

type fakeRetriever struct{}

func (f *fakeRetriever) Query(ctx context.Context, q string) ([]search.Document, error) {
	return nil, nil
}

type fakeTranscriber struct {
	gotWAV []byte
	text   string
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, wav []byte) (string, error) {
	f.gotWAV = wav
	return f.text, nil
}

type fakeSynthesizer struct{}

func (f *fakeSynthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	return []byte("mp3"), nil
}

func newTestService(transcriber *fakeTranscriber) *chat.Service {
	manager := config.NewManager(config.Settings{
		Speech: config.SpeechConfig{Key: "k", Region: "southeastasia"},
		Chat:   config.ChatConfig{HistoryWindow: 10},
	})
	return chat.NewService(
		manager,
		session.NewMemoryStore(),
		&fakeCompleter{reply: "คำตอบ"},
		&fakeRetriever{},
		transcriber,
		&fakeSynthesizer{},
		Logger.New(true, 50),
	)
}

func TestVoiceSessionStateMachine(t *testing.T) {
	ctx := context.Background()
	sess := NewVoiceSession("s1", newTestService(&fakeTranscriber{text: "x"}))

	if sess.State() != StateIdle {
		t.Errorf("Expected idle, got %s", sess.State())
	}
	if _, err := sess.StopRecording(ctx); err == nil {
		t.Error("Expected error stopping while idle")
	}
	if err := sess.StartRecording(ctx); err != nil {
		t.Fatalf("StartRecording failed: %v", err)
	}
	if sess.State() != StateRecording {
		t.Errorf("Expected recording, got %s", sess.State())
	}
	if err := sess.StartRecording(ctx); err == nil {
		t.Error("Expected error starting while recording")
	}
}

func TestVoiceSessionRejectsFramesWhileIdle(t *testing.T) {
	sess := NewVoiceSession("s1", newTestService(&fakeTranscriber{text: "x"}))
	if err := sess.AddFrame([]byte{1, 2}, 16000, 1); err == nil {
		t.Error("Expected error adding frame while idle")
	}
}

func TestVoiceSessionFullTurn(t *testing.T) {
	ctx := context.Background()
	transcriber := &fakeTranscriber{text: "สวัสดี"}
	sess := NewVoiceSession("s1", newTestService(transcriber))

	if err := sess.StartRecording(ctx); err != nil {
		t.Fatalf("StartRecording failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := sess.AddFrame([]byte{byte(i), 0, byte(i), 0}, 16000, 1); err != nil {
			t.Fatalf("AddFrame %d failed: %v", i, err)
		}
	}

	result, err := sess.StopRecording(ctx)
	if err != nil {
		t.Fatalf("StopRecording failed: %v", err)
	}
	if sess.State() != StateIdle {
		t.Errorf("Expected idle after turn, got %s", sess.State())
	}
	if result.Transcript != "สวัสดี" {
		t.Errorf("Unexpected transcript %q", result.Transcript)
	}
	if result.Reply.Text != "คำตอบ" {
		t.Errorf("Unexpected reply %q", result.Reply.Text)
	}
	if string(result.Audio) != "mp3" {
		t.Errorf("Expected synthesized audio, got %q", result.Audio)
	}

	// The recognizer must receive a RIFF-framed clip with all PCM bytes.
	wav := transcriber.gotWAV
	if len(wav) != 44+12 {
		t.Fatalf("Unexpected wav size %d", len(wav))
	}
	if string(wav[0:4]) != "RIFF" {
		t.Error("Expected RIFF header on transcribed clip")
	}
	want := speech.EncodeWAV([]byte{0, 0, 0, 0, 1, 0, 1, 0, 2, 0, 2, 0}, 16000, 1)
	if len(want) != len(wav) {
		t.Errorf("Clip framing differs from EncodeWAV output: %d != %d", len(wav), len(want))
	}
}

func TestVoiceSessionStopWithoutAudio(t *testing.T) {
	ctx := context.Background()
	sess := NewVoiceSession("s1", newTestService(&fakeTranscriber{text: "x"}))

	sess.StartRecording(ctx)
	if _, err := sess.StopRecording(ctx); err == nil {
		t.Error("Expected error stopping with no buffered audio")
	}
	if sess.State() != StateIdle {
		t.Errorf("Expected idle after failed stop, got %s", sess.State())
	}
}
