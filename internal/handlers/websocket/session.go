package websocket

import (
	"context"
	"fmt"
	"time"

	"github.com/looplab/fsm"

	"github.com/boonchuay-ai/boonchuay/internal/domains/chat"
	"github.com/boonchuay-ai/boonchuay/pkg/azure/speech"
	"github.com/boonchuay-ai/boonchuay/pkg/io/audioring"
)

// Voice session states. One recording at a time: a start while recording
// or a stop while idle is a protocol error reported to the client.
const (
	StateIdle       = "idle"
	StateRecording  = "recording"
	StateProcessing = "processing"
)

const (
	eventStart  = "start"
	eventStop   = "stop"
	eventFinish = "finish"
)

// 1MB of buffered frames, the same budget the audio path has always used.
const ringCapacity = 1 << 20

// VoiceSession accumulates streamed PCM frames for one connection and runs
// a conversation turn when the client stops recording.
type VoiceSession struct {
	sessionID string
	service   *chat.Service
	machine   *fsm.FSM
	ring      audioring.Ring
}

func NewVoiceSession(sessionID string, service *chat.Service) *VoiceSession {
	return &VoiceSession{
		sessionID: sessionID,
		service:   service,
		ring:      audioring.New(ringCapacity),
		machine: fsm.NewFSM(
			StateIdle,
			fsm.Events{
				{Name: eventStart, Src: []string{StateIdle}, Dst: StateRecording},
				{Name: eventStop, Src: []string{StateRecording}, Dst: StateProcessing},
				{Name: eventFinish, Src: []string{StateProcessing}, Dst: StateIdle},
			},
			fsm.Callbacks{},
		),
	}
}

// State reports the current session state.
func (s *VoiceSession) State() string {
	return s.machine.Current()
}

// StartRecording begins a new recording, dropping any stale frames.
func (s *VoiceSession) StartRecording(ctx context.Context) error {
	if err := s.machine.Event(ctx, eventStart); err != nil {
		return fmt.Errorf("cannot start recording in state %s", s.machine.Current())
	}
	s.ring.DrainAll()
	return nil
}

// AddFrame buffers one PCM frame of the active recording.
func (s *VoiceSession) AddFrame(data []byte, sampleRate int32, channels int16) error {
	if s.machine.Current() != StateRecording {
		return fmt.Errorf("not recording")
	}
	return s.ring.Enqueue(audioring.Frame{
		Data:       data,
		Timestamp:  time.Now(),
		SampleRate: sampleRate,
		Channels:   channels,
	})
}

// StopRecording ends the recording and runs the turn: buffered frames are
// wrapped in a WAV header, transcribed, and answered. The session returns
// to idle whatever the outcome.
func (s *VoiceSession) StopRecording(ctx context.Context) (*chat.TurnResult, error) {
	if err := s.machine.Event(ctx, eventStop); err != nil {
		return nil, fmt.Errorf("cannot stop recording in state %s", s.machine.Current())
	}
	defer s.machine.Event(ctx, eventFinish)

	frames := s.ring.DrainAll()
	if len(frames) == 0 {
		return nil, fmt.Errorf("no audio recorded")
	}

	sampleRate := int(frames[0].SampleRate)
	channels := int(frames[0].Channels)
	var pcm []byte
	for _, frame := range frames {
		pcm = append(pcm, frame.Data...)
	}

	return s.service.HandleTurn(ctx, s.sessionID, chat.Input{
		AudioWAV:   speech.EncodeWAV(pcm, sampleRate, channels),
		VoiceReply: true,
	})
}
