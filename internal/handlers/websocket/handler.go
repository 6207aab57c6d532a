package websocket

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/boonchuay-ai/boonchuay/internal/domains/chat"
	"github.com/boonchuay-ai/boonchuay/pkg/Logger"
	"github.com/boonchuay-ai/boonchuay/pkg/azure/speech"
)

// Control message types exchanged as JSON text frames. Audio travels as
// binary frames: 8-byte header (sampleRate int32 LE, channels int16 LE,
// 2 reserved bytes) followed by PCM data.
type MessageType string

const (
	MessageTypeStart      MessageType = "start"
	MessageTypeStop       MessageType = "stop"
	MessageTypeTranscript MessageType = "transcript"
	MessageTypeReply      MessageType = "reply"
	MessageTypeState      MessageType = "state"
	MessageTypeError      MessageType = "error"
)

type ControlMessage struct {
	Type MessageType `json:"type"`
	Text string      `json:"text,omitempty"`
}

const audioFrameHeaderSize = 8

type Handler struct {
	service *chat.Service
	logger  *Logger.Logger
}

func NewHandler(service *chat.Service, logger *Logger.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true }, // same-host UI only
}

// HandleVoice runs a streamed voice session over one WebSocket connection.
// Turns are processed one at a time: the read loop does not pick up the
// next control frame until the current turn finished.
func (h *Handler) HandleVoice(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Errorf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	// Browser WebSocket clients can't set headers, so the session also
	// rides on a query parameter.
	sessionID := c.Query("session")
	if sessionID == "" {
		sessionID = c.GetHeader("X-Session-ID")
	}
	if sessionID == "" {
		sessionID = uuid.New().String()
	}
	session := NewVoiceSession(sessionID, h.service)
	h.logger.Infof("voice ws connected, session %s", sessionID)

	for {
		messageType, payload, err := conn.ReadMessage()
		if err != nil {
			h.logger.Infof("voice ws closed for session %s: %v", sessionID, err)
			return
		}

		switch messageType {
		case websocket.TextMessage:
			h.handleControl(c, conn, session, payload)
		case websocket.BinaryMessage:
			h.handleAudioFrame(conn, session, payload)
		}
	}
}

func (h *Handler) handleControl(c *gin.Context, conn *websocket.Conn, session *VoiceSession, payload []byte) {
	var msg ControlMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		h.sendError(conn, "invalid control message")
		return
	}

	ctx := c.Request.Context()
	switch msg.Type {
	case MessageTypeStart:
		if err := session.StartRecording(ctx); err != nil {
			h.sendError(conn, err.Error())
			return
		}
		h.sendControl(conn, ControlMessage{Type: MessageTypeState, Text: session.State()})

	case MessageTypeStop:
		result, err := session.StopRecording(ctx)
		if err != nil {
			h.reportTurnError(conn, err)
			return
		}
		h.sendControl(conn, ControlMessage{Type: MessageTypeTranscript, Text: result.Transcript})
		h.sendControl(conn, ControlMessage{Type: MessageTypeReply, Text: result.Reply.Text})
		if len(result.Audio) > 0 {
			if err := conn.WriteMessage(websocket.BinaryMessage, result.Audio); err != nil {
				h.logger.Errorf("failed to send reply audio: %v", err)
			}
		}

	default:
		h.sendError(conn, "unknown control type "+string(msg.Type))
	}
}

func (h *Handler) handleAudioFrame(conn *websocket.Conn, session *VoiceSession, payload []byte) {
	if len(payload) < audioFrameHeaderSize {
		h.sendError(conn, "audio frame too short")
		return
	}

	sampleRate := int32(payload[0]) | int32(payload[1])<<8 | int32(payload[2])<<16 | int32(payload[3])<<24
	channels := int16(payload[4]) | int16(payload[5])<<8
	pcm := payload[audioFrameHeaderSize:]

	if err := session.AddFrame(pcm, sampleRate, channels); err != nil {
		// Frames racing a stop are expected, drop them quietly.
		h.logger.Debugf("dropped audio frame: %v", err)
	}
}

func (h *Handler) reportTurnError(conn *websocket.Conn, err error) {
	switch {
	case errors.Is(err, speech.ErrNoSpeech):
		h.sendError(conn, speech.ErrNoSpeech.Error())
	case errors.Is(err, chat.ErrProcMsg):
		h.sendError(conn, "เกิดข้อผิดพลาด: "+err.Error())
	default:
		h.sendError(conn, err.Error())
	}
}

func (h *Handler) sendControl(conn *websocket.Conn, msg ControlMessage) {
	if err := conn.WriteJSON(msg); err != nil {
		h.logger.Errorf("ws write failed: %v", err)
	}
}

func (h *Handler) sendError(conn *websocket.Conn, message string) {
	h.sendControl(conn, ControlMessage{Type: MessageTypeError, Text: message})
}
