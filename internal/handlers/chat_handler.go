package handlers

import (
	"encoding/base64"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/boonchuay-ai/boonchuay/internal/config"
	"github.com/boonchuay-ai/boonchuay/internal/domains/chat"
	"github.com/boonchuay-ai/boonchuay/pkg/Logger"
	"github.com/boonchuay-ai/boonchuay/pkg/azure/speech"
)

// 10MB cap on uploaded clips, matches a few minutes of 16kHz mono PCM.
const maxAudioUpload = 10 << 20

type ChatHandler struct {
	service *chat.Service
	logger  *Logger.Logger
}

func NewChatHandler(service *chat.Service, logger *Logger.Logger) *ChatHandler {
	return &ChatHandler{service: service, logger: logger}
}

type sendMessageRequest struct {
	Text       string `json:"text" binding:"required"`
	VoiceReply bool   `json:"voiceReply"`
}

// SendMessage runs one text turn.
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request data", Details: err.Error()})
		return
	}

	result, err := h.service.HandleTurn(c.Request.Context(), sessionID(c), chat.Input{
		Text:       req.Text,
		VoiceReply: req.VoiceReply,
	})
	if err != nil {
		h.respondTurnError(c, err)
		return
	}
	c.JSON(http.StatusOK, turnResponse(result))
}

// SendVoice runs one voice turn from an uploaded WAV clip.
func (h *ChatHandler) SendVoice(c *gin.Context) {
	file, _, err := c.Request.FormFile("audio")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Missing audio file", Details: err.Error()})
		return
	}
	defer file.Close()

	wavData, err := io.ReadAll(io.LimitReader(file, maxAudioUpload))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Failed to read audio", Details: err.Error()})
		return
	}

	result, err := h.service.HandleTurn(c.Request.Context(), sessionID(c), chat.Input{
		AudioWAV:   wavData,
		VoiceReply: c.Query("voiceReply") != "false",
	})
	if err != nil {
		h.respondTurnError(c, err)
		return
	}
	c.JSON(http.StatusOK, turnResponse(result))
}

// GetHistory returns the session transcript.
func (h *ChatHandler) GetHistory(c *gin.Context) {
	turns, err := h.service.History(c.Request.Context(), sessionID(c))
	if err != nil {
		h.logger.Errorf("history error: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, HistoryResponse{Turns: turns, Count: len(turns)})
}

// ClearHistory drops the session transcript.
func (h *ChatHandler) ClearHistory(c *gin.Context) {
	if err := h.service.ClearHistory(c.Request.Context(), sessionID(c)); err != nil {
		h.logger.Errorf("clear history error: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ChatHandler) respondTurnError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, config.ErrMissingSetting):
		c.JSON(http.StatusPreconditionFailed, ErrorResponse{Error: "Configuration error", Details: err.Error()})
	case errors.Is(err, speech.ErrNoSpeech):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: speech.ErrNoSpeech.Error()})
	case errors.Is(err, chat.ErrProcMsg):
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "เกิดข้อผิดพลาด", Details: err.Error()})
	default:
		h.logger.Errorf("turn error: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error", Details: err.Error()})
	}
}

func turnResponse(result *chat.TurnResult) TurnResponse {
	resp := TurnResponse{
		Transcript: result.Transcript,
		Reply:      result.Reply,
		Documents:  result.Documents,
	}
	if len(result.Audio) > 0 {
		resp.Audio = base64.StdEncoding.EncodeToString(result.Audio)
		resp.AudioType = result.AudioType
	}
	return resp
}

// sessionID scopes history per browser session via a header the UI sets.
// A missing header falls back to a shared default, matching the single
// session per running instance model.
func sessionID(c *gin.Context) string {
	if id := c.GetHeader("X-Session-ID"); id != "" {
		return id
	}
	return "default"
}

// RegisterChatRoutes registers all conversation routes.
func (h *ChatHandler) RegisterChatRoutes(r *gin.RouterGroup) {
	chatGroup := r.Group("/chat")
	{
		chatGroup.POST("/message", h.SendMessage)
		chatGroup.POST("/voice", h.SendVoice)
		chatGroup.GET("/history", h.GetHistory)
		chatGroup.DELETE("/history", h.ClearHistory)
	}
}
