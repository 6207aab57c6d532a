package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/boonchuay-ai/boonchuay/internal/config"
	"github.com/boonchuay-ai/boonchuay/internal/domains/chat"
	"github.com/boonchuay-ai/boonchuay/pkg/Logger"
)

type SettingsHandler struct {
	manager *config.Manager
	service *chat.Service
	logger  *Logger.Logger
}

func NewSettingsHandler(manager *config.Manager, service *chat.Service, logger *Logger.Logger) *SettingsHandler {
	return &SettingsHandler{manager: manager, service: service, logger: logger}
}

// GetSettings returns the current settings with secrets masked.
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	s := h.manager.Snapshot()
	c.JSON(http.StatusOK, SettingsResponse{
		OpenAIEndpoint:   s.OpenAI.Endpoint,
		OpenAIKey:        maskSecret(s.OpenAI.APIKey),
		OpenAIDeployment: s.OpenAI.Deployment,
		OpenAIAPIVersion: s.OpenAI.APIVersion,
		SearchEndpoint:   s.Search.Endpoint,
		SearchKey:        maskSecret(s.Search.APIKey),
		SearchIndex:      s.Search.Index,
		SpeechKey:        maskSecret(s.Speech.Key),
		SpeechRegion:     s.Speech.Region,
		SpeechVoice:      s.Speech.Voice,
		SpeechEnabled:    s.Speech.Enabled(),
		SearchEnabled:    s.Search.Enabled(),
	})
}

// UpdateSettings re-applies edited values for the remainder of the session.
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request data", Details: err.Error()})
		return
	}

	s := h.manager.Snapshot()
	applyIfSet(&s.OpenAI.Endpoint, req.OpenAIEndpoint)
	applyIfSet(&s.OpenAI.APIKey, req.OpenAIKey)
	applyIfSet(&s.OpenAI.Deployment, req.OpenAIDeployment)
	applyIfSet(&s.OpenAI.APIVersion, req.OpenAIAPIVersion)
	applyIfSet(&s.Search.Endpoint, req.SearchEndpoint)
	applyIfSet(&s.Search.APIKey, req.SearchKey)
	applyIfSet(&s.Search.Index, req.SearchIndex)
	applyIfSet(&s.Speech.Key, req.SpeechKey)
	applyIfSet(&s.Speech.Region, req.SpeechRegion)
	applyIfSet(&s.Speech.Voice, req.SpeechVoice)
	h.manager.Apply(s)

	h.logger.Info("settings updated from panel")
	c.JSON(http.StatusOK, SuccessResponse{Message: "Settings applied"})
}

// TestConnection checks the completion endpoint with current settings,
// the panel's test button.
func (h *SettingsHandler) TestConnection(c *gin.Context) {
	if err := h.service.TestConnection(c.Request.Context()); err != nil {
		h.logger.Warnf("connection test failed: %v", err)
		c.JSON(http.StatusOK, TestConnectionResponse{OK: false, Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, TestConnectionResponse{OK: true, Message: "Connection successful"})
}

func applyIfSet(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

// maskSecret keeps the last 4 characters so the panel can show which key
// is loaded without exposing it.
func maskSecret(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 4 {
		return "****"
	}
	return "****" + secret[len(secret)-4:]
}

// RegisterSettingsRoutes registers the settings panel routes.
func (h *SettingsHandler) RegisterSettingsRoutes(r *gin.RouterGroup) {
	settings := r.Group("/settings")
	{
		settings.GET("", h.GetSettings)
		settings.PUT("", h.UpdateSettings)
		settings.POST("/test", h.TestConnection)
	}
}
