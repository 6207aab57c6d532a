package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/boonchuay-ai/boonchuay/pkg/Logger"
)

type LogsHandler struct {
	sink *Logger.MemorySink
}

func NewLogsHandler(sink *Logger.MemorySink) *LogsHandler {
	return &LogsHandler{sink: sink}
}

// GetLogs returns recent system log entries for the log view.
func (h *LogsHandler) GetLogs(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid limit"})
			return
		}
		limit = parsed
	}

	entries := h.sink.Entries(limit)
	c.JSON(http.StatusOK, LogsResponse{Entries: entries, Count: len(entries)})
}

// ClearLogs drops all captured entries.
func (h *LogsHandler) ClearLogs(c *gin.Context) {
	h.sink.Clear()
	c.Status(http.StatusNoContent)
}

// RegisterLogsRoutes registers the log view routes.
func (h *LogsHandler) RegisterLogsRoutes(r *gin.RouterGroup) {
	logs := r.Group("/logs")
	{
		logs.GET("", h.GetLogs)
		logs.DELETE("", h.ClearLogs)
	}
}
