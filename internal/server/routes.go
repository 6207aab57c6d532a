package server

import (
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/boonchuay-ai/boonchuay/internal/config"
	"github.com/boonchuay-ai/boonchuay/internal/domains/chat"
	"github.com/boonchuay-ai/boonchuay/internal/handlers"
	wsvoice "github.com/boonchuay-ai/boonchuay/internal/handlers/websocket"
	"github.com/boonchuay-ai/boonchuay/pkg/Logger"
	"github.com/boonchuay-ai/boonchuay/web"
)

type Dependencies struct {
	Manager     *config.Manager
	ChatService *chat.Service
	Logger      *Logger.Logger
}

func NewServerDependencies(
	manager *config.Manager,
	chatService *chat.Service,
	logger *Logger.Logger,
) Dependencies {
	return Dependencies{
		Manager:     manager,
		ChatService: chatService,
		Logger:      logger,
	}
}

// InitializeRoutes wires all HTTP and WebSocket routes onto the engine.
func InitializeRoutes(r *gin.Engine, dep Dependencies) {
	r.GET("/healthz", func(ctx *gin.Context) { ctx.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	api := r.Group("/api")
	handlers.NewChatHandler(dep.ChatService, dep.Logger).RegisterChatRoutes(api)
	handlers.NewSettingsHandler(dep.Manager, dep.ChatService, dep.Logger).RegisterSettingsRoutes(api)
	handlers.NewLogsHandler(dep.Logger.Sink()).RegisterLogsRoutes(api)

	r.GET("/ws/voice", wsvoice.NewHandler(dep.ChatService, dep.Logger).HandleVoice)

	registerUI(r, dep.Logger)
}

// registerUI serves the embedded single-page interface at the root.
func registerUI(r *gin.Engine, logger *Logger.Logger) {
	assets, err := fs.Sub(web.Static, "static")
	if err != nil {
		logger.Errorf("embedded UI unavailable: %v", err)
		return
	}
	fileServer := http.FileServer(http.FS(assets))
	r.GET("/", gin.WrapH(fileServer))
	r.GET("/app.js", gin.WrapH(fileServer))
	r.GET("/style.css", gin.WrapH(fileServer))
}
