package app

import (
	"fmt"

	"github.com/boonchuay-ai/boonchuay/internal/config"
	"github.com/boonchuay-ai/boonchuay/internal/domains/chat"
	"github.com/boonchuay-ai/boonchuay/internal/repository/session"
	"github.com/boonchuay-ai/boonchuay/internal/server"
	"github.com/boonchuay-ai/boonchuay/pkg/Logger"
	"github.com/boonchuay-ai/boonchuay/pkg/azure/openai"
	"github.com/boonchuay-ai/boonchuay/pkg/azure/search"
	"github.com/boonchuay-ai/boonchuay/pkg/azure/speech"
)

// App holds every wired dependency for one running instance.
type App struct {
	Manager     *config.Manager
	Logger      *Logger.Logger
	Store       chat.HistoryStore
	ChatService *chat.Service
	ServerDeps  server.Dependencies
}

// NewApp wires the Azure clients, session store and chat service together.
func NewApp(cfg config.Settings, logger *Logger.Logger) (*App, error) {
	manager := config.NewManager(cfg)

	store, err := session.NewStore(cfg.Session)
	if err != nil {
		return nil, fmt.Errorf("couldn't set up session store: %w", err)
	}

	chatService := chat.NewService(
		manager,
		store,
		openai.NewClient(manager, logger),
		search.NewClient(manager, logger),
		speech.NewRecognizer(manager, logger),
		speech.NewSynthesizer(manager, logger),
		logger,
	)

	return &App{
		Manager:     manager,
		Logger:      logger,
		Store:       store,
		ChatService: chatService,
		ServerDeps:  server.NewServerDependencies(manager, chatService, logger),
	}, nil
}

// Close releases held resources, the session store connection included.
func (a *App) Close() error {
	return a.Store.Close()
}
