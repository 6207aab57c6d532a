package session

import (
	"fmt"

	"github.com/boonchuay-ai/boonchuay/internal/config"
	"github.com/boonchuay-ai/boonchuay/internal/domains/chat"
)

// NewStore builds the history store named by the session settings.
func NewStore(cfg config.SessionConfig) (chat.HistoryStore, error) {
	switch cfg.Driver {
	case "", "memory":
		return NewMemoryStore(), nil
	case "redis":
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("%w: SESSION_REDIS_ADDR", config.ErrMissingSetting)
		}
		return NewRedisStore(cfg.RedisAddr, cfg.RedisTTL), nil
	default:
		return nil, fmt.Errorf("unknown session driver %q", cfg.Driver)
	}
}
