package session

import (
	"context"
	"errors"
	"testing"

	"github.com/boonchuay-ai/boonchuay/internal/config"
	"github.com/boonchuay-ai/boonchuay/internal/domains/chat"
)

func TestMemoryStoreAppendAndHistory(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	user := chat.NewTurn(chat.RoleUser, "สวัสดี")
	assistant := chat.NewTurn(chat.RoleAssistant, "สวัสดีครับ มีอะไรให้ช่วยไหม")

	if err := store.Append(ctx, "s1", user, assistant); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	turns, err := store.History(ctx, "s1")
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(turns) != 2 {
		t.Fatalf("Expected 2 turns, got %d", len(turns))
	}
	if turns[0].Role != chat.RoleUser || turns[1].Role != chat.RoleAssistant {
		t.Errorf("Turn order broken: %v, %v", turns[0].Role, turns[1].Role)
	}
	if turns[1].Text != "สวัสดีครับ มีอะไรให้ช่วยไหม" {
		t.Errorf("Unexpected assistant text %q", turns[1].Text)
	}
}

func TestMemoryStoreSessionsIsolated(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	store.Append(ctx, "a", chat.NewTurn(chat.RoleUser, "one"))
	store.Append(ctx, "b", chat.NewTurn(chat.RoleUser, "two"))

	turns, _ := store.History(ctx, "a")
	if len(turns) != 1 || turns[0].Text != "one" {
		t.Errorf("Session a polluted: %v", turns)
	}
}

func TestMemoryStoreHistoryReturnsCopy(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	store.Append(ctx, "s", chat.NewTurn(chat.RoleUser, "original"))

	turns, _ := store.History(ctx, "s")
	turns[0].Text = "mutated"

	again, _ := store.History(ctx, "s")
	if again[0].Text != "original" {
		t.Error("History exposed internal slice")
	}
}

func TestMemoryStoreClear(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	store.Append(ctx, "s", chat.NewTurn(chat.RoleUser, "hello"))

	if err := store.Clear(ctx, "s"); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	turns, _ := store.History(ctx, "s")
	if len(turns) != 0 {
		t.Errorf("Expected empty history after clear, got %d", len(turns))
	}
}

func TestNewStoreDrivers(t *testing.T) {
	if _, err := NewStore(config.SessionConfig{Driver: "memory"}); err != nil {
		t.Errorf("memory driver failed: %v", err)
	}
	if _, err := NewStore(config.SessionConfig{}); err != nil {
		t.Errorf("default driver failed: %v", err)
	}
	if _, err := NewStore(config.SessionConfig{Driver: "redis"}); !errors.Is(err, config.ErrMissingSetting) {
		t.Errorf("Expected missing redis addr error, got %v", err)
	}
	if _, err := NewStore(config.SessionConfig{Driver: "bogus"}); err == nil {
		t.Error("Expected error for unknown driver")
	}
}
