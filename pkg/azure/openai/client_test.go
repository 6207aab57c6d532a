package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/boonchuay-ai/boonchuay/internal/config"
	"github.com/boonchuay-ai/boonchuay/pkg/Logger"
)

func testManager(endpoint string) *config.Manager {
	return config.NewManager(config.Settings{
		OpenAI: config.OpenAIConfig{
			Endpoint:       endpoint,
			APIKey:         "test-key",
			Deployment:     "gpt-4o",
			APIVersion:     "2024-06-01",
			RequestTimeout: 5 * time.Second,
		},
		Chat: config.ChatConfig{MaxTokens: 1000},
	})
}

func TestCompleteReturnsAssistantText(t *testing.T) {
	var gotBody struct {
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("Failed to decode request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "chatcmpl-1",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "สวัสดีครับ มีอะไรให้ช่วยไหม"}}]
		}`))
	}))
	defer ts.Close()

	client := NewClient(testManager(ts.URL), Logger.New(true, 10))
	reply, err := client.Complete(context.Background(), []Message{
		{Role: SYSTEM, Content: "You are a helpful Loan agent that responds in Thai language"},
		{Role: USER, Content: "สวัสดี"},
	})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if reply != "สวัสดีครับ มีอะไรให้ช่วยไหม" {
		t.Errorf("Unexpected reply %q", reply)
	}
	if len(gotBody.Messages) != 2 {
		t.Fatalf("Expected 2 messages sent, got %d", len(gotBody.Messages))
	}
	if gotBody.Messages[0].Role != "system" || gotBody.Messages[1].Role != "user" {
		t.Errorf("Unexpected message roles: %+v", gotBody.Messages)
	}
}

func TestCompleteClassifiesAuthError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": {"message": "invalid api key"}}`))
	}))
	defer ts.Close()

	client := NewClient(testManager(ts.URL), Logger.New(true, 10))
	_, err := client.Complete(context.Background(), []Message{{Role: USER, Content: "hi"}})
	if !errors.Is(err, ErrAuth) {
		t.Errorf("Expected ErrAuth, got %v", err)
	}
}

func TestCompleteFailsWithoutSettings(t *testing.T) {
	manager := config.NewManager(config.Settings{})
	client := NewClient(manager, Logger.New(true, 10))

	_, err := client.Complete(context.Background(), []Message{{Role: USER, Content: "hi"}})
	if !errors.Is(err, config.ErrMissingSetting) {
		t.Errorf("Expected configuration error before any network call, got %v", err)
	}
}
