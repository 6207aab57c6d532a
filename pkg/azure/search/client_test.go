package search

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/boonchuay-ai/boonchuay/internal/config"
	"github.com/boonchuay-ai/boonchuay/pkg/Logger"
)

func testManager(endpoint string) *config.Manager {
	return config.NewManager(config.Settings{
		Search: config.SearchConfig{
			Endpoint:   endpoint,
			APIKey:     "search-key",
			Index:      "loan-docs",
			APIVersion: "2024-07-01",
			TopN:       5,
		},
	})
}

func TestQueryReturnsOrderedDocuments(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/indexes/loan-docs/docs/search" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("api-key") != "search-key" {
			t.Errorf("Missing api-key header")
		}
		var body searchRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		if body.Top != 5 || body.QueryType != "simple" {
			t.Errorf("Unexpected request body: %+v", body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"value": [
			{"@search.score": 2.5, "title": "สินเชื่อบ้าน", "content": "รายละเอียดสินเชื่อบ้าน"},
			{"@search.score": 1.1, "title": "สินเชื่อรถ", "content": "รายละเอียดสินเชื่อรถ"}
		]}`))
	}))
	defer ts.Close()

	client := NewClient(testManager(ts.URL), Logger.New(true, 10))
	docs, err := client.Query(context.Background(), "สินเชื่อ")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("Expected 2 documents, got %d", len(docs))
	}
	if docs[0].Title != "สินเชื่อบ้าน" || docs[0].Score != 2.5 {
		t.Errorf("Unexpected first document: %+v", docs[0])
	}
	if docs[1].Snippet != "รายละเอียดสินเชื่อรถ" {
		t.Errorf("Unexpected second document: %+v", docs[1])
	}
}

func TestQueryErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error": {"message": "forbidden"}}`))
	}))
	defer ts.Close()

	client := NewClient(testManager(ts.URL), Logger.New(true, 10))
	if _, err := client.Query(context.Background(), "q"); err == nil {
		t.Fatal("Expected error for 403 response")
	}
}

func TestQueryFailsWithoutSettings(t *testing.T) {
	client := NewClient(config.NewManager(config.Settings{}), Logger.New(true, 10))
	_, err := client.Query(context.Background(), "q")
	if !errors.Is(err, config.ErrMissingSetting) {
		t.Errorf("Expected configuration error, got %v", err)
	}
}
