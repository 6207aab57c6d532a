package Logger

import (
	"fmt"
	"testing"
)

func TestMemorySinkCapturesLoggerOutput(t *testing.T) {
	logger := New(true, 10)

	logger.Info("first message")
	logger.Warnf("warning %d", 42)

	entries := logger.Sink().Entries(0)
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[0].Message != "first message" {
		t.Errorf("Unexpected first message %q", entries[0].Message)
	}
	if entries[1].Severity != "warn" {
		t.Errorf("Expected warn severity, got %q", entries[1].Severity)
	}
	if entries[1].Message != "warning 42" {
		t.Errorf("Unexpected warn message %q", entries[1].Message)
	}
}

func TestMemorySinkCap(t *testing.T) {
	logger := New(true, 3)

	for i := 0; i < 10; i++ {
		logger.Infof("msg %d", i)
	}
	entries := logger.Sink().Entries(0)
	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries after capping, got %d", len(entries))
	}
	for i, e := range entries {
		want := fmt.Sprintf("msg %d", 7+i)
		if e.Message != want {
			t.Errorf("Entry %d: expected %q, got %q", i, want, e.Message)
		}
	}
}

func TestMemorySinkLimitAndClear(t *testing.T) {
	logger := New(true, 100)
	for i := 0; i < 5; i++ {
		logger.Infof("msg %d", i)
	}

	entries := logger.Sink().Entries(2)
	if len(entries) != 2 {
		t.Fatalf("Expected 2 limited entries, got %d", len(entries))
	}
	if entries[0].Message != "msg 3" || entries[1].Message != "msg 4" {
		t.Errorf("Limit did not return most recent entries: %v", entries)
	}

	logger.Sink().Clear()
	if got := logger.Sink().Entries(0); len(got) != 0 {
		t.Errorf("Expected empty sink after Clear, got %d entries", len(got))
	}
}
