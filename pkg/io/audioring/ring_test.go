package audioring

import (
	"bytes"
	"errors"
	"testing"
	"time"
)

func TestRingEnqueueDequeue(t *testing.T) {
	ring := New(1024)

	if ring.Capacity() != 1024 {
		t.Errorf("Expected capacity 1024, got %d", ring.Capacity())
	}
	if ring.Len() != 0 {
		t.Errorf("Expected empty ring, got length %d", ring.Len())
	}

	frame := Frame{
		Data:       []byte{1, 2, 3, 4, 5},
		Timestamp:  time.Now(),
		SampleRate: 16000,
		Channels:   1,
	}
	if err := ring.Enqueue(frame); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	got, ok := ring.Dequeue()
	if !ok {
		t.Fatal("Dequeue returned nothing")
	}
	if !bytes.Equal(got.Data, frame.Data) {
		t.Errorf("Data mismatch: %v != %v", got.Data, frame.Data)
	}
	if got.SampleRate != 16000 || got.Channels != 1 {
		t.Errorf("Metadata mismatch: %+v", got)
	}

	if _, ok := ring.Dequeue(); ok {
		t.Error("Expected empty ring after dequeue")
	}
}

func TestRingDrainAllPreservesOrder(t *testing.T) {
	ring := New(1024)

	for i := 0; i < 4; i++ {
		frame := Frame{
			Data:       []byte{byte(i)},
			Timestamp:  time.Now(),
			SampleRate: 16000,
			Channels:   1,
		}
		if err := ring.Enqueue(frame); err != nil {
			t.Fatalf("Enqueue %d failed: %v", i, err)
		}
	}

	frames := ring.DrainAll()
	if len(frames) != 4 {
		t.Fatalf("Expected 4 frames, got %d", len(frames))
	}
	for i, f := range frames {
		if f.Data[0] != byte(i) {
			t.Errorf("Frame %d out of order: %v", i, f.Data)
		}
	}
	if ring.Len() != 0 {
		t.Errorf("Expected empty ring after drain, got %d", ring.Len())
	}
}

func TestRingEvictsOldestOnOverflow(t *testing.T) {
	// Each frame takes 4 (size prefix) + 18 (header) + 8 (data) = 30 bytes.
	ring := New(100)

	for i := 0; i < 6; i++ {
		frame := Frame{
			Data:       []byte{byte(i), 0, 0, 0, 0, 0, 0, 0},
			Timestamp:  time.Now(),
			SampleRate: 16000,
			Channels:   1,
		}
		if err := ring.Enqueue(frame); err != nil {
			t.Fatalf("Enqueue %d failed: %v", i, err)
		}
	}

	frames := ring.DrainAll()
	if len(frames) == 0 {
		t.Fatal("Expected frames to remain after eviction")
	}
	// The newest frame must have survived.
	if frames[len(frames)-1].Data[0] != 5 {
		t.Errorf("Newest frame lost, got %v", frames[len(frames)-1].Data)
	}
}

func TestRingRejectsOversizedFrame(t *testing.T) {
	ring := New(64)
	frame := Frame{Data: make([]byte, 128), Timestamp: time.Now(), SampleRate: 16000, Channels: 1}
	if err := ring.Enqueue(frame); !errors.Is(err, ErrFrameTooLarge) {
		t.Errorf("Expected ErrFrameTooLarge, got %v", err)
	}
}
