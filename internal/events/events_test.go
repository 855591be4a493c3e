package events

import "testing"

func TestEncodeDecodeEvent(t *testing.T) {
	event := Event{
		ContentID:  "c1",
		UserID:     "u1",
		Status:     "completed",
		RequestID:  "r1",
		OccurredAt: "2026-08-28T00:00:00Z",
		Version:    EventVersion,
	}

	payload, err := EncodeEvent(event)
	if err != nil {
		t.Fatalf("EncodeEvent: %v", err)
	}

	decoded, err := DecodeEvent(payload)
	if err != nil {
		t.Fatalf("DecodeEvent: %v", err)
	}
	if decoded != event {
		t.Fatalf("round trip mismatch: %+v", decoded)
	}
}

func TestDecodeEventRejectsGarbage(t *testing.T) {
	if _, err := DecodeEvent([]byte("not json")); err == nil {
		t.Fatalf("expected decode error")
	}
}
