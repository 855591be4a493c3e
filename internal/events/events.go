package events

import (
	"context"
	"encoding/json"
)

// Event announces a terminal processing outcome to downstream consumers.
type Event struct {
	ContentID  string `json:"contentId"`
	UserID     string `json:"userId"`
	Status     string `json:"status"`
	RequestID  string `json:"requestId,omitempty"`
	OccurredAt string `json:"occurredAt"`
	Version    int    `json:"version"`
}

// EventVersion is bumped when the payload shape changes.
const EventVersion = 1

// Publisher delivers processing events to a message backend.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// EncodeEvent returns the JSON representation of an event.
func EncodeEvent(event Event) ([]byte, error) {
	return json.Marshal(event)
}

// DecodeEvent parses a JSON payload into an Event.
func DecodeEvent(payload []byte) (Event, error) {
	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return Event{}, err
	}
	return event, nil
}
