package casesync

import (
	"encoding/json"
	"strings"
)

type EventType string

const (
	EventCreate EventType = "CREATE"
	EventUpdate EventType = "UPDATE"
	EventDelete EventType = "DELETE"
)

// ParseEventType normalizes a transport tag. Unknown or empty tags map to UPDATE,
// since every non-delete message is applied as an upsert.
func ParseEventType(s string) EventType {
	switch EventType(strings.ToUpper(strings.TrimSpace(s))) {
	case EventCreate:
		return EventCreate
	case EventDelete:
		return EventDelete
	default:
		return EventUpdate
	}
}

func (t EventType) IsDelete() bool { return t == EventDelete }

type Metadata struct {
	EventType EventType `json:"eventType"`
}

// Envelope is one inbound message: a raw payload plus its event-type tag.
type Envelope struct {
	Payload  json.RawMessage `json:"payload"`
	Metadata Metadata        `json:"metadata"`
}

func NewEnvelope(eventType string, payload []byte) Envelope {
	return Envelope{
		Payload:  json.RawMessage(payload),
		Metadata: Metadata{EventType: ParseEventType(eventType)},
	}
}
