package internal

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// EventType names the kind of change carried by a stream event
type EventType string

const (
	EventTurn     EventType = "turn"
	EventChunk    EventType = "chunk"
	EventComplete EventType = "complete"
)

// ErrUnknownEvent is returned for an event line with an unrecognised type
var ErrUnknownEvent = errors.New("unknown event type")

// Event is one line of a live transcript stream:
//
//	{"event":"turn", ...record}
//	{"event":"chunk","id":"t1","text":"more "}
//	{"event":"complete","id":"t1"}
//
// A line without an "event" field is a stored record and is treated as a
// turn event that is complete unless it says otherwise.
type Event struct {
	Type EventType
	ID   string
	Text string
	Turn Turn
}

var streamNormalizer = &Normalizer{DefaultComplete: false}

// ParseEvent decodes one event line
func ParseEvent(line []byte) (Event, error) {
	if !gjson.ValidBytes(line) {
		return Event{}, ErrInvalidRecord
	}
	rec := gjson.ParseBytes(line)
	if !rec.IsObject() {
		return Event{}, ErrInvalidRecord
	}

	eventType := rec.Get("event")
	if !eventType.Exists() {
		turn, err := NewNormalizer().NormalizeRecord(line)
		if err != nil {
			return Event{}, err
		}
		return Event{Type: EventTurn, ID: turn.ID, Turn: turn}, nil
	}

	switch EventType(eventType.String()) {
	case EventTurn:
		turn, err := streamNormalizer.NormalizeRecord(line)
		if err != nil {
			return Event{}, err
		}
		return Event{Type: EventTurn, ID: turn.ID, Turn: turn}, nil
	case EventChunk:
		id := stringField(rec, "id")
		if id == "" {
			return Event{}, fmt.Errorf("chunk event without id")
		}
		return Event{Type: EventChunk, ID: id, Text: stringField(rec, "text")}, nil
	case EventComplete:
		id := stringField(rec, "id")
		if id == "" {
			return Event{}, fmt.Errorf("complete event without id")
		}
		return Event{Type: EventComplete, ID: id}, nil
	default:
		return Event{}, fmt.Errorf("%w: %q", ErrUnknownEvent, eventType.String())
	}
}

// ApplyEvent feeds one event into the store
func ApplyEvent(store *TurnStore, ev Event) error {
	switch ev.Type {
	case EventTurn:
		store.Upsert(ev.Turn)
		return nil
	case EventChunk:
		return store.Append(ev.ID, ev.Text)
	case EventComplete:
		return store.Complete(ev.ID)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Type)
	}
}
