package events

import (
	"slices"
	"time"
)

// Event is one fact recorded against a company stream
type Event interface {
	Type() string
	StreamID() string
	Data() any
	Timestamp() time.Time
	Version() int
}

// EventHandler reacts to published events
type EventHandler interface {
	Handle(event Event) error
	CanHandle(eventType string) bool
}

// EventStore appends events to per-company streams and fans them out to subscribers
type EventStore interface {
	AppendEvent(streamID string, event Event) error
	ReadEvents(streamID string, fromVersion int) ([]Event, error)
	ReadAllEvents(fromPosition int) ([]Event, error)
	Subscribe(eventTypes []string, handler EventHandler) error
	Unsubscribe(handler EventHandler) error
}

// Envelope is the stored form of an event. Seq is the version within its
// stream and Position the offset in the global log; both are assigned on append.
type Envelope struct {
	Kind     string    `json:"type"`
	Stream   string    `json:"stream"`
	Payload  any       `json:"data"`
	At       time.Time `json:"time"`
	Seq      int       `json:"version"`
	Position int       `json:"position"`
}

var _ Event = Envelope{}

func (e Envelope) Type() string         { return e.Kind }
func (e Envelope) StreamID() string     { return e.Stream }
func (e Envelope) Data() any            { return e.Payload }
func (e Envelope) Timestamp() time.Time { return e.At }
func (e Envelope) Version() int         { return e.Seq }

// NewEvent wraps a payload for publishing on a stream
func NewEvent(eventType, streamID string, data any) Event {
	return Envelope{Kind: eventType, Stream: streamID, Payload: data, At: time.Now()}
}

// HandlerFunc adapts a function into an EventHandler for the given event types
type HandlerFunc struct {
	Types []string
	Fn    func(Event) error
}

var _ EventHandler = (*HandlerFunc)(nil)

func (h *HandlerFunc) Handle(event Event) error {
	return h.Fn(event)
}

func (h *HandlerFunc) CanHandle(eventType string) bool {
	return slices.Contains(h.Types, eventType)
}
