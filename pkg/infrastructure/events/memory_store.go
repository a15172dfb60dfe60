package events

import (
	"log/slog"
	"slices"
	"sync"
	"time"
)

// InMemoryEventStore keeps every event of a process run in one ordered log.
// Handlers run asynchronously; their errors are logged, never returned.
// Reads return copies, so callers may keep or modify them freely.
type InMemoryEventStore struct {
	mu      sync.RWMutex
	log     []Envelope
	streams map[string][]int
	subs    map[string][]EventHandler

	logger   *slog.Logger
	now      func() time.Time
	inflight sync.WaitGroup
}

var _ EventStore = (*InMemoryEventStore)(nil)

func NewInMemoryEventStore(logger *slog.Logger) *InMemoryEventStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &InMemoryEventStore{
		streams: make(map[string][]int),
		subs:    make(map[string][]EventHandler),
		logger:  logger.With("component", "events"),
		now:     time.Now,
	}
}

// AppendEvent stores the event at the end of its stream. Events without a
// timestamp are stamped with the store clock.
func (s *InMemoryEventStore) AppendEvent(streamID string, event Event) error {
	at := event.Timestamp()
	if at.IsZero() {
		at = s.now()
	}

	s.mu.Lock()
	stored := Envelope{
		Kind:     event.Type(),
		Stream:   streamID,
		Payload:  event.Data(),
		At:       at,
		Seq:      len(s.streams[streamID]) + 1,
		Position: len(s.log),
	}
	s.log = append(s.log, stored)
	s.streams[streamID] = append(s.streams[streamID], stored.Position)
	handlers := slices.Clone(s.subs[stored.Kind])
	s.mu.Unlock()

	s.dispatch(stored, handlers)
	return nil
}

// ReadEvents returns a stream's events starting at fromVersion (1-based)
func (s *InMemoryEventStore) ReadEvents(streamID string, fromVersion int) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	positions := s.streams[streamID]
	start := max(fromVersion, 1) - 1
	if start >= len(positions) {
		return []Event{}, nil
	}
	out := make([]Event, 0, len(positions)-start)
	for _, pos := range positions[start:] {
		out = append(out, s.log[pos])
	}
	return out, nil
}

// ReadAllEvents returns the global log starting at fromPosition (0-based)
func (s *InMemoryEventStore) ReadAllEvents(fromPosition int) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start := max(fromPosition, 0)
	if start >= len(s.log) {
		return []Event{}, nil
	}
	out := make([]Event, 0, len(s.log)-start)
	for _, e := range s.log[start:] {
		out = append(out, e)
	}
	return out, nil
}

func (s *InMemoryEventStore) Subscribe(eventTypes []string, handler EventHandler) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range eventTypes {
		s.subs[t] = append(s.subs[t], handler)
	}
	return nil
}

func (s *InMemoryEventStore) Unsubscribe(handler EventHandler) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for t, handlers := range s.subs {
		s.subs[t] = slices.DeleteFunc(slices.Clone(handlers), func(h EventHandler) bool { return h == handler })
	}
	return nil
}

// Flush blocks until every handler started so far has returned
func (s *InMemoryEventStore) Flush() {
	s.inflight.Wait()
}

func (s *InMemoryEventStore) dispatch(e Envelope, handlers []EventHandler) {
	for _, h := range handlers {
		if !h.CanHandle(e.Kind) {
			continue
		}
		s.inflight.Add(1)
		go func() {
			defer s.inflight.Done()
			if err := h.Handle(e); err != nil {
				s.logger.Error("event handler failed", "type", e.Kind, "stream", e.Stream, "version", e.Seq, "error", err)
			}
		}()
	}
}
