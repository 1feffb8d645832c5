package app

import (
	"sync"
	"sync/atomic"

	"github.com/0xmoleclub/gSwap/business/amm/domain"
)

const defaultStreamDepth = 256

// EventStream fans settlement-change events out to subscribers and
// keeps a bounded tail of recent events. It assigns the monotonic
// sequence marker that orders events across pools.
type EventStream struct {
	sequence atomic.Uint64

	mu     sync.RWMutex
	recent []domain.Event
	depth  int
	subs   []chan domain.Event
}

// NewEventStream creates a stream retaining up to depth recent events.
func NewEventStream(depth int) *EventStream {
	if depth <= 0 {
		depth = defaultStreamDepth
	}
	return &EventStream{depth: depth}
}

// Publish stamps the event with the next sequence number and delivers
// it to all subscribers. Slow subscribers drop events rather than
// blocking pool operations.
func (s *EventStream) Publish(ev domain.Event) {
	ev.Sequence = s.sequence.Add(1)

	s.mu.Lock()
	s.recent = append(s.recent, ev)
	if len(s.recent) > s.depth {
		s.recent = s.recent[len(s.recent)-s.depth:]
	}
	subs := make([]chan domain.Event, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Subscribe returns a buffered channel receiving future events.
func (s *EventStream) Subscribe() <-chan domain.Event {
	ch := make(chan domain.Event, s.depth)
	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()
	return ch
}

// Recent returns a copy of the retained event tail, oldest first.
func (s *EventStream) Recent() []domain.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Event, len(s.recent))
	copy(out, s.recent)
	return out
}

// Sequence returns the last assigned sequence number.
func (s *EventStream) Sequence() uint64 {
	return s.sequence.Load()
}
