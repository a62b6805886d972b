package raffle

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

type EventType string

const (
	EventEntryAccepted EventType = "EntryAccepted"
	EventDrawStarted   EventType = "DrawStarted"
	EventWinnerPicked  EventType = "WinnerPicked"
)

// Event is one record of the raffle's append-only observable log.
type Event struct {
	Type      EventType      `json:"type"`
	Player    common.Address `json:"player,omitempty"`
	Winner    common.Address `json:"winner,omitempty"`
	RequestID uint64         `json:"requestId,omitempty"`
	At        time.Time      `json:"at"`
}

// Subscription is a live feed of events. Slow subscribers drop events rather
// than block the engine.
type Subscription struct {
	ch chan Event
}

func (s *Subscription) Chan() <-chan Event {
	return s.ch
}

// Subscribe registers a live event feed.
func (e *Engine) Subscribe() *Subscription {
	e.mu.Lock()
	defer e.mu.Unlock()

	sub := &Subscription{ch: make(chan Event, 16)}
	e.subscribers[sub] = struct{}{}
	return sub
}

// Unsubscribe removes the feed and closes its channel.
func (e *Engine) Unsubscribe(sub *Subscription) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.subscribers[sub]; ok {
		delete(e.subscribers, sub)
		close(sub.ch)
	}
}

// Events returns a copy of the append-only event log.
func (e *Engine) Events() []Event {
	e.mu.Lock()
	defer e.mu.Unlock()

	events := make([]Event, len(e.events))
	copy(events, e.events)
	return events
}

// appendEvent records and broadcasts. Callers hold e.mu.
func (e *Engine) appendEvent(event Event) {
	e.events = append(e.events, event)
	for sub := range e.subscribers {
		select {
		case sub.ch <- event:
		default:
		}
	}
}
