package ws

import (
	"encoding/json"
	"sync/atomic"
	"time"
)

// EventTypeEntryCreated is emitted once per successful ledger append.
const EventTypeEntryCreated = "entry.created"

// Event is the structured message sent to WebSocket subscribers.
// IDs are monotonic within a process lifetime; a gap tells a subscriber
// it missed events and should re-query the API rather than trust the
// stream as complete.
type Event struct {
	Type string          `json:"type"`
	ID   uint64          `json:"id"`
	Data json.RawMessage `json:"data"`
	Time time.Time       `json:"time"`
}

// EventSequence issues monotonic event IDs.
type EventSequence struct {
	counter atomic.Uint64
}

// Next returns the next sequence number.
func (es *EventSequence) Next() uint64 {
	return es.counter.Add(1)
}
