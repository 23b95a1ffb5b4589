package main

import (
	"sync"
	"time"

	"gregoryjjb/valve/circularbuffer"
	"gregoryjjb/valve/gpio"
	"gregoryjjb/valve/pubsub"
	"gregoryjjb/valve/relay"
)

const eventBuffer = 16

// Status is a point-in-time view of the relay for the status API.
type Status struct {
	Phase       relay.Phase `json:"phase"`
	Level       gpio.Level  `json:"level"`
	Cycle       uint64      `json:"cycle"`
	Since       time.Time   `json:"since"`
	Pin         int         `json:"pin"`
	ActiveLevel gpio.Level  `json:"active_level"`
	OnMillis    int64       `json:"on_ms"`
	OffMillis   int64       `json:"off_ms"`
	Initialized bool        `json:"initialized"`
}

// Monitor observes relay transitions for the status server. Record is
// called from the relay loop; everything else may be called concurrently.
type Monitor struct {
	config relay.Config

	mu      sync.RWMutex
	current relay.Transition
	seen    bool

	history *circularbuffer.CircularBuffer[relay.Transition]
	events  *pubsub.Pubsub[relay.Transition]
}

func NewMonitor(config relay.Config, historySize int) *Monitor {
	return &Monitor{
		config:  config,
		history: circularbuffer.New[relay.Transition](historySize),
		events:  pubsub.New[relay.Transition](eventBuffer),
	}
}

func (m *Monitor) Record(tr relay.Transition) {
	m.mu.Lock()
	m.current = tr
	m.seen = true
	m.mu.Unlock()

	m.history.Push(tr)
	m.events.Publish(tr)
}

// Current returns the latest transition, if any has been recorded.
func (m *Monitor) Current() (relay.Transition, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current, m.seen
}

func (m *Monitor) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return Status{
		Phase:       m.current.Phase,
		Level:       m.current.Level,
		Cycle:       m.current.Cycle,
		Since:       m.current.At,
		Pin:         m.config.Pin,
		ActiveLevel: m.config.ActiveLevel,
		OnMillis:    m.config.OnDuration.Milliseconds(),
		OffMillis:   m.config.OffDuration.Milliseconds(),
		Initialized: m.seen,
	}
}

// History returns the retained transitions, oldest first.
func (m *Monitor) History() []relay.Transition {
	return m.history.Slice()
}

func (m *Monitor) Subscribe() (func(), <-chan relay.Transition) {
	handle, ch := m.events.Subscribe()
	return func() {
		m.events.Unsubscribe(handle)
	}, ch
}
