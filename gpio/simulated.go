package gpio

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Simulated is a pin that only logs what it would have driven.
type Simulated struct {
	direction
	number int

	mu     sync.RWMutex
	level  Level
	writes int
}

func NewSimulated(number int) *Simulated {
	log.Debug().Str("component", "gpio").Int("pin", number).Msg("GPIO will be simulated")
	return &Simulated{number: number}
}

func (s *Simulated) Output(initial Level) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.configure(); err != nil {
		return err
	}
	s.set(initial)
	return nil
}

func (s *Simulated) Out(level Level) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.check(); err != nil {
		return err
	}
	s.set(level)
	return nil
}

func (s *Simulated) set(level Level) {
	s.level = level
	s.writes++
	log.Debug().
		Str("component", "gpio").
		Int("pin", s.number).
		Stringer("level", level).
		Msg("GPIO")
}

// Level returns the last driven level.
func (s *Simulated) Level() Level {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.level
}

// Writes returns how many times the pin has been driven.
func (s *Simulated) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}

func (s *Simulated) Number() int {
	return s.number
}

func (s *Simulated) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		log.Debug().Str("component", "gpio").Msg("Simulated GPIO closing")
	}
	s.closed = true
	return nil
}
