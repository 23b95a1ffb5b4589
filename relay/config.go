package relay

import (
	"errors"
	"fmt"
	"time"

	"gregoryjjb/valve/gpio"
)

// The relay board is wired to BCM 3 and energizes on LOW.
const (
	DefaultPin         = 3
	DefaultOnDuration  = 5000 * time.Millisecond
	DefaultOffDuration = 5000 * time.Millisecond
	DefaultActiveLevel = gpio.Low
)

var ErrInvalidConfig = errors.New("invalid relay config")

type Config struct {
	Pin         int
	OnDuration  time.Duration
	OffDuration time.Duration
	// ActiveLevel is the level that energizes the relay.
	ActiveLevel gpio.Level
}

func DefaultConfig() Config {
	return Config{
		Pin:         DefaultPin,
		OnDuration:  DefaultOnDuration,
		OffDuration: DefaultOffDuration,
		ActiveLevel: DefaultActiveLevel,
	}
}

func (c Config) InactiveLevel() gpio.Level {
	return !c.ActiveLevel
}

// Level returns the pin level that puts the relay in phase p.
func (c Config) Level(p Phase) gpio.Level {
	if p == PhaseOn {
		return c.ActiveLevel
	}
	return c.InactiveLevel()
}

// Hold returns how long phase p is held before the next transition.
func (c Config) Hold(p Phase) time.Duration {
	switch p {
	case PhaseOn:
		return c.OnDuration
	case PhaseOff:
		return c.OffDuration
	default:
		return 0
	}
}

// Period is one full ON plus OFF cycle.
func (c Config) Period() time.Duration {
	return c.OnDuration + c.OffDuration
}

func (c Config) Validate() error {
	if c.Pin < 0 {
		return fmt.Errorf("%w: pin %d", ErrInvalidConfig, c.Pin)
	}
	if c.OnDuration <= 0 {
		return fmt.Errorf("%w: on duration %s must be positive", ErrInvalidConfig, c.OnDuration)
	}
	if c.OffDuration <= 0 {
		return fmt.Errorf("%w: off duration %s must be positive", ErrInvalidConfig, c.OffDuration)
	}
	return nil
}
