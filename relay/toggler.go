package relay

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"gregoryjjb/valve/gpio"
)

var (
	ErrInitialized    = errors.New("relay already initialized")
	ErrNotInitialized = errors.New("relay not initialized")
)

// Sleeper blocks for a duration. It returns a non-nil error only when ctx
// ends before the duration has elapsed.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

type SleeperFunc func(ctx context.Context, d time.Duration) error

func (f SleeperFunc) Sleep(ctx context.Context, d time.Duration) error {
	return f(ctx, d)
}

type timerSleeper struct{}

func (timerSleeper) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// TimerSleeper sleeps on the wall clock.
var TimerSleeper Sleeper = timerSleeper{}

type Option func(*Toggler)

func WithSleeper(s Sleeper) Option {
	return func(t *Toggler) {
		t.sleeper = s
	}
}

func WithClock(now func() time.Time) Option {
	return func(t *Toggler) {
		t.now = now
	}
}

// WithObserver registers fn to be called, on the loop goroutine, after every
// level change.
func WithObserver(fn func(Transition)) Option {
	return func(t *Toggler) {
		t.observers = append(t.observers, fn)
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(t *Toggler) {
		t.log = logger
	}
}

// Toggler drives a relay pin through alternating ON and OFF phases.
// It is not safe for concurrent use.
type Toggler struct {
	pin       gpio.Pin
	config    Config
	sleeper   Sleeper
	now       func() time.Time
	observers []func(Transition)
	log       zerolog.Logger

	initialized bool
	phase       Phase
	level       gpio.Level
	cycle       uint64
	at          time.Time
}

func New(pin gpio.Pin, config Config, opts ...Option) (*Toggler, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if pin.Number() != config.Pin {
		return nil, fmt.Errorf("%w: pin %d does not match configured pin %d", ErrInvalidConfig, pin.Number(), config.Pin)
	}

	t := &Toggler{
		pin:     pin,
		config:  config,
		sleeper: TimerSleeper,
		now:     time.Now,
		log:     log.With().Str("component", "relay").Logger(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Init makes the pin an output and drives it to the inactive level.
func (t *Toggler) Init() error {
	if t.initialized {
		return ErrInitialized
	}

	level := t.config.InactiveLevel()
	if err := t.pin.Output(level); err != nil {
		return fmt.Errorf("configure pin %d as output: %w", t.config.Pin, err)
	}

	t.initialized = true
	t.phase = PhaseIdle
	t.level = level
	t.at = t.now()

	t.log.Info().
		Int("pin", t.config.Pin).
		Stringer("active_level", t.config.ActiveLevel).
		Stringer("on", t.config.OnDuration).
		Stringer("off", t.config.OffDuration).
		Msg("Relay initialized, valve off")
	t.notify()
	return nil
}

// Step drives the next phase and holds it for the phase duration.
func (t *Toggler) Step(ctx context.Context) error {
	if !t.initialized {
		return ErrNotInitialized
	}

	next := t.phase.Next()
	if err := t.drive(next); err != nil {
		return err
	}
	return t.sleeper.Sleep(ctx, t.config.Hold(next))
}

// Run initializes the relay if needed and cycles it until ctx is cancelled.
// On cancellation the relay is released to the inactive level and Run
// returns nil. Any pin error is returned immediately.
func (t *Toggler) Run(ctx context.Context) error {
	if !t.initialized {
		if err := t.Init(); err != nil {
			return err
		}
	}

	t.log.Info().Stringer("period", t.config.Period()).Msg("Running relay loop")

	for {
		if ctx.Err() != nil {
			return t.release()
		}

		if err := t.Step(ctx); err != nil {
			if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
				return t.release()
			}
			return err
		}
	}
}

func (t *Toggler) drive(phase Phase) error {
	level := t.config.Level(phase)
	if err := t.pin.Out(level); err != nil {
		return fmt.Errorf("drive pin %d %s: %w", t.config.Pin, level, err)
	}

	if phase == PhaseOn {
		t.cycle++
	}
	t.phase = phase
	t.level = level
	t.at = t.now()

	t.log.Debug().
		Str("phase", phase.String()).
		Stringer("level", level).
		Uint64("cycle", t.cycle).
		Msg("Valve " + phase.String())
	t.notify()
	return nil
}

// release de-energizes the relay if it is not already off.
func (t *Toggler) release() error {
	t.log.Info().Msg("Stopping relay loop")
	if t.level == t.config.InactiveLevel() {
		return nil
	}
	return t.drive(PhaseOff)
}

func (t *Toggler) notify() {
	tr := t.Current()
	for _, fn := range t.observers {
		fn(tr)
	}
}

// Current returns the most recent transition.
func (t *Toggler) Current() Transition {
	return Transition{
		Phase: t.phase,
		Level: t.level,
		At:    t.at,
		Cycle: t.cycle,
	}
}

func (t *Toggler) Phase() Phase {
	return t.phase
}

func (t *Toggler) Config() Config {
	return t.config
}
