package gpio

import (
	"errors"
	"fmt"
	"strings"
)

// Level is the logical level driven onto a pin.
type Level bool

const (
	Low  Level = false
	High Level = true
)

func (l Level) String() string {
	if l {
		return "HIGH"
	}
	return "LOW"
}

func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *Level) UnmarshalText(text []byte) error {
	switch strings.ToUpper(string(text)) {
	case "HIGH", "1":
		*l = High
	case "LOW", "0":
		*l = Low
	default:
		return fmt.Errorf("invalid level %q", text)
	}
	return nil
}

var (
	ErrNotOutput     = errors.New("pin is not configured as an output")
	ErrAlreadyOutput = errors.New("pin direction already configured")
	ErrUnknownDriver = errors.New("unknown gpio driver")
	ErrUnsupported   = errors.New("gpio driver not supported on this platform")
	ErrClosed        = errors.New("pin is closed")
)

// Pin is a single digital line used as an output.
//
// Output must be called exactly once, before any call to Out.
type Pin interface {
	// Output switches the pin to output mode and drives initial.
	Output(initial Level) error
	Out(level Level) error
	Number() int
	Close() error
}

const (
	DriverRPIO      = "rpio"
	DriverCdev      = "gpiocdev"
	DriverPeriph    = "periph"
	DriverSimulated = "simulated"
)

// Drivers lists every driver name accepted by Open.
var Drivers = []string{DriverRPIO, DriverCdev, DriverPeriph, DriverSimulated}

type Options struct {
	Driver string
	// Chip is the character device used by the gpiocdev driver.
	Chip   string
	Number int
}

const DefaultChip = "gpiochip0"

// Open returns the pin described by opts. The pin is not yet an output.
func Open(opts Options) (Pin, error) {
	if opts.Number < 0 {
		return nil, fmt.Errorf("invalid pin number %d", opts.Number)
	}

	switch opts.Driver {
	case DriverRPIO:
		return openRPIO(opts.Number)
	case DriverCdev:
		chip := opts.Chip
		if chip == "" {
			chip = DefaultChip
		}
		return openCdev(chip, opts.Number)
	case DriverPeriph:
		return openPeriph(opts.Number)
	case DriverSimulated:
		return NewSimulated(opts.Number), nil
	default:
		return nil, fmt.Errorf("%w: %q (expected one of %s)", ErrUnknownDriver, opts.Driver, strings.Join(Drivers, ", "))
	}
}

// ValidDriver reports whether name is accepted by Open.
func ValidDriver(name string) bool {
	for _, d := range Drivers {
		if d == name {
			return true
		}
	}
	return false
}

// direction tracks the one-time output configuration shared by all drivers.
type direction struct {
	output bool
	closed bool
}

func (d *direction) configure() error {
	if d.closed {
		return ErrClosed
	}
	if d.output {
		return ErrAlreadyOutput
	}
	d.output = true
	return nil
}

func (d *direction) check() error {
	if d.closed {
		return ErrClosed
	}
	if !d.output {
		return ErrNotOutput
	}
	return nil
}
