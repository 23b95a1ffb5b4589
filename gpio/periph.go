package gpio

import (
	"fmt"

	pgpio "periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

type periphPin struct {
	direction
	number int
	pin    pgpio.PinIO
}

func openPeriph(number int) (Pin, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}

	name := fmt.Sprintf("GPIO%d", number)
	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, fmt.Errorf("periph: no pin named %s", name)
	}

	return &periphPin{number: number, pin: pin}, nil
}

func periphLevel(level Level) pgpio.Level {
	if level {
		return pgpio.High
	}
	return pgpio.Low
}

func (p *periphPin) Output(initial Level) error {
	if err := p.configure(); err != nil {
		return err
	}
	// Out switches the pin to output as a side effect.
	if err := p.pin.Out(periphLevel(initial)); err != nil {
		p.output = false
		return err
	}
	return nil
}

func (p *periphPin) Out(level Level) error {
	if err := p.check(); err != nil {
		return err
	}
	return p.pin.Out(periphLevel(level))
}

func (p *periphPin) Number() int {
	return p.number
}

func (p *periphPin) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	return p.pin.Halt()
}
