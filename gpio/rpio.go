//go:build linux

package gpio

import (
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/stianeikeland/go-rpio/v4"
)

// rpio maps one region of /dev/gpiomem per process, shared by every pin.
var (
	rpioMu    sync.Mutex
	rpioUsers int
)

type rpioPin struct {
	direction
	pin rpio.Pin
}

func openRPIO(number int) (Pin, error) {
	rpioMu.Lock()
	defer rpioMu.Unlock()

	if rpioUsers == 0 {
		if err := rpio.Open(); err != nil {
			return nil, err
		}
		log.Debug().Str("component", "gpio").Msg("Mapped GPIO memory")
	}
	rpioUsers++

	return &rpioPin{pin: rpio.Pin(number)}, nil
}

func rpioState(level Level) rpio.State {
	if level {
		return rpio.High
	}
	return rpio.Low
}

func (p *rpioPin) Output(initial Level) error {
	if err := p.configure(); err != nil {
		return err
	}
	p.pin.Output()
	p.pin.Write(rpioState(initial))
	return nil
}

func (p *rpioPin) Out(level Level) error {
	if err := p.check(); err != nil {
		return err
	}
	p.pin.Write(rpioState(level))
	return nil
}

func (p *rpioPin) Number() int {
	return int(p.pin)
}

func (p *rpioPin) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true

	rpioMu.Lock()
	defer rpioMu.Unlock()

	rpioUsers--
	if rpioUsers > 0 {
		return nil
	}
	return rpio.Close()
}
