//go:build linux

package gpio

import (
	"github.com/warthog618/go-gpiocdev"
)

const consumer = "valve"

type cdevPin struct {
	direction
	chip   string
	number int
	line   *gpiocdev.Line
}

func openCdev(chip string, number int) (Pin, error) {
	return &cdevPin{chip: chip, number: number}, nil
}

func cdevValue(level Level) int {
	if level {
		return 1
	}
	return 0
}

// Output requests the line with its initial value in a single ioctl so the
// relay never sees an intermediate level.
func (p *cdevPin) Output(initial Level) error {
	if err := p.configure(); err != nil {
		return err
	}
	line, err := gpiocdev.RequestLine(p.chip, p.number,
		gpiocdev.WithConsumer(consumer),
		gpiocdev.AsOutput(cdevValue(initial)),
	)
	if err != nil {
		p.output = false
		return err
	}
	p.line = line
	return nil
}

func (p *cdevPin) Out(level Level) error {
	if err := p.check(); err != nil {
		return err
	}
	return p.line.SetValue(cdevValue(level))
}

func (p *cdevPin) Number() int {
	return p.number
}

func (p *cdevPin) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	if p.line == nil {
		return nil
	}
	return p.line.Close()
}
