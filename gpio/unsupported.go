//go:build !linux

package gpio

import "fmt"

func openRPIO(number int) (Pin, error) {
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, DriverRPIO)
}

func openCdev(chip string, number int) (Pin, error) {
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, DriverCdev)
}
