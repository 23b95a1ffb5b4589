package gpio_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gregoryjjb/valve/gpio"
)

func TestSimulated(t *testing.T) {
	t.Run("OutBeforeOutputFails", func(t *testing.T) {
		pin := gpio.NewSimulated(3)
		assert.ErrorIs(t, pin.Out(gpio.Low), gpio.ErrNotOutput)
		assert.Equal(t, 0, pin.Writes())
	})

	t.Run("OutputOnlyOnce", func(t *testing.T) {
		pin := gpio.NewSimulated(3)
		require.NoError(t, pin.Output(gpio.High))
		assert.Equal(t, gpio.High, pin.Level())
		assert.ErrorIs(t, pin.Output(gpio.Low), gpio.ErrAlreadyOutput)
		assert.Equal(t, gpio.High, pin.Level())
	})

	t.Run("DrivesLevels", func(t *testing.T) {
		pin := gpio.NewSimulated(3)
		require.NoError(t, pin.Output(gpio.High))
		require.NoError(t, pin.Out(gpio.Low))
		assert.Equal(t, gpio.Low, pin.Level())
		require.NoError(t, pin.Out(gpio.High))
		assert.Equal(t, gpio.High, pin.Level())
		assert.Equal(t, 3, pin.Writes())
	})

	t.Run("ClosedPinRejectsWrites", func(t *testing.T) {
		pin := gpio.NewSimulated(3)
		require.NoError(t, pin.Output(gpio.High))
		require.NoError(t, pin.Close())
		require.NoError(t, pin.Close())
		assert.ErrorIs(t, pin.Out(gpio.Low), gpio.ErrClosed)
	})
}

func TestOpen(t *testing.T) {
	t.Run("Simulated", func(t *testing.T) {
		pin, err := gpio.Open(gpio.Options{Driver: gpio.DriverSimulated, Number: 3})
		require.NoError(t, err)
		assert.Equal(t, 3, pin.Number())
		assert.IsType(t, &gpio.Simulated{}, pin)
	})

	t.Run("UnknownDriver", func(t *testing.T) {
		_, err := gpio.Open(gpio.Options{Driver: "arduino", Number: 3})
		assert.ErrorIs(t, err, gpio.ErrUnknownDriver)
	})

	t.Run("NegativePin", func(t *testing.T) {
		_, err := gpio.Open(gpio.Options{Driver: gpio.DriverSimulated, Number: -1})
		assert.Error(t, err)
	})
}

func TestValidDriver(t *testing.T) {
	for _, d := range gpio.Drivers {
		assert.True(t, gpio.ValidDriver(d), d)
	}
	assert.False(t, gpio.ValidDriver(""))
	assert.False(t, gpio.ValidDriver("RPIO"))
}

func TestLevel(t *testing.T) {
	assert.Equal(t, "HIGH", gpio.High.String())
	assert.Equal(t, "LOW", gpio.Low.String())

	var l gpio.Level
	require.NoError(t, l.UnmarshalText([]byte("high")))
	assert.Equal(t, gpio.High, l)
	require.NoError(t, l.UnmarshalText([]byte("0")))
	assert.Equal(t, gpio.Low, l)
	assert.Error(t, l.UnmarshalText([]byte("floating")))
}
