package main

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gregoryjjb/valve/gpio"
)

func newTestConfig(t *testing.T, flags Flags, env map[string]string, toml string) (*Config, error) {
	t.Helper()
	fs := NewValveMemFS()

	if toml != "" {
		require.NoError(t, afero.WriteFile(fs, ConfigFileName, []byte(toml), 0644))
	}

	return NewConfig(fs, flags, func(s string) string { return env[s] })
}

func TestNewConfig_Defaults(t *testing.T) {
	c, err := newTestConfig(t, Flags{}, nil, "")
	require.NoError(t, err)

	assert.Equal(t, "", c.Path())
	assert.Equal(t, zerolog.InfoLevel, c.LogLevel())
	assert.Equal(t, gpio.DriverRPIO, c.Driver())
	assert.Equal(t, gpio.DefaultChip, c.Chip())
	assert.False(t, c.StatusEnabled())
	assert.Equal(t, "127.0.0.1:8030", c.Address())
	assert.Equal(t, 64, c.HistorySize())
}

func TestNewConfig_File(t *testing.T) {
	c, err := newTestConfig(t, Flags{}, nil, `
log_level = "warn"

[gpio]
driver = "gpiocdev"
chip = "gpiochip4"

[status]
enabled = true
host = "0.0.0.0"
port = "9000"
history = 10
`)
	require.NoError(t, err)

	assert.Equal(t, ConfigFileName, c.Path())
	assert.Equal(t, zerolog.WarnLevel, c.LogLevel())
	assert.Equal(t, gpio.DriverCdev, c.Driver())
	assert.Equal(t, "gpiochip4", c.Chip())
	assert.True(t, c.StatusEnabled())
	assert.Equal(t, "0.0.0.0:9000", c.Address())
	assert.Equal(t, 10, c.HistorySize())
}

func TestNewConfig_Precedence(t *testing.T) {
	toml := `
log_level = "warn"
[gpio]
driver = "gpiocdev"
[status]
port = "9000"
`
	env := map[string]string{
		"HOST":              "10.0.0.2",
		"PORT":              "9100",
		"VALVE_GPIO_DRIVER": "periph",
		"VALVE_LOG_LEVEL":   "error",
		"VALVE_STATUS":      "true",
	}

	t.Run("EnvOverridesFile", func(t *testing.T) {
		c, err := newTestConfig(t, Flags{}, env, toml)
		require.NoError(t, err)
		assert.Equal(t, gpio.DriverPeriph, c.Driver())
		assert.Equal(t, zerolog.ErrorLevel, c.LogLevel())
		assert.Equal(t, "10.0.0.2:9100", c.Address())
		assert.True(t, c.StatusEnabled())
	})

	t.Run("FlagsOverrideEnv", func(t *testing.T) {
		c, err := newTestConfig(t, Flags{Driver: gpio.DriverSimulated, Debug: true}, env, toml)
		require.NoError(t, err)
		assert.Equal(t, gpio.DriverSimulated, c.Driver())
		assert.Equal(t, zerolog.DebugLevel, c.LogLevel())
	})
}

func TestNewConfig_Errors(t *testing.T) {
	tests := []struct {
		name       string
		flags      Flags
		env        map[string]string
		toml       string
		validation bool
	}{
		{name: "missing explicit file", flags: Flags{ConfigPath: "/nope.toml"}},
		{name: "unknown key", toml: `pin = 4`},
		{name: "malformed toml", toml: `log_level = `},
		{name: "bad driver", toml: "[gpio]\ndriver = \"arduino\"", validation: true},
		{name: "bad level", env: map[string]string{"VALVE_LOG_LEVEL": "loud"}, validation: true},
		{name: "bad port", env: map[string]string{"PORT": "http"}, validation: true},
		{name: "bad status toggle", env: map[string]string{"VALVE_STATUS": "maybe"}, validation: true},
		{name: "zero history", toml: "[status]\nhistory = 0", validation: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestConfig(t, tt.flags, tt.env, tt.toml)
			require.Error(t, err)
			if tt.validation {
				assert.ErrorIs(t, err, ErrValidation)
			}
		})
	}
}

func TestNewConfig_SearchPath(t *testing.T) {
	fs := NewValveMemFS()
	require.NoError(t, fs.MkdirAll("/.config/valve", 0755))
	require.NoError(t, afero.WriteFile(fs, "/.config/valve/valve.toml", []byte(`log_level = "debug"`), 0644))
	require.NoError(t, fs.MkdirAll("/etc/valve", 0755))
	require.NoError(t, afero.WriteFile(fs, "/etc/valve/valve.toml", []byte(`log_level = "error"`), 0644))

	c, err := NewConfig(fs, Flags{}, func(string) string { return "" })
	require.NoError(t, err)
	assert.Equal(t, "/.config/valve/valve.toml", c.Path())
	assert.Equal(t, zerolog.DebugLevel, c.LogLevel())

	assert.Equal(t, []string{
		"valve.toml",
		"/.config/valve/valve.toml",
		"/etc/valve/valve.toml",
	}, configCandidates(fs))
}

func TestNewConfig_ExplicitPath(t *testing.T) {
	fs := NewValveMemFS()
	require.NoError(t, afero.WriteFile(fs, "/srv/valve.toml", []byte("[gpio]\ndriver = \"simulated\""), 0644))

	c, err := NewConfig(fs, Flags{ConfigPath: "/srv/valve.toml"}, func(string) string { return "" })
	require.NoError(t, err)
	assert.Equal(t, "/srv/valve.toml", c.Path())
	assert.Equal(t, gpio.DriverSimulated, c.Driver())
}
