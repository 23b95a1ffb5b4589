package main

import (
	"bytes"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"gregoryjjb/valve/gpio"
)

const ConfigFileName = "valve.toml"

var ErrValidation = errors.New("validation error")

// Flags are the command line options that override the config file.
type Flags struct {
	ConfigPath string
	Driver     string
	Debug      bool
}

type tomlConfig struct {
	LogLevel string     `toml:"log_level"`
	GPIO     tomlGPIO   `toml:"gpio"`
	Status   tomlStatus `toml:"status"`
}

type tomlGPIO struct {
	Driver string `toml:"driver"`
	Chip   string `toml:"chip"`
}

type tomlStatus struct {
	Enabled bool   `toml:"enabled"`
	Host    string `toml:"host"`
	Port    string `toml:"port"`
	History int    `toml:"history"`
}

func defaultTOMLConfig() tomlConfig {
	return tomlConfig{
		LogLevel: "info",
		GPIO: tomlGPIO{
			Driver: gpio.DriverRPIO,
			Chip:   gpio.DefaultChip,
		},
		Status: tomlStatus{
			Enabled: false,
			Host:    "127.0.0.1",
			Port:    "8030",
			History: 64,
		},
	}
}

// Config holds the process settings. Relay pin and timings are fixed at
// build time and are not part of it.
type Config struct {
	toml     tomlConfig
	path     string
	logLevel zerolog.Level
}

// NewConfig layers defaults, the TOML file, the environment and flags, in
// that order.
func NewConfig(fs ValveFS, flags Flags, getenv func(string) string) (*Config, error) {
	c := &Config{
		toml: defaultTOMLConfig(),
	}

	path, err := findConfigFile(fs, flags.ConfigPath)
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := c.load(fs, path); err != nil {
			return nil, err
		}
		c.path = path
	}

	if err := c.applyEnv(getenv); err != nil {
		return nil, err
	}

	if flags.Driver != "" {
		c.toml.GPIO.Driver = flags.Driver
	}
	if flags.Debug {
		c.toml.LogLevel = zerolog.LevelDebugValue
	}

	if err := c.validate(); err != nil {
		return nil, err
	}

	return c, nil
}

func findConfigFile(fs ValveFS, explicit string) (string, error) {
	if explicit != "" {
		path, err := fs.Abs(explicit)
		if err != nil {
			return "", err
		}
		exists, err := afero.Exists(fs, path)
		if err != nil {
			return "", err
		}
		if !exists {
			return "", fmt.Errorf("config file %q does not exist", path)
		}
		return path, nil
	}

	for _, candidate := range configCandidates(fs) {
		exists, err := afero.Exists(fs, candidate)
		if err != nil {
			return "", err
		}
		if exists {
			return candidate, nil
		}
	}

	return "", nil
}

func (c *Config) load(fs ValveFS, path string) error {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&c.toml); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv("HOST"); v != "" {
		c.toml.Status.Host = v
	}
	if v := getenv("PORT"); v != "" {
		c.toml.Status.Port = v
	}
	if v := getenv("VALVE_LOG_LEVEL"); v != "" {
		c.toml.LogLevel = v
	}
	if v := getenv("VALVE_GPIO_DRIVER"); v != "" {
		c.toml.GPIO.Driver = v
	}
	if v := getenv("VALVE_GPIO_CHIP"); v != "" {
		c.toml.GPIO.Chip = v
	}
	if v := getenv("VALVE_STATUS"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: VALVE_STATUS=%q is not a boolean", ErrValidation, v)
		}
		c.toml.Status.Enabled = enabled
	}
	return nil
}

func (c *Config) validate() error {
	level, err := zerolog.ParseLevel(strings.ToLower(c.toml.LogLevel))
	if err != nil {
		return fmt.Errorf("%w: log_level: %s", ErrValidation, err)
	}
	c.logLevel = level

	if !gpio.ValidDriver(c.toml.GPIO.Driver) {
		return fmt.Errorf("%w: gpio driver %q is not one of %s", ErrValidation, c.toml.GPIO.Driver, strings.Join(gpio.Drivers, ", "))
	}

	port, err := strconv.Atoi(c.toml.Status.Port)
	if err != nil || port < 0 || port > 65535 {
		return fmt.Errorf("%w: status port %q", ErrValidation, c.toml.Status.Port)
	}

	if c.toml.Status.History < 1 {
		return fmt.Errorf("%w: status history must be at least 1", ErrValidation)
	}

	return nil
}

// Path is the config file that was loaded, or "" when running on defaults.
func (c *Config) Path() string {
	return c.path
}

func (c *Config) LogLevel() zerolog.Level {
	return c.logLevel
}

func (c *Config) Driver() string {
	return c.toml.GPIO.Driver
}

func (c *Config) Chip() string {
	return c.toml.GPIO.Chip
}

func (c *Config) StatusEnabled() bool {
	return c.toml.Status.Enabled
}

func (c *Config) Address() string {
	return net.JoinHostPort(c.toml.Status.Host, c.toml.Status.Port)
}

func (c *Config) HistorySize() int {
	return c.toml.Status.History
}
