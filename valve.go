package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/mattn/go-colorable"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"gregoryjjb/valve/gpio"
	"gregoryjjb/valve/relay"
)

func init() {
	InitializeLogger(colorable.NewColorable(os.Stdout), os.Getenv("NO_COLOR") != "")
}

// Populated by ldflags
var (
	version            string
	buildUnixTimestamp string
	commitHash         string
)

type BuildInfo struct {
	Version    string    `json:"version"`
	BuildTime  time.Time `json:"build_time"`
	CommitHash string    `json:"commit_hash"`
}

func NewBuildInfo(version, unixTimestamp, commitHash string) BuildInfo {
	ts, _ := strconv.ParseInt(unixTimestamp, 10, 64)
	if version == "" {
		version = "dev"
	}
	return BuildInfo{
		Version:    version,
		BuildTime:  time.Unix(ts, 0).UTC(),
		CommitHash: commitHash,
	}
}

func main() {
	buildInfo := NewBuildInfo(version, buildUnixTimestamp, commitHash)

	var flags Flags
	versionFlag := flag.Bool("version", false, "Print version")
	systemdFlag := flag.Bool("systemd", false, "Print systemd service file")
	flag.StringVar(&flags.ConfigPath, "config", "", "Path to "+ConfigFileName)
	flag.StringVar(&flags.Driver, "driver", "", "GPIO driver: rpio, gpiocdev, periph or simulated")
	flag.BoolVar(&flags.Debug, "debug", false, "Enable debug logging")
	flag.Parse()

	if *versionFlag {
		fmt.Println("Valve version:", buildInfo.Version)
		fmt.Println("Built on:", buildInfo.BuildTime)
		fmt.Println("Commit hash:", buildInfo.CommitHash)
		return
	}

	if *systemdFlag {
		if err := SystemdServiceFile(flags.ConfigPath); err != nil {
			log.Fatal().Err(err).Msg("Could not render systemd service file")
		}
		return
	}

	log.Info().
		Str("version", buildInfo.Version).
		Str("build_timestamp", buildInfo.BuildTime.Format(time.RFC3339)).
		Str("commit_hash", buildInfo.CommitHash).
		Msg("Initializing Valve")

	config, err := NewConfig(newValveOSFS(), flags, os.Getenv)
	if err != nil {
		log.Fatal().Err(err).Msg("Config initialization failed")
	}
	zerolog.SetGlobalLevel(config.LogLevel())
	if config.Path() != "" {
		log.Info().Str("path", config.Path()).Msg("Loaded config")
	}

	relayConfig := relay.DefaultConfig()

	pin, err := gpio.Open(gpio.Options{
		Driver: config.Driver(),
		Chip:   config.Chip(),
		Number: relayConfig.Pin,
	})
	if err != nil {
		log.Fatal().Err(err).Str("driver", config.Driver()).Msg("GPIO initialization failed")
	}

	monitor := NewMonitor(relayConfig, config.HistorySize())

	toggler, err := relay.New(pin, relayConfig, relay.WithObserver(monitor.Record))
	if err != nil {
		log.Fatal().Err(err).Msg("Relay initialization failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if config.StatusEnabled() {
		go func() {
			if err := StartServer(ctx, config, buildInfo, monitor); err != nil {
				log.Err(err).Msg("Status server closed with error")
			}
		}()
	}

	runErr := toggler.Run(ctx)

	if err := pin.Close(); err != nil {
		log.Err(err).Msg("GPIO close failed")
	}
	if runErr != nil {
		log.Fatal().Err(runErr).Msg("Relay loop failed")
	}

	log.Info().Msg("Valve stopped")
}
