// ABOUTME: Entry point for the Resonate tone player
// ABOUTME: Parses CLI flags, loads config and plays a tone, a beep or the TUI
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"syscall"

	"github.com/Resonate-Protocol/resonate-tone/internal/app"
	"github.com/Resonate-Protocol/resonate-tone/internal/config"
	"github.com/Resonate-Protocol/resonate-tone/internal/logging"
	"github.com/Resonate-Protocol/resonate-tone/internal/version"
	"github.com/Resonate-Protocol/resonate-tone/pkg/audio/output"
)

var (
	configFile  = flag.String("config", "", "Config file path (YAML)")
	driverName  = flag.String("driver", "", "Audio driver (default from config: oto)")
	frequency   = flag.Float64("freq", 0, "Tone frequency in Hz (100-10000)")
	amplitude   = flag.Float64("amp", 0, "Tone amplitude (0.0-1.0)")
	durationMs  = flag.Uint("duration", 0, "Tone duration in milliseconds (max 30000)")
	beep        = flag.Bool("beep", false, "Use the system beep instead of the audio device")
	useTUI      = flag.Bool("tui", false, "Run the interactive tone panel")
	logFile     = flag.String("log-file", "", "Log file path (JSON); empty logs text to stderr")
	logLevel    = flag.String("log-level", "", "Log level: none, error, warn, info, debug")
	listDrivers = flag.Bool("list-drivers", false, "List audio drivers and exit")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}
	if *listDrivers {
		for _, name := range output.Names() {
			fmt.Println(name)
		}
		return
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}
	applyFlags(cfg)

	// TUI mode: keep logs off the terminal unless a file was given
	level := cfg.LogLevel
	if *useTUI && cfg.LogFile == "" {
		level = "none"
	}
	f, err := logging.Configure(level, cfg.LogFile, !*useTUI)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		os.Exit(2)
	}
	if f != nil {
		defer func() { _ = f.Close() }()
	}

	mode := app.ModeTone
	switch {
	case *beep:
		mode = app.ModeBeep
	case *useTUI:
		mode = app.ModeTUI
	}

	player, err := app.New(app.Config{
		Driver:       cfg.Driver,
		SampleRate:   cfg.SampleRate,
		PollInterval: cfg.PollInterval,
		Frequency:    cfg.Frequency,
		Amplitude:    cfg.Amplitude,
		Duration:     cfg.Duration,
		Mode:         mode,
	})
	if err != nil {
		slog.Error("failed to create player", "err", err)
		os.Exit(1)
	}

	// Handle shutdown. A tone that is already submitted plays out before
	// Start returns; Stop then releases the device.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan error, 1)
	go func() { done <- player.Start() }()

	select {
	case err = <-done:
	case <-sigChan:
		slog.Info("shutdown signal received")
		player.Stop()
		err = <-done
	}
	player.Stop()

	if err != nil {
		slog.Error("playback failed", "err", err)
		os.Exit(1)
	}
}

// applyFlags overrides config values with flags given on the command line
func applyFlags(cfg *config.Config) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "driver":
			cfg.Driver = *driverName
		case "freq":
			cfg.Frequency = *frequency
		case "amp":
			cfg.Amplitude = *amplitude
		case "duration":
			cfg.Duration = uint32(min(*durationMs, math.MaxUint32))
		case "log-file":
			cfg.LogFile = *logFile
		case "log-level":
			cfg.LogLevel = *logLevel
		}
	})
}
