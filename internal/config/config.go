// ABOUTME: Configuration loading for the tone player
// ABOUTME: Layers defaults, a config file, .env and TONE_ environment variables
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. TONE_DRIVER.
const EnvPrefix = "TONE"

// Config holds resolved settings. CLI flags are applied on top by the caller.
type Config struct {
	Driver       string
	SampleRate   int
	PollInterval time.Duration
	LogLevel     string
	LogFile      string
	Frequency    float64
	Amplitude    float64
	Duration     uint32
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("driver", "oto")
	v.SetDefault("sample_rate", 44100)
	v.SetDefault("poll_interval", 10*time.Millisecond)
	v.SetDefault("loglevel", "info")
	v.SetDefault("logfile", "")
	v.SetDefault("frequency", 440)
	v.SetDefault("amplitude", 0.5)
	v.SetDefault("duration", 1000)
}

// Load resolves configuration. configFilePath may be empty; a path that does
// not exist is logged and ignored. A .env file in the working directory, if
// present, is loaded into the environment first.
func Load(configFilePath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFilePath != "" {
		v.SetConfigFile(configFilePath)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
				slog.Info("no config file found", "configFilePath", configFilePath)
			} else {
				return nil, fmt.Errorf("error during config read: %w", err)
			}
		}
	}

	duration, err := cast.ToUint32E(v.Get("duration"))
	if err != nil {
		return nil, fmt.Errorf("invalid duration %v: %w", v.Get("duration"), err)
	}

	cfg := &Config{
		Driver:       v.GetString("driver"),
		SampleRate:   v.GetInt("sample_rate"),
		PollInterval: v.GetDuration("poll_interval"),
		LogLevel:     v.GetString("loglevel"),
		LogFile:      v.GetString("logfile"),
		Frequency:    v.GetFloat64("frequency"),
		Amplitude:    v.GetFloat64("amplitude"),
		Duration:     duration,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that would otherwise fail late. Tone parameters
// are validated when played, not here.
func (c *Config) Validate() error {
	if c.Driver == "" {
		return errors.New("driver must not be empty")
	}
	if c.SampleRate <= 0 {
		return fmt.Errorf("sample_rate must be positive (current: %d)", c.SampleRate)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be positive (current: %s)", c.PollInterval)
	}
	return nil
}
