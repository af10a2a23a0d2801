// Package config loads screensaver settings from a TOML file, an optional .env file
// and SAVER_* environment variables, in that order of increasing precedence
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/lixenwraith/saver/audio"
	"github.com/lixenwraith/saver/gallery"
	"github.com/lixenwraith/saver/physics"
)

// ErrInvalid wraps every validation failure
var ErrInvalid = errors.New("invalid config")

// DefaultEnvFile is read when no env file is named; a missing default is not an error
const DefaultEnvFile = ".env"

// Duration decodes from strings such as "45s" or "2m"
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// StreamConfig controls the websocket frame feed
type StreamConfig struct {
	Addr  string `toml:"addr"`  // empty disables the feed
	Every int    `toml:"every"` // broadcast every Nth frame
}

// Config is the full screensaver configuration
type Config struct {
	FPS         int      `toml:"fps"`
	AutoChange  Duration `toml:"auto_change"` // 0 disables automatic switching
	History     int      `toml:"history"`
	RerollEvery int      `toml:"reroll_every"`
	Algorithms  []string `toml:"algorithms"` // empty means the whole catalog
	HUDHold     Duration `toml:"hud_hold"`
	Debug       bool     `toml:"debug"`

	Physics physics.Config `toml:"physics"`
	Audio   audio.Config   `toml:"audio"`
	Stream  StreamConfig   `toml:"stream"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		FPS:         30,
		AutoChange:  Duration{45 * time.Second},
		History:     2,
		RerollEvery: gallery.DefaultOptions().RerollEvery,
		HUDHold:     Duration{3 * time.Second},
		Physics:     physics.DefaultConfig(),
		Audio:       audio.DefaultConfig(),
		Stream:      StreamConfig{Every: 1},
	}
}

// Load builds a config from defaults, the TOML file at path (skipped when empty),
// the env file and the process environment, then validates it
func Load(path, envFile string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, fmt.Errorf("%w: unknown keys in %s: %s", ErrInvalid, path, strings.Join(keys, ", "))
		}
	}

	if err := loadEnvFile(envFile); err != nil {
		return nil, err
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadEnvFile exports variables from the env file without overriding the environment
func loadEnvFile(envFile string) error {
	if envFile == "" {
		err := godotenv.Load(DefaultEnvFile)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", DefaultEnvFile, err)
		}
		return nil
	}
	if err := godotenv.Load(envFile); err != nil {
		return fmt.Errorf("load %s: %w", envFile, err)
	}
	return nil
}

// applyEnv overrides fields from SAVER_* variables; malformed values are ignored
func (c *Config) applyEnv() {
	envInt("SAVER_FPS", &c.FPS)
	envInt("SAVER_HISTORY", &c.History)
	envInt("SAVER_REROLL_EVERY", &c.RerollEvery)
	envDuration("SAVER_AUTO_CHANGE", &c.AutoChange)
	envDuration("SAVER_HUD_HOLD", &c.HUDHold)
	envBool("SAVER_DEBUG", &c.Debug)

	if algos := os.Getenv("SAVER_ALGORITHMS"); algos != "" {
		c.Algorithms = SplitList(algos)
	}

	envFloat("SAVER_GRAVITY", &c.Physics.GravitationalConstant)
	envFloat("SAVER_TIME_STEP", &c.Physics.TimeStep)
	envFloat("SAVER_MIN_DISTANCE", &c.Physics.MinDistance)
	if policy := os.Getenv("SAVER_DEGENERATE"); policy != "" {
		if p, err := physics.ParseDegeneratePolicy(policy); err == nil {
			c.Physics.OnDegenerate = p
		}
	}

	c.Audio = audio.LoadConfigFromEnv(c.Audio)

	if addr, ok := os.LookupEnv("SAVER_STREAM_ADDR"); ok {
		c.Stream.Addr = addr
	}
	envInt("SAVER_STREAM_EVERY", &c.Stream.Every)
}

// SplitList splits a comma-separated list, trimming blanks and dropping empty entries
func SplitList(s string) []string {
	var out []string
	for _, n := range strings.Split(s, ",") {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func envInt(key string, dst *int) {
	if s := os.Getenv(key); s != "" {
		if v, err := strconv.Atoi(s); err == nil {
			*dst = v
		}
	}
}

func envFloat(key string, dst *float64) {
	if s := os.Getenv(key); s != "" {
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			*dst = v
		}
	}
}

func envBool(key string, dst *bool) {
	if s := os.Getenv(key); s != "" {
		if v, err := strconv.ParseBool(s); err == nil {
			*dst = v
		}
	}
}

func envDuration(key string, dst *Duration) {
	if s := os.Getenv(key); s != "" {
		if v, err := time.ParseDuration(s); err == nil {
			dst.Duration = v
		}
	}
}

// Validate checks ranges and that every named algorithm exists
func (c *Config) Validate() error {
	if c.FPS < 1 || c.FPS > 240 {
		return fmt.Errorf("%w: fps must be in [1, 240], got %d", ErrInvalid, c.FPS)
	}
	if c.AutoChange.Duration < 0 {
		return fmt.Errorf("%w: auto_change must not be negative, got %v", ErrInvalid, c.AutoChange)
	}
	if c.HUDHold.Duration < 0 {
		return fmt.Errorf("%w: hud_hold must not be negative, got %v", ErrInvalid, c.HUDHold)
	}
	if c.History < 0 {
		return fmt.Errorf("%w: history must not be negative, got %d", ErrInvalid, c.History)
	}
	if c.RerollEvery < 0 {
		return fmt.Errorf("%w: reroll_every must not be negative, got %d", ErrInvalid, c.RerollEvery)
	}
	if _, err := gallery.Filter(c.Algorithms); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if err := c.Physics.Validate(); err != nil {
		return fmt.Errorf("%w: physics: %w", ErrInvalid, err)
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		return fmt.Errorf("%w: audio volume must be in [0, 1], got %v", ErrInvalid, c.Audio.Volume)
	}
	if c.Audio.SampleRate <= 0 {
		return fmt.Errorf("%w: audio sample_rate must be positive, got %d", ErrInvalid, c.Audio.SampleRate)
	}
	if c.Audio.Enabled && c.Audio.Dir == "" {
		return fmt.Errorf("%w: audio enabled without a dir", ErrInvalid)
	}
	if c.Stream.Every < 1 {
		return fmt.Errorf("%w: stream every must be at least 1, got %d", ErrInvalid, c.Stream.Every)
	}
	return nil
}

// Options derives the shared algorithm options
func (c *Config) Options() gallery.Options {
	return gallery.Options{
		Physics:     c.Physics,
		RerollEvery: c.RerollEvery,
	}
}

// Write encodes the config as TOML
func (c *Config) Write(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
