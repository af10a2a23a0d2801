package audio

import (
	"os"
	"strconv"
)

// Config controls the playlist player
type Config struct {
	Enabled    bool    `toml:"enabled"`
	Dir        string  `toml:"dir"`
	Volume     float64 `toml:"volume"` // 0.0-1.0
	Shuffle    bool    `toml:"shuffle"`
	SampleRate int     `toml:"sample_rate"`
}

// DefaultConfig returns a disabled player at 80% volume, 44.1kHz
func DefaultConfig() Config {
	return Config{
		Enabled:    false,
		Volume:     0.8,
		SampleRate: 44100,
	}
}

// LoadConfigFromEnv applies SAVER_* environment overrides on top of cfg
// Malformed values are ignored
func LoadConfigFromEnv(cfg Config) Config {
	if enabled := os.Getenv("SAVER_AUDIO_ENABLED"); enabled != "" {
		if val, err := strconv.ParseBool(enabled); err == nil {
			cfg.Enabled = val
		}
	}

	if dir := os.Getenv("SAVER_AUDIO_DIR"); dir != "" {
		cfg.Dir = dir
	}

	// Master volume (0-100 converted to 0.0-1.0)
	if volume := os.Getenv("SAVER_MASTER_VOLUME"); volume != "" {
		if val, err := strconv.Atoi(volume); err == nil {
			cfg.Volume = clampVolume(float64(val) / 100.0)
		}
	}

	if shuffle := os.Getenv("SAVER_AUDIO_SHUFFLE"); shuffle != "" {
		if val, err := strconv.ParseBool(shuffle); err == nil {
			cfg.Shuffle = val
		}
	}

	if sampleRate := os.Getenv("SAVER_SAMPLE_RATE"); sampleRate != "" {
		if val, err := strconv.Atoi(sampleRate); err == nil && val > 0 {
			cfg.SampleRate = val
		}
	}

	return cfg
}

func clampVolume(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
