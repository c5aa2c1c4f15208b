package config

import (
	"time"

	"github.com/eungjin-cigro/cursorflow-sub004/internal/models"
)

// Settings holds tunable engine parameters for one run. All fields are
// optional in settings.yaml; zero values fall back to defaults.
type Settings struct {
	PollIntervalMs   int `yaml:"poll_interval_ms"`
	BufferCapacity   int `yaml:"buffer_capacity"`
	MaxMessageLength int `yaml:"max_message_length"`
}

// Default engine settings.
const (
	DefaultPollIntervalMs = 250
	DefaultBufferCapacity = 2000
)

// DefaultSettings returns the default engine settings.
func DefaultSettings() *Settings {
	return &Settings{
		PollIntervalMs:   DefaultPollIntervalMs,
		BufferCapacity:   DefaultBufferCapacity,
		MaxMessageLength: models.DefaultMaxMessageLength,
	}
}

// LoadSettings loads a run's settings.yaml, falling back to defaults for
// a missing file or unset fields.
func LoadSettings(runDir string) (*Settings, error) {
	s, err := LoadYAMLOrDefault(SettingsFile(runDir), DefaultSettings)
	if err != nil {
		return nil, err
	}
	s.applyDefaults()
	return s, nil
}

func (s *Settings) applyDefaults() {
	if s.PollIntervalMs <= 0 {
		s.PollIntervalMs = DefaultPollIntervalMs
	}
	if s.BufferCapacity <= 0 {
		s.BufferCapacity = DefaultBufferCapacity
	}
	if s.MaxMessageLength <= 0 {
		s.MaxMessageLength = models.DefaultMaxMessageLength
	}
}

// PollInterval returns the poll interval as a duration.
func (s *Settings) PollInterval() time.Duration {
	return time.Duration(s.PollIntervalMs) * time.Millisecond
}
