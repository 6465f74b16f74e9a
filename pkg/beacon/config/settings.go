package config

import (
	"fmt"
	"maps"
	"time"

	"github.com/randalmurphal/beacon/pkg/beacon/macro"
	"github.com/randalmurphal/beacon/pkg/beacon/sender"
	"github.com/randalmurphal/beacon/pkg/beacon/util"
)

// DefaultMaxInFlight bounds concurrent beacon requests per batch.
const DefaultMaxInFlight = 8

// Settings is the typed configuration of a beacon tracker.
type Settings struct {
	Sender  SenderSettings
	Macros  MacroSettings
	Journal JournalSettings
	Log     LogSettings
}

// SenderSettings configures the HTTP beacon sender.
type SenderSettings struct {
	Timeout     time.Duration
	UserAgent   string
	MaxInFlight int
}

// MacroSettings configures macro resolution.
type MacroSettings struct {
	// CustomErrorCode keeps non three-digit ERRORCODE values.
	CustomErrorCode bool

	// Variables are defaults merged under the per-call variables.
	Variables macro.Variables
}

// JournalSettings configures the beacon journal. An empty Path disables it.
type JournalSettings struct {
	Path string
}

// LogSettings configures the CLI logger.
type LogSettings struct {
	Level  string
	Format string
}

// ValidationError reports an invalid setting.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Default returns the settings used when no file is given.
func Default() Settings {
	return Settings{
		Sender: SenderSettings{
			Timeout:     sender.DefaultTimeout,
			UserAgent:   sender.DefaultUserAgent,
			MaxInFlight: DefaultMaxInFlight,
		},
		Log: LogSettings{
			Level:  "info",
			Format: "text",
		},
	}
}

// FromConfig reads Settings from c, falling back to Default for missing keys.
func FromConfig(c Config) Settings {
	s := Default()

	snd := c.Sub("sender")
	s.Sender.Timeout = snd.Duration("timeout", s.Sender.Timeout)
	s.Sender.UserAgent = snd.String("user_agent", s.Sender.UserAgent)
	s.Sender.MaxInFlight = snd.Int("max_in_flight", s.Sender.MaxInFlight)

	mac := c.Sub("macros")
	s.Macros.CustomErrorCode = mac.Bool("custom_error_code", false)
	if vars := mac.Map("variables"); len(vars) > 0 {
		s.Macros.Variables = make(macro.Variables, len(vars))
		maps.Copy(s.Macros.Variables, vars)
	}

	s.Journal.Path = c.Sub("journal").String("path", "")

	lg := c.Sub("log")
	s.Log.Level = lg.String("level", s.Log.Level)
	s.Log.Format = lg.String("format", s.Log.Format)

	return s
}

// Load reads and validates Settings from path. An empty path returns Default.
func Load(path string) (Settings, error) {
	if path == "" {
		return Default(), nil
	}
	c, err := FromFile(path)
	if err != nil {
		return Settings{}, err
	}
	s := FromConfig(c)
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks value ranges, variable types and enumerations.
func (s Settings) Validate() error {
	if s.Sender.Timeout < 0 {
		return &ValidationError{Field: "sender.timeout", Message: "must not be negative"}
	}
	if s.Sender.MaxInFlight < 0 {
		return &ValidationError{Field: "sender.max_in_flight", Message: "must not be negative"}
	}
	for name, v := range s.Macros.Variables {
		if _, ok := v.(string); !ok && !util.IsNumeric(v) {
			return &ValidationError{Field: "macros.variables." + name, Message: "must be a string or a finite number"}
		}
	}
	switch s.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return &ValidationError{Field: "log.level", Message: fmt.Sprintf("unknown level %q", s.Log.Level)}
	}
	switch s.Log.Format {
	case "text", "json":
	default:
		return &ValidationError{Field: "log.format", Message: fmt.Sprintf("unknown format %q", s.Log.Format)}
	}
	return nil
}
