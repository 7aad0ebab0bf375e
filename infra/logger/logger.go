package logger

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	corelogger "github.com/kilianp07/powerplan/core/logger"
)

// Logger mirrors the core logger interface.
type Logger = corelogger.Logger

// NopLogger implements Logger with no-op methods.
type NopLogger = corelogger.Nop

// Config selects the minimum level and output format.
type Config struct {
	// Level is one of debug, info, warn, error. Defaults to info.
	Level string `json:"level"`
	// Format is "json" or "console". APP_ENV=dev forces console.
	Format string `json:"format"`
	// Backend is "zerolog" or "logrus". Defaults to zerolog.
	Backend string `json:"backend"`
}

var useLogrus bool

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = "json"
	}
	if c.Backend == "" {
		c.Backend = "zerolog"
	}
}

// Apply sets the process wide level and output format.
func (c Config) Apply() error {
	lvl, err := zerolog.ParseLevel(strings.ToLower(c.Level))
	if err != nil {
		return err
	}
	switch strings.ToLower(c.Backend) {
	case "", "zerolog":
		useLogrus = false
	case "logrus":
		useLogrus = true
	default:
		return fmt.Errorf("unknown log backend %q", c.Backend)
	}
	zerolog.SetGlobalLevel(lvl)
	consoleOutput = strings.EqualFold(c.Format, "console")
	return nil
}

// New returns a Logger for the given component.
func New(component string) Logger {
	if useLogrus {
		return NewLogrusLogger(component)
	}
	return NewZerologLogger(component)
}
