package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/powerplan/core/locale"
	"github.com/kilianp07/powerplan/core/metrics"
	"github.com/kilianp07/powerplan/core/runlog"
	"github.com/kilianp07/powerplan/core/scheduler"
	"github.com/kilianp07/powerplan/infra/dataset"
	"github.com/kilianp07/powerplan/infra/logger"
	"github.com/kilianp07/powerplan/infra/monitoring"
	"github.com/kilianp07/powerplan/infra/mqtt"
)

type Config struct {
	Scheduler scheduler.Config  `json:"scheduler"`
	Dataset   dataset.Config    `json:"dataset"`
	Locale    locale.Config     `json:"locale"`
	Metrics   metrics.Config    `json:"metrics"`
	RunLog    runlog.Config     `json:"runlog"`
	MQTT      mqtt.Config       `json:"mqtt"`
	API       APIConfig         `json:"api"`
	Sentry    monitoring.Config `json:"sentry"`
	Log       logger.Config     `json:"log"`
}

// Load reads the configuration file at path, applies K_ prefixed
// environment overrides (K_SCHEDULER__RATE_PER_KWH sets
// scheduler.rate_per_kwh) and fills defaults. An empty path loads
// environment and defaults only.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		ext := strings.ToLower(filepath.Ext(path))
		var parser koanf.Parser
		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, err
		}
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("K_", ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "k_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults fills every section.
func (c *Config) SetDefaults() {
	c.Scheduler.SetDefaults()
	c.Dataset.SetDefaults()
	c.Metrics.SetDefaults()
	c.RunLog.SetDefaults()
	c.API.SetDefaults()
	c.Log.SetDefaults()
	if c.MQTT.Enabled() {
		c.MQTT.SetDefaults()
	}
}

// Validate checks the sections that can be wrong independently of the
// command being run. The dataset path is checked by commands that need it.
func (c *Config) Validate() error {
	if err := c.Scheduler.Validate(); err != nil {
		return fmt.Errorf("scheduler: %w", err)
	}
	if err := c.RunLog.Validate(); err != nil {
		return fmt.Errorf("runlog: %w", err)
	}
	if err := c.MQTT.Validate(); err != nil {
		return fmt.Errorf("mqtt: %w", err)
	}
	if err := c.API.Validate(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	return nil
}
