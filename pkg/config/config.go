// Package config loads overui settings from YAML files and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config is the complete runtime configuration.
type Config struct {
	Logging   LoggingConfig   `yaml:"logging"`
	FocusTrap FocusTrapConfig `yaml:"focus_trap"`
	Dismiss   DismissConfig   `yaml:"dismiss"`
	Roving    RovingConfig    `yaml:"roving"`
	Select    SelectConfig    `yaml:"select"`
	UI        UIConfig        `yaml:"ui"`
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console or json
	// File enables a rotating JSON log file in addition to the console core.
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// FocusTrapConfig holds defaults for focus trap layers.
type FocusTrapConfig struct {
	Loop    bool `yaml:"loop"`
	Trapped bool `yaml:"trapped"`
}

// DismissConfig holds defaults for dismissable layers.
type DismissConfig struct {
	DisableOutsidePointerEvents bool `yaml:"disable_outside_pointer_events"`
}

// RovingConfig holds defaults for roving focus groups.
type RovingConfig struct {
	Loop        bool   `yaml:"loop"`
	Orientation string `yaml:"orientation"`
}

// SelectConfig holds defaults for Select widgets.
type SelectConfig struct {
	Orientation string `yaml:"orientation"`
	Multiple    bool   `yaml:"multiple"`
}

// UIConfig controls the terminal front-end.
type UIConfig struct {
	Mouse bool `yaml:"mouse"`
	// Inspector mirrors engine events onto the status row.
	Inspector bool `yaml:"inspector"`
}

// Orientations accepted by roving groups and selects.
const (
	OrientationHorizontal = "horizontal"
	OrientationVertical   = "vertical"
	OrientationBoth       = "both"
)

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 7,
		},
		FocusTrap: FocusTrapConfig{
			Loop:    true,
			Trapped: true,
		},
		Dismiss: DismissConfig{
			DisableOutsidePointerEvents: true,
		},
		Roving: RovingConfig{
			Loop:        true,
			Orientation: OrientationBoth,
		},
		Select: SelectConfig{
			Orientation: OrientationVertical,
		},
		UI: UIConfig{
			Mouse:     true,
			Inspector: true,
		},
	}
}

// Load loads configuration from default locations with proper precedence:
// defaults, then ~/.overui/config.yaml, then ./.overui/config.yaml, then
// environment overrides.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	home, err := os.UserHomeDir()
	if err != nil {
		home = os.Getenv("HOME")
	}
	if home != "" {
		userConfigPath := filepath.Join(home, ".overui", "config.yaml")
		if err := loadAndMerge(cfg, userConfigPath); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("loading user config: %w", err)
		}
	}

	projectConfigPath := filepath.Join(".", ".overui", "config.yaml")
	if err := loadAndMerge(cfg, projectConfigPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// LoadFromPath loads configuration from a specific file path.
func LoadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()

	if err := loadAndMerge(cfg, path); err != nil {
		return nil, fmt.Errorf("loading config from %s: %w", path, err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("OVERUI_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("OVERUI_LOG_FILE"); v != "" {
		cfg.Logging.File = v
	}
	if val, ok := envBool("OVERUI_TRAP_LOOP"); ok {
		cfg.FocusTrap.Loop = val
	}
	cfg.Logging.File = expandHomeDir(cfg.Logging.File)
}

func envBool(key string) (bool, bool) {
	val := os.Getenv(key)
	if val == "" {
		return false, false
	}
	switch strings.ToLower(val) {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off":
		return false, true
	default:
		return false, false
	}
}

func expandHomeDir(path string) string {
	path = strings.TrimSpace(path)
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil && strings.TrimSpace(home) != "" {
			return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
		}
	}
	return path
}

// Validate checks configuration validity.
func (c *Config) Validate() error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logging.Level)
	}

	switch strings.ToLower(c.Logging.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("invalid log format: %s (valid: console, json)", c.Logging.Format)
	}

	if c.Logging.MaxSizeMB < 0 || c.Logging.MaxBackups < 0 || c.Logging.MaxAgeDays < 0 {
		return fmt.Errorf("log rotation limits must not be negative")
	}

	if !validOrientation(c.Roving.Orientation) {
		return fmt.Errorf("invalid roving orientation: %s (valid: horizontal, vertical, both)", c.Roving.Orientation)
	}
	if !validOrientation(c.Select.Orientation) {
		return fmt.Errorf("invalid select orientation: %s (valid: horizontal, vertical, both)", c.Select.Orientation)
	}
	return nil
}

func validOrientation(o string) bool {
	switch o {
	case OrientationHorizontal, OrientationVertical, OrientationBoth:
		return true
	}
	return false
}
