package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// loadAndMerge loads a YAML file and merges it into the config.
func loadAndMerge(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var override Config
	if err := yaml.Unmarshal(data, &override); err != nil {
		return fmt.Errorf("parsing YAML: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parsing YAML: %w", err)
	}

	mergeConfigs(cfg, &override, raw)
	return nil
}

// mergeConfigs merges override into base. Strings and numbers override when
// non-zero; booleans only when the key is present in the file.
func mergeConfigs(base, override *Config, raw map[string]any) {
	if override == nil {
		return
	}

	if strings.TrimSpace(override.Logging.Level) != "" {
		base.Logging.Level = strings.TrimSpace(override.Logging.Level)
	}
	if strings.TrimSpace(override.Logging.Format) != "" {
		base.Logging.Format = strings.TrimSpace(override.Logging.Format)
	}
	if override.Logging.File != "" {
		base.Logging.File = override.Logging.File
	}
	if override.Logging.MaxSizeMB != 0 {
		base.Logging.MaxSizeMB = override.Logging.MaxSizeMB
	}
	if override.Logging.MaxBackups != 0 {
		base.Logging.MaxBackups = override.Logging.MaxBackups
	}
	if override.Logging.MaxAgeDays != 0 {
		base.Logging.MaxAgeDays = override.Logging.MaxAgeDays
	}
	if boolFieldSet(raw, "logging", "compress") {
		base.Logging.Compress = override.Logging.Compress
	}

	if boolFieldSet(raw, "focus_trap", "loop") {
		base.FocusTrap.Loop = override.FocusTrap.Loop
	}
	if boolFieldSet(raw, "focus_trap", "trapped") {
		base.FocusTrap.Trapped = override.FocusTrap.Trapped
	}

	if boolFieldSet(raw, "dismiss", "disable_outside_pointer_events") {
		base.Dismiss.DisableOutsidePointerEvents = override.Dismiss.DisableOutsidePointerEvents
	}

	if boolFieldSet(raw, "roving", "loop") {
		base.Roving.Loop = override.Roving.Loop
	}
	if override.Roving.Orientation != "" {
		base.Roving.Orientation = strings.ToLower(override.Roving.Orientation)
	}

	if override.Select.Orientation != "" {
		base.Select.Orientation = strings.ToLower(override.Select.Orientation)
	}
	if boolFieldSet(raw, "select", "multiple") {
		base.Select.Multiple = override.Select.Multiple
	}

	if boolFieldSet(raw, "ui", "mouse") {
		base.UI.Mouse = override.UI.Mouse
	}
	if boolFieldSet(raw, "ui", "inspector") {
		base.UI.Inspector = override.UI.Inspector
	}
}

func boolFieldSet(raw map[string]any, path ...string) bool {
	if len(path) == 0 || raw == nil {
		return false
	}
	current := any(raw)
	for _, key := range path {
		m, ok := current.(map[string]any)
		if !ok {
			return false
		}
		val, ok := m[key]
		if !ok {
			return false
		}
		current = val
	}
	return true
}
