package config

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed presets/*.yaml
var presetFS embed.FS

// Preset returns the named preset: a sparse override merged onto the
// embedded defaults and validated. Warnings from validation are returned
// alongside.
func Preset(name string) (*Config, []string, error) {
	data, err := presetFS.ReadFile("presets/" + name + ".yaml")
	if err != nil {
		return nil, nil, fmt.Errorf("unknown preset %q", name)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, nil, fmt.Errorf("parsing preset %q: %w", name, err)
	}
	warnings := cfg.Validate()
	return cfg, warnings, nil
}

// PresetNames lists the available presets in sorted order.
func PresetNames() []string {
	entries, err := presetFS.ReadDir("presets")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}
