package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Bundle is the JSON envelope shells use to export configurations.
type Bundle struct {
	Version     string         `json:"version"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	ExportedAt  string         `json:"exportedAt"`
	Config      map[string]any `json:"config"`
}

// ImportJSON parses a shell-exported bundle: missing keys are filled from
// defaults, unknown keys are ignored with a warning, every value is
// clamped and cross-field rules applied. Only malformed JSON is an error.
func ImportJSON(data []byte) (*Config, []string, error) {
	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, nil, fmt.Errorf("parsing config bundle: %w", err)
	}

	var warnings []string
	if b.Version != "" && b.Version != "1.0" {
		warnings = append(warnings, fmt.Sprintf("bundle version %q, expected 1.0", b.Version))
	}
	warnings = append(warnings, unknownKeys(reflect.TypeOf(Config{}), b.Config, "config")...)

	cfg := Default()
	if b.Config != nil {
		// Re-encode the partial map and decode over the defaults, so
		// only the keys present in the bundle are overwritten.
		partial, err := json.Marshal(b.Config)
		if err != nil {
			return nil, nil, fmt.Errorf("re-encoding config bundle: %w", err)
		}
		if err := json.Unmarshal(partial, cfg); err != nil {
			return nil, nil, fmt.Errorf("applying config bundle: %w", err)
		}
	}

	warnings = append(warnings, cfg.Validate()...)
	return cfg, warnings, nil
}

// unknownKeys walks a decoded JSON object against the struct's json tags
// and reports every key the schema does not declare.
func unknownKeys(t reflect.Type, obj map[string]any, path string) []string {
	known := make(map[string]reflect.Type, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := strings.Split(f.Tag.Get("json"), ",")[0]
		if tag == "" || tag == "-" {
			continue
		}
		known[tag] = f.Type
	}

	keys := make([]string, 0, len(obj))
	for key := range obj {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var warnings []string
	for _, key := range keys {
		val := obj[key]
		ft, ok := known[key]
		if !ok {
			warnings = append(warnings, fmt.Sprintf("%s.%s: unknown key ignored", path, key))
			continue
		}
		if sub, ok := val.(map[string]any); ok && ft.Kind() == reflect.Struct {
			warnings = append(warnings, unknownKeys(ft, sub, path+"."+key)...)
		}
	}
	return warnings
}
