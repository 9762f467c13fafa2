package config

import (
	"fmt"
	"sort"

	"github.com/pelletier/go-toml/v2"
)

// parseTOML overlays a TOML document onto a copy of base:
//
//	include = ["*.go"]
//
//	[search]
//	ignore_case = true
func parseTOML(content []byte, base *Config) (*Config, error) {
	cfg := base.clone()

	var raw map[string]interface{}
	if err := toml.Unmarshal(content, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse TOML config: %w", err)
	}

	// Sorted so errors and unknown keys are reported deterministically
	for _, name := range sortedKeys(raw) {
		value := raw[name]

		if listKeys[name] {
			list, err := stringList(value)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			if err := cfg.set(name, list); err != nil {
				return nil, err
			}
			continue
		}

		table, ok := value.(map[string]interface{})
		if !ok {
			cfg.unknown = append(cfg.unknown, name)
			continue
		}
		for _, key := range sortedKeys(table) {
			if err := cfg.set(name+"."+key, table[key]); err != nil {
				return nil, err
			}
		}
	}

	return cfg, nil
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// stringList converts a decoded TOML array (or single string) to []string
func stringList(v interface{}) ([]string, error) {
	switch l := v.(type) {
	case string:
		return []string{l}, nil
	case []interface{}:
		out := make([]string, 0, len(l))
		for _, item := range l {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected string, got %T", item)
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, fmt.Errorf("expected list of strings, got %T", v)
}
