package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Top-level YAML config key names used for shallow merge.
const (
	keyAPI     = "api"
	keyCache   = "cache"
	keyLogging = "logging"
	keyTree    = "tree"
	keyOutput  = "output"
)

// knownTopLevelKeys lists the YAML keys that correspond to exported Config fields.
// Keys not in this list are silently ignored during merge.
//
//nolint:gochecknoglobals // Compile-time constant lookup table.
var knownTopLevelKeys = map[string]bool{
	keyAPI:     true,
	keyCache:   true,
	keyLogging: true,
	keyTree:    true,
	keyOutput:  true,
}

// ShallowMergeYAML loads a YAML file and merges its top-level keys onto
// the target Config. Keys present in the overlay replace entire sections
// in the target. Keys absent in the overlay are left unchanged.
func ShallowMergeYAML(target *Config, overlayPath string) error {
	if target == nil {
		return errors.New("nil target *Config in ShallowMergeYAML")
	}

	data, err := os.ReadFile(overlayPath)
	if err != nil {
		return fmt.Errorf("reading overlay file %s: %w", overlayPath, err)
	}

	var overlay map[string]interface{}
	if err = yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parsing overlay YAML from %s: %w", overlayPath, err)
	}

	// Empty or comment-only file: nothing to merge.
	if len(overlay) == 0 {
		return nil
	}

	for key, value := range overlay {
		if !knownTopLevelKeys[key] {
			continue
		}

		// Re-marshal the single section so it can be decoded onto the typed field.
		sectionBytes, marshalErr := yaml.Marshal(value)
		if marshalErr != nil {
			return fmt.Errorf("re-marshalling overlay section %q: %w", key, marshalErr)
		}

		if err = unmarshalSection(target, key, sectionBytes); err != nil {
			return fmt.Errorf("applying overlay section %q: %w", key, err)
		}
	}

	return nil
}

// unmarshalSection decodes data into a fresh zero value and replaces the
// matching section of target, so absent fields in the overlay become zero.
func unmarshalSection(target *Config, key string, data []byte) error {
	switch key {
	case keyAPI:
		var v APIConfig
		if err := yaml.Unmarshal(data, &v); err != nil {
			return err
		}
		target.API = v
	case keyCache:
		var v CacheConfig
		if err := yaml.Unmarshal(data, &v); err != nil {
			return err
		}
		target.Cache = v
	case keyLogging:
		var v LoggingConfig
		if err := yaml.Unmarshal(data, &v); err != nil {
			return err
		}
		target.Logging = v
	case keyTree:
		var v TreeConfig
		if err := yaml.Unmarshal(data, &v); err != nil {
			return err
		}
		target.Tree = v
	case keyOutput:
		var v OutputConfig
		if err := yaml.Unmarshal(data, &v); err != nil {
			return err
		}
		target.Output = v
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}
