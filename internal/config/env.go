package config

import (
	"fmt"
	"strings"
)

// Environment variables read by Load.
const (
	EnvLogLevel     = "FORMULARY_LOG_LEVEL"
	EnvAutoValidate = "FORMULARY_AUTO_VALIDATE"
	// EnvFunctions is a comma separated list added to the function names.
	EnvFunctions = "FORMULARY_FUNCTIONS"
)

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		cfg.Logging.Level = v
	}

	if v, ok := lookup(EnvAutoValidate); ok && v != "" {
		b, ok := parseBool(v)
		if !ok {
			return fmt.Errorf("%s=%q: %w", EnvAutoValidate, v, ErrInvalidValue)
		}
		cfg.Validation.AutoValidate = b
	}

	if v, ok := lookup(EnvFunctions); ok {
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				cfg.Parser.ExtraFunctions = append(cfg.Parser.ExtraFunctions, name)
			}
		}
	}
	return nil
}

func parseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "on", "1":
		return true, true
	case "false", "no", "off", "0":
		return false, true
	default:
		return false, false
	}
}
