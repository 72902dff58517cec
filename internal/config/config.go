package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dshills/formulary/internal/formula/element"
	"github.com/dshills/formulary/internal/formula/validator"
	"github.com/dshills/formulary/internal/logging"
)

// Config is the complete formulary configuration.
type Config struct {
	Logging    LoggingConfig    `toml:"logging" yaml:"logging"`
	Parser     ParserConfig     `toml:"parser" yaml:"parser"`
	Validation ValidationConfig `toml:"validation" yaml:"validation"`
	Symbols    SymbolsConfig    `toml:"symbols" yaml:"symbols"`

	// Path is the file the configuration was read from, if any.
	Path string `toml:"-" yaml:"-"`
	// Dir resolves relative script_file paths. It is the directory of Path.
	Dir string `toml:"-" yaml:"-"`
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	Level string `toml:"level" yaml:"level"`
}

// ParserConfig configures the recognized function names.
type ParserConfig struct {
	// Functions replaces the default function names when non-empty.
	Functions []string `toml:"functions" yaml:"functions"`
	// ExtraFunctions are added to the function names.
	ExtraFunctions []string `toml:"extra_functions" yaml:"extra_functions"`
}

// ValidationConfig configures validation rules.
type ValidationConfig struct {
	AutoValidate bool         `toml:"auto_validate" yaml:"auto_validate"`
	Rules        []RuleConfig `toml:"rules" yaml:"rules"`
}

// RuleConfig is one entry of validation.rules.
type RuleConfig struct {
	Type       string `toml:"type" yaml:"type"`
	Message    string `toml:"message" yaml:"message"`
	Script     string `toml:"script" yaml:"script"`
	ScriptFile string `toml:"script_file" yaml:"script_file"`
}

// SymbolsConfig adds symbol groups to the built-in catalog.
type SymbolsConfig struct {
	Groups []GroupConfig `toml:"groups" yaml:"groups"`
}

// GroupConfig is one entry of symbols.groups.
type GroupConfig struct {
	Name        string         `toml:"name" yaml:"name"`
	DisplayName string         `toml:"display_name" yaml:"display_name"`
	Symbols     []SymbolConfig `toml:"symbols" yaml:"symbols"`
}

// SymbolConfig is one symbol of a group.
type SymbolConfig struct {
	Value       string `toml:"value" yaml:"value"`
	Insert      string `toml:"insert" yaml:"insert"`
	Kind        string `toml:"kind" yaml:"kind"`
	Description string `toml:"description" yaml:"description"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "info"},
	}
}

// Format is a configuration file format.
type Format int

const (
	FormatTOML Format = iota
	FormatYAML
	FormatJSON
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	case FormatJSON:
		return "json"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Loader reads configuration files and applies environment overrides.
type Loader struct {
	fs        FileSystem
	lookupEnv func(string) (string, bool)
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithFileSystem sets the file system used to read config files.
func WithFileSystem(fsys FileSystem) LoaderOption {
	return func(l *Loader) {
		if fsys != nil {
			l.fs = fsys
		}
	}
}

// WithLookupEnv sets the environment lookup. Pass a function that always
// reports false to ignore the environment.
func WithLookupEnv(lookup func(string) (string, bool)) LoaderOption {
	return func(l *Loader) {
		if lookup != nil {
			l.lookupEnv = lookup
		}
	}
}

// NewLoader creates a loader reading from the OS.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		fs:        OSFS{},
		lookupEnv: os.LookupEnv,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads the file at path (if it exists), applies environment
// overrides and validates the result. An empty path loads defaults.
func (l *Loader) Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := l.fs.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// Missing file, keep defaults
		case err != nil:
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		default:
			format, err := FormatFromPath(path)
			if err != nil {
				return nil, err
			}
			if err := decode(format, path, data, cfg); err != nil {
				return nil, err
			}
			cfg.Path = path
		}
		cfg.Dir = filepath.Dir(path)
	}

	if err := applyEnv(cfg, l.lookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads configuration with the default loader.
func Load(path string) (*Config, error) {
	return NewLoader().Load(path)
}

// Parse decodes data in the given format on top of the defaults.
// Environment overrides are not applied.
func Parse(format Format, data []byte) (*Config, error) {
	cfg := Default()
	if err := decode(format, "<input>", data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(format Format, source string, data []byte, cfg *Config) error {
	switch format {
	case FormatTOML:
		return decodeTOML(source, data, cfg)
	case FormatYAML:
		return decodeYAML(source, data, cfg)
	case FormatJSON:
		return decodeJSON(source, data, cfg)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// Validate checks values that decoding cannot: the log level, rule tags,
// custom rule sources and symbol kinds.
func (c *Config) Validate() error {
	if _, ok := logging.ParseLevel(c.Logging.Level); !ok {
		return fmt.Errorf("logging.level %q: %w", c.Logging.Level, ErrInvalidValue)
	}

	for i, rc := range c.Validation.Rules {
		t, err := validator.ParseRuleType(rc.Type)
		if err != nil {
			return &RuleError{Index: i, Type: rc.Type, Err: err}
		}
		if t == validator.Custom && rc.Script == "" && rc.ScriptFile == "" {
			return &RuleError{Index: i, Type: rc.Type, Err: ErrMissingScript}
		}
	}

	for gi, g := range c.Symbols.Groups {
		if strings.TrimSpace(g.Name) == "" {
			return fmt.Errorf("symbols.groups[%d].name: %w", gi, ErrInvalidValue)
		}
		for si, s := range g.Symbols {
			if s.Value == "" {
				return fmt.Errorf("symbols.groups[%d].symbols[%d].value: %w", gi, si, ErrInvalidValue)
			}
			if s.Kind == "" {
				continue
			}
			if _, err := element.ParseKind(s.Kind); err != nil {
				return fmt.Errorf("symbols.groups[%d].symbols[%d].kind: %w", gi, si, err)
			}
		}
	}
	return nil
}

// LogLevel returns the configured logging level.
func (c *Config) LogLevel() logging.Level {
	level, _ := logging.ParseLevel(c.Logging.Level)
	return level
}
