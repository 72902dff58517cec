package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dshills/formulary/internal/formula/element"
	"github.com/dshills/formulary/internal/formula/parser"
	"github.com/dshills/formulary/internal/formula/validator"
	"github.com/dshills/formulary/internal/logging"
	"github.com/dshills/formulary/internal/script"
)

func noEnv(string) (string, bool) { return "", false }

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

const tomlConfig = `
[logging]
level = "debug"

[parser]
extra_functions = ["max", "min"]

[validation]
auto_validate = true

[[validation.rules]]
type = "brackets-match"

[[validation.rules]]
type = "hasEquals"
message = "an equation needs ="

[[symbols.groups]]
name = "units"
display_name = "Units"
symbols = [{ value = "°", kind = "symbol", description = "degree" }]
`

const yamlConfig = `
logging:
  level: debug
parser:
  extra_functions: [max, min]
validation:
  auto_validate: true
  rules:
    - type: brackets-match
    - type: hasEquals
      message: an equation needs =
symbols:
  groups:
    - name: units
      display_name: Units
      symbols:
        - value: "°"
          kind: symbol
          description: degree
`

const jsonConfig = `{
  "logging": {"level": "debug"},
  "parser": {"extra_functions": ["max", "min"]},
  "validation": {
    "auto_validate": true,
    "rules": [
      {"type": "brackets-match"},
      {"type": "hasEquals", "message": "an equation needs ="}
    ]
  },
  "symbols": {
    "groups": [
      {"name": "units", "display_name": "Units",
       "symbols": [{"value": "°", "kind": "symbol", "description": "degree"}]}
    ]
  }
}`

func TestLoadFormats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"toml", "formulary.toml", tomlConfig},
		{"yaml", "formulary.yaml", yamlConfig},
		{"yml", "formulary.yml", yamlConfig},
		{"json", "formulary.json", jsonConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := writeFile(t, dir, tt.file, tt.content)

			cfg, err := NewLoader(WithLookupEnv(noEnv)).Load(path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}

			if cfg.Path != path || cfg.Dir != dir {
				t.Errorf("Path/Dir = %q/%q", cfg.Path, cfg.Dir)
			}
			if cfg.LogLevel() != logging.LevelDebug {
				t.Errorf("LogLevel = %v", cfg.LogLevel())
			}
			if !cfg.Validation.AutoValidate {
				t.Error("AutoValidate should be true")
			}
			if len(cfg.Parser.ExtraFunctions) != 2 || cfg.Parser.ExtraFunctions[0] != "max" {
				t.Errorf("ExtraFunctions = %v", cfg.Parser.ExtraFunctions)
			}

			rules, err := cfg.BuildRules(nil)
			if err != nil {
				t.Fatalf("BuildRules: %v", err)
			}
			if len(rules) != 2 || rules[0].Type != validator.BracketsMatch || rules[1].Type != validator.HasEquals {
				t.Fatalf("rules = %+v", rules)
			}
			if rules[1].Message != "an equation needs =" {
				t.Errorf("message = %q", rules[1].Message)
			}

			cat, err := cfg.Catalog()
			if err != nil {
				t.Fatalf("Catalog: %v", err)
			}
			g, ok := cat.Group("units")
			if !ok || g.Title() != "Units" || len(g.Items) != 1 {
				t.Fatalf("units group = %+v, %v", g, ok)
			}
			if g.Items[0].ElementKind() != element.Symbol || g.Items[0].Description != "degree" {
				t.Errorf("item = %+v", g.Items[0])
			}
			if _, ok := cat.Group("greek"); !ok {
				t.Error("built-in groups should be kept")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := NewLoader(WithLookupEnv(noEnv)).Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Path != "" || cfg.Logging.Level != "info" {
		t.Errorf("expected defaults, got %+v", cfg)
	}

	rules, err := cfg.BuildRules(nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(rules) != len(DefaultRules()) {
		t.Errorf("expected default rules, got %d", len(rules))
	}
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := NewLoader(WithLookupEnv(noEnv)).Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogLevel() != logging.LevelInfo {
		t.Errorf("LogLevel = %v", cfg.LogLevel())
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		check   func(error) bool
	}{
		{
			name:    "toml syntax",
			file:    "a.toml",
			content: "[logging\nlevel = 1",
			check: func(err error) bool {
				var perr *ParseError
				return errors.As(err, &perr) && perr.Line > 0
			},
		},
		{
			name:    "toml unknown key",
			file:    "a.toml",
			content: "[logging]\nlevle = \"debug\"",
			check: func(err error) bool {
				var perr *ParseError
				return errors.As(err, &perr)
			},
		},
		{
			name:    "yaml syntax",
			file:    "a.yaml",
			content: "logging: [",
			check: func(err error) bool {
				var perr *ParseError
				return errors.As(err, &perr)
			},
		},
		{
			name:    "json syntax",
			file:    "a.json",
			content: `{"logging": `,
			check: func(err error) bool {
				var perr *ParseError
				return errors.As(err, &perr)
			},
		},
		{
			name:    "json wrong type",
			file:    "a.json",
			content: `{"validation": {"auto_validate": "yes"}}`,
			check: func(err error) bool {
				return errors.Is(err, ErrInvalidValue)
			},
		},
		{
			name:    "unknown rule tag",
			file:    "a.toml",
			content: "[[validation.rules]]\ntype = \"isPrime\"",
			check: func(err error) bool {
				var rerr *RuleError
				return errors.As(err, &rerr) && rerr.Index == 0 && errors.Is(err, validator.ErrUnknownRule)
			},
		},
		{
			name:    "custom without script",
			file:    "a.toml",
			content: "[[validation.rules]]\ntype = \"nonEmpty\"\n[[validation.rules]]\ntype = \"custom\"",
			check: func(err error) bool {
				var rerr *RuleError
				return errors.As(err, &rerr) && rerr.Index == 1 && errors.Is(err, ErrMissingScript)
			},
		},
		{
			name:    "bad log level",
			file:    "a.toml",
			content: "[logging]\nlevel = \"loud\"",
			check: func(err error) bool {
				return errors.Is(err, ErrInvalidValue)
			},
		},
		{
			name:    "bad symbol kind",
			file:    "a.toml",
			content: "[[symbols.groups]]\nname = \"x\"\nsymbols = [{ value = \"@\", kind = \"sparkle\" }]",
			check: func(err error) bool {
				return errors.Is(err, element.ErrUnknownKind)
			},
		},
		{
			name:    "unsupported extension",
			file:    "a.ini",
			content: "level=debug",
			check: func(err error) bool {
				return errors.Is(err, ErrUnsupportedFormat)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), tt.file, tt.content)
			_, err := NewLoader(WithLookupEnv(noEnv)).Load(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !tt.check(err) {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	path := writeFile(t, t.TempDir(), "a.toml", "[logging]\nlevel = \"warn\"")
	env := envMap(map[string]string{
		EnvLogLevel:     "error",
		EnvAutoValidate: "yes",
		EnvFunctions:    "max, min,,",
	})

	cfg, err := NewLoader(WithLookupEnv(env)).Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogLevel() != logging.LevelError {
		t.Errorf("LogLevel = %v", cfg.LogLevel())
	}
	if !cfg.Validation.AutoValidate {
		t.Error("AutoValidate should be true")
	}
	if len(cfg.Parser.ExtraFunctions) != 2 {
		t.Errorf("ExtraFunctions = %v", cfg.Parser.ExtraFunctions)
	}

	bad := envMap(map[string]string{EnvAutoValidate: "maybe"})
	if _, err := NewLoader(WithLookupEnv(bad)).Load(""); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("expected ErrInvalidValue, got %v", err)
	}
}

func TestNewParser(t *testing.T) {
	cfg := Default()
	cfg.Parser.ExtraFunctions = []string{"max"}

	elems := cfg.NewParser().Parse("max(a)")
	if len(elems) == 0 || elems[0].Kind != element.Function || elems[0].Value != "max" {
		t.Errorf("max should parse as a function: %v", elems)
	}

	cfg = Default()
	cfg.Parser.Functions = []string{"f"}
	elems = cfg.NewParser().Parse("sin(a)")
	if elems[0].Kind == element.Function {
		t.Error("sin should not be a function when functions are replaced")
	}
}

func TestBuildCustomRules(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "has_var.lua", `
		for _, e in ipairs(elements) do
			if e.kind == "variable" then return true end
		end
		return false
	`)
	path := writeFile(t, dir, "formulary.toml", `
[[validation.rules]]
type = "custom"
message = "needs a variable"
script_file = "has_var.lua"

[[validation.rules]]
type = "Custom"
script = "return #formula < 10"
`)

	cfg, err := NewLoader(WithLookupEnv(noEnv)).Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if _, err := cfg.BuildRules(nil); err == nil {
		t.Error("custom rules without an engine should fail")
	}

	engine := script.NewEngine()
	defer engine.Close()

	rules, err := cfg.BuildRules(engine)
	if err != nil {
		t.Fatalf("BuildRules: %v", err)
	}

	res := validator.Validate("1+2", parser.Parse("1+2"), rules)
	if res.Valid || len(res.Errors) != 1 || res.Errors[0].Message != "needs a variable" {
		t.Errorf("1+2: %+v", res)
	}

	res = validator.Validate("x+1", parser.Parse("x+1"), rules)
	if !res.Valid {
		t.Errorf("x+1: %+v", res)
	}

	res = validator.Validate("x+1234567890", parser.Parse("x+1234567890"), rules)
	if res.Valid || res.Errors[0].Message != validator.DefaultMessage(validator.Custom) {
		t.Errorf("long formula: %+v", res)
	}
}

func TestBuildRulesScriptErrors(t *testing.T) {
	cfg := Default()
	cfg.Validation.Rules = []RuleConfig{{Type: "custom", Script: "return ("}}

	engine := script.NewEngine()
	defer engine.Close()

	_, err := cfg.BuildRules(engine)
	var rerr *RuleError
	if !errors.As(err, &rerr) || rerr.Index != 0 {
		t.Errorf("expected RuleError, got %v", err)
	}

	cfg.Validation.Rules = []RuleConfig{{Type: "custom", ScriptFile: "missing.lua"}}
	cfg.Dir = t.TempDir()
	if _, err := cfg.BuildRules(engine); err == nil {
		t.Error("expected error for missing script file")
	}
}

func TestParse(t *testing.T) {
	cfg, err := Parse(FormatJSON, []byte(`{"validation": {"rules": [{"type": "non_empty"}]}}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	rules, err := cfg.BuildRules(nil)
	if err != nil || len(rules) != 1 || rules[0].Type != validator.NonEmpty {
		t.Errorf("rules = %+v, err = %v", rules, err)
	}

	if _, err := Parse(FormatYAML, nil); err != nil {
		t.Errorf("empty YAML should load defaults: %v", err)
	}
}

func TestCatalogSymbolWithoutKind(t *testing.T) {
	cfg, err := Parse(FormatTOML, []byte(`
[[symbols.groups]]
name = "powers"
symbols = [{ value = "x²" }, { value = "n", kind = "variable" }]
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	cat, err := cfg.Catalog()
	if err != nil {
		t.Fatalf("Catalog: %v", err)
	}
	g, ok := cat.Group("powers")
	if !ok || len(g.Items) != 2 {
		t.Fatalf("powers group = %+v, %v", g, ok)
	}
	if k := g.Items[0].ElementKind(); k != element.Symbol {
		t.Errorf("x² kind = %v, want symbol", k)
	}
	if k := g.Items[1].ElementKind(); k != element.Variable {
		t.Errorf("n kind = %v, want variable", k)
	}
}
