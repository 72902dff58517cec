package config

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// jsonDecoder walks a JSON document with gjson paths. The first error
// is kept and later assignments are skipped.
type jsonDecoder struct {
	source string
	err    error
}

func decodeJSON(source string, data []byte, cfg *Config) error {
	if !gjson.ValidBytes(data) {
		return &ParseError{Path: source, Message: "invalid JSON"}
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return &ParseError{Path: source, Message: "top level must be an object"}
	}

	d := &jsonDecoder{source: source}
	d.str(root, "logging.level", &cfg.Logging.Level)
	d.strs(root, "parser.functions", &cfg.Parser.Functions)
	d.strs(root, "parser.extra_functions", &cfg.Parser.ExtraFunctions)
	d.boolean(root, "validation.auto_validate", &cfg.Validation.AutoValidate)

	if rules := root.Get("validation.rules"); rules.Exists() {
		if !d.expectArray(rules, "validation.rules") {
			return d.err
		}
		cfg.Validation.Rules = nil
		for i, r := range rules.Array() {
			var rc RuleConfig
			prefix := fmt.Sprintf("validation.rules.%d", i)
			d.str(root, prefix+".type", &rc.Type)
			d.str(root, prefix+".message", &rc.Message)
			d.str(root, prefix+".script", &rc.Script)
			d.str(root, prefix+".script_file", &rc.ScriptFile)
			if !r.IsObject() {
				d.fail(prefix, "expected an object")
			}
			cfg.Validation.Rules = append(cfg.Validation.Rules, rc)
		}
	}

	if groups := root.Get("symbols.groups"); groups.Exists() {
		if !d.expectArray(groups, "symbols.groups") {
			return d.err
		}
		cfg.Symbols.Groups = nil
		for gi := range groups.Array() {
			var g GroupConfig
			prefix := fmt.Sprintf("symbols.groups.%d", gi)
			d.str(root, prefix+".name", &g.Name)
			d.str(root, prefix+".display_name", &g.DisplayName)

			if syms := root.Get(prefix + ".symbols"); syms.Exists() && d.expectArray(syms, prefix+".symbols") {
				for si := range syms.Array() {
					var s SymbolConfig
					sp := fmt.Sprintf("%s.symbols.%d", prefix, si)
					d.str(root, sp+".value", &s.Value)
					d.str(root, sp+".insert", &s.Insert)
					d.str(root, sp+".kind", &s.Kind)
					d.str(root, sp+".description", &s.Description)
					g.Symbols = append(g.Symbols, s)
				}
			}
			cfg.Symbols.Groups = append(cfg.Symbols.Groups, g)
		}
	}

	return d.err
}

func (d *jsonDecoder) fail(path, msg string) {
	if d.err == nil {
		d.err = &ParseError{
			Path:    d.source,
			Message: fmt.Sprintf("%s: %s", path, msg),
			Err:     ErrInvalidValue,
		}
	}
}

func (d *jsonDecoder) expectArray(r gjson.Result, path string) bool {
	if !r.IsArray() {
		d.fail(path, "expected an array")
		return false
	}
	return true
}

func (d *jsonDecoder) str(root gjson.Result, path string, dst *string) {
	r := root.Get(path)
	if !r.Exists() || d.err != nil {
		return
	}
	if r.Type != gjson.String {
		d.fail(path, "expected a string")
		return
	}
	*dst = r.Str
}

func (d *jsonDecoder) strs(root gjson.Result, path string, dst *[]string) {
	r := root.Get(path)
	if !r.Exists() || d.err != nil {
		return
	}
	if !d.expectArray(r, path) {
		return
	}
	out := make([]string, 0, len(r.Array()))
	for _, v := range r.Array() {
		if v.Type != gjson.String {
			d.fail(path, "expected an array of strings")
			return
		}
		out = append(out, v.Str)
	}
	*dst = out
}

func (d *jsonDecoder) boolean(root gjson.Result, path string, dst *bool) {
	r := root.Get(path)
	if !r.Exists() || d.err != nil {
		return
	}
	if r.Type != gjson.True && r.Type != gjson.False {
		d.fail(path, "expected a boolean")
		return
	}
	*dst = r.Bool()
}
