package config

import (
	"fmt"
	"path/filepath"

	"github.com/dshills/formulary/internal/formula/element"
	"github.com/dshills/formulary/internal/formula/parser"
	"github.com/dshills/formulary/internal/formula/validator"
	"github.com/dshills/formulary/internal/script"
	"github.com/dshills/formulary/internal/symbols"
)

// DefaultRules are used when no rules are configured.
func DefaultRules() []validator.Rule {
	return []validator.Rule{
		validator.NewBracketsMatch(),
		validator.NewOperatorsSurrounded(),
		validator.NewNonEmpty(),
	}
}

// ParserOptions returns the parser options for the configured functions.
func (c *Config) ParserOptions() []parser.Option {
	var opts []parser.Option
	if len(c.Parser.Functions) > 0 {
		opts = append(opts, parser.WithFunctions(c.Parser.Functions...))
	}
	if len(c.Parser.ExtraFunctions) > 0 {
		opts = append(opts, parser.WithExtraFunctions(c.Parser.ExtraFunctions...))
	}
	return opts
}

// NewParser builds a parser for the configured functions.
func (c *Config) NewParser() *parser.Parser {
	return parser.New(c.ParserOptions()...)
}

// BuildRules turns validation.rules into validator rules. Custom rules are
// compiled with engine; engine may be nil when no custom rule is configured.
func (c *Config) BuildRules(engine *script.Engine) ([]validator.Rule, error) {
	if len(c.Validation.Rules) == 0 {
		return DefaultRules(), nil
	}

	rules := make([]validator.Rule, 0, len(c.Validation.Rules))
	for i, rc := range c.Validation.Rules {
		t, err := validator.ParseRuleType(rc.Type)
		if err != nil {
			return nil, &RuleError{Index: i, Type: rc.Type, Err: err}
		}

		rule := validator.Rule{Type: t}
		if t == validator.Custom {
			pred, err := c.compileCustom(i, rc, engine)
			if err != nil {
				return nil, &RuleError{Index: i, Type: rc.Type, Err: err}
			}
			rule = validator.NewCustom(pred)
		}
		if rc.Message != "" {
			rule = rule.WithMessage(rc.Message)
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func (c *Config) compileCustom(i int, rc RuleConfig, engine *script.Engine) (validator.Predicate, error) {
	if engine == nil {
		return nil, fmt.Errorf("no script engine for custom rule")
	}
	switch {
	case rc.Script != "":
		return engine.Compile(fmt.Sprintf("validation.rules[%d]", i), rc.Script)
	case rc.ScriptFile != "":
		path := rc.ScriptFile
		if !filepath.IsAbs(path) && c.Dir != "" {
			path = filepath.Join(c.Dir, path)
		}
		return engine.CompileFile(path)
	default:
		return nil, ErrMissingScript
	}
}

// Catalog returns the built-in symbol catalog with the configured groups
// merged in. A configured group replaces a built-in group of the same name.
func (c *Config) Catalog() (symbols.Catalog, error) {
	groups := make([]symbols.Group, 0, len(c.Symbols.Groups))
	for gi, gc := range c.Symbols.Groups {
		g := symbols.Group{Name: gc.Name, DisplayName: gc.DisplayName}
		for si, sc := range gc.Symbols {
			it := symbols.Item{Value: sc.Value, Insert: sc.Insert, Description: sc.Description}
			if sc.Kind != "" {
				k, err := element.ParseKind(sc.Kind)
				if err != nil {
					return symbols.Catalog{}, fmt.Errorf("symbols.groups[%d].symbols[%d].kind: %w", gi, si, err)
				}
				it.Kind, it.KindSet = k, true
			}
			g.Items = append(g.Items, it)
		}
		groups = append(groups, g)
	}
	return symbols.Default().Merge(groups...), nil
}
