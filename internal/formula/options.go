package formula

import (
	"github.com/dshills/formulary/internal/formula/element"
	"github.com/dshills/formulary/internal/formula/parser"
	"github.com/dshills/formulary/internal/formula/validator"
	"github.com/dshills/formulary/internal/symbols"
)

// DefaultMaxUndoEntries is the undo depth used when none is configured.
const DefaultMaxUndoEntries = 1000

// CustomValidator replaces rule-based validation entirely when set.
type CustomValidator func(formula string, elems []element.Element) validator.Result

// Option configures a Document during creation.
type Option func(*Document)

// WithFormula sets the initial formula text.
func WithFormula(text string) Option {
	return func(d *Document) {
		d.initFormula = text
	}
}

// WithParser sets the parser used for SetFormula.
func WithParser(p *parser.Parser) Option {
	return func(d *Document) {
		if p != nil {
			d.parser = p
		}
	}
}

// WithRules sets the validation rules.
func WithRules(rules ...validator.Rule) Option {
	return func(d *Document) {
		d.rules = append([]validator.Rule(nil), rules...)
	}
}

// WithAutoValidate validates after every change.
func WithAutoValidate(enabled bool) Option {
	return func(d *Document) {
		d.autoValidate = enabled
	}
}

// WithCustomValidator sets a validator that takes precedence over rules.
func WithCustomValidator(v CustomValidator) Option {
	return func(d *Document) {
		d.customValidator = v
	}
}

// WithReadOnly makes the document reject mutations after creation.
func WithReadOnly(readOnly bool) Option {
	return func(d *Document) {
		d.readOnly = readOnly
	}
}

// WithCatalog sets the symbol catalog used by InsertSymbolValue.
func WithCatalog(c symbols.Catalog) Option {
	return func(d *Document) {
		d.catalog = c
	}
}

// WithMaxUndoEntries sets the undo depth.
func WithMaxUndoEntries(max int) Option {
	return func(d *Document) {
		if max > 0 {
			d.maxUndoEntries = max
		}
	}
}
