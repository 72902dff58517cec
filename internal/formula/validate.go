package formula

import (
	"github.com/dshills/formulary/internal/formula/element"
	"github.com/dshills/formulary/internal/formula/parser"
	"github.com/dshills/formulary/internal/formula/validator"
)

// Validate checks the document and remembers the result. A custom
// validator takes precedence over rules; with neither configured the
// document is valid.
func (d *Document) Validate() validator.Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.validateLocked()
}

func (d *Document) validateLocked() validator.Result {
	var res validator.Result
	switch {
	case d.customValidator != nil:
		res = d.customValidator(parser.Stringify(d.elems), element.CloneSlice(d.elems))
	case len(d.rules) > 0:
		res = validator.Validate(parser.Stringify(d.elems), d.elems, d.rules)
	default:
		res = validator.Result{Valid: true, Errors: []validator.Error{}}
	}
	d.lastResult = &res
	return res
}

// LastResult returns the most recent validation result, if any.
func (d *Document) LastResult() (validator.Result, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.lastResult == nil {
		return validator.Result{}, false
	}
	return *d.lastResult, true
}

// SetRules replaces the validation rules.
func (d *Document) SetRules(rules ...validator.Rule) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rules = append([]validator.Rule(nil), rules...)
}

// Rules returns a copy of the validation rules.
func (d *Document) Rules() []validator.Rule {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]validator.Rule(nil), d.rules...)
}

// SetAutoValidate toggles validation after every change.
func (d *Document) SetAutoValidate(enabled bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.autoValidate = enabled
}

// SetCustomValidator sets or clears (nil) the custom validator.
func (d *Document) SetCustomValidator(v CustomValidator) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.customValidator = v
}
