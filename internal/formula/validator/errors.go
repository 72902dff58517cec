package validator

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownRule is returned when a rule tag is not recognized.
var ErrUnknownRule = errors.New("unknown validation rule")

// Error describes one failed rule.
type Error struct {
	Message  string   `json:"message"`
	RuleType RuleType `json:"ruleType"`

	// ElementIndex is the failure position, or nil when the rule has none.
	ElementIndex *int `json:"elementIndex,omitempty"`
}

// Index returns the failure position if the rule reported one.
func (e Error) Index() (int, bool) {
	if e.ElementIndex == nil {
		return 0, false
	}
	return *e.ElementIndex, true
}

// Error implements the error interface.
func (e Error) Error() string {
	if i, ok := e.Index(); ok {
		return fmt.Sprintf("%s: %s at %d", e.RuleType, e.Message, i)
	}
	return fmt.Sprintf("%s: %s", e.RuleType, e.Message)
}

// Result is the outcome of Validate.
type Result struct {
	Valid  bool    `json:"valid"`
	Errors []Error `json:"errors"`
}

// Err returns nil for a valid result, the single Error when one rule
// failed, or a combined error listing every failure.
func (r Result) Err() error {
	switch len(r.Errors) {
	case 0:
		return nil
	case 1:
		return r.Errors[0]
	}
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Error()
	}
	return fmt.Errorf("%d validation errors:\n  - %s", len(r.Errors), strings.Join(msgs, "\n  - "))
}

// First returns the first error, if any.
func (r Result) First() (Error, bool) {
	if len(r.Errors) == 0 {
		return Error{}, false
	}
	return r.Errors[0], true
}
