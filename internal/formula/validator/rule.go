package validator

import (
	"fmt"
	"strings"

	"github.com/dshills/formulary/internal/formula/element"
)

// RuleType selects the behavior of a Rule.
type RuleType int

const (
	BracketsMatch RuleType = iota + 1
	OperatorsSurrounded
	NonEmpty
	HasEquals
	NoConsecutiveOperands
	Custom
)

var ruleTypeNames = map[RuleType]string{
	BracketsMatch:         "bracketsMatch",
	OperatorsSurrounded:   "operatorsSurrounded",
	NonEmpty:              "nonEmpty",
	HasEquals:             "hasEquals",
	NoConsecutiveOperands: "noConsecutiveOperands",
	Custom:                "custom",
}

// String returns the camelCase tag of the rule type.
func (t RuleType) String() string {
	if name, ok := ruleTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("ruleType(%d)", int(t))
}

// MarshalText implements encoding.TextMarshaler.
func (t RuleType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// ParseRuleType accepts "bracketsMatch", "brackets-match" or
// "brackets_match" spellings, case-insensitively.
func ParseRuleType(s string) (RuleType, error) {
	key := normalizeTag(s)
	for t, name := range ruleTypeNames {
		if normalizeTag(name) == key {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownRule, s)
}

func normalizeTag(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("-", "", "_", "", " ", "").Replace(s)
}

// Predicate is a user-supplied check for Custom rules. It returns false
// when the formula fails the rule.
type Predicate func(formula string, elems []element.Element) bool

// Rule is one configured check.
type Rule struct {
	Type RuleType

	// Message overrides the default failure message when non-empty.
	Message string

	// Predicate is only used by Custom rules.
	Predicate Predicate
}

// NewBracketsMatch requires (), [] and {} in the text to pair up.
func NewBracketsMatch() Rule { return Rule{Type: BracketsMatch} }

// NewOperatorsSurrounded requires operands around binary operators.
func NewOperatorsSurrounded() Rule { return Rule{Type: OperatorsSurrounded} }

// NewNonEmpty requires some non-whitespace text.
func NewNonEmpty() Rule { return Rule{Type: NonEmpty} }

// NewHasEquals requires an "=" in the text.
func NewHasEquals() Rule { return Rule{Type: HasEquals} }

// NewNoConsecutiveOperands forbids two operands side by side.
func NewNoConsecutiveOperands() Rule { return Rule{Type: NoConsecutiveOperands} }

// NewCustom wraps a predicate as a rule.
func NewCustom(pred Predicate) Rule { return Rule{Type: Custom, Predicate: pred} }

// WithMessage returns a copy of r with its failure message replaced.
func (r Rule) WithMessage(msg string) Rule {
	r.Message = msg
	return r
}

// DefaultMessage returns the message used when a rule has none.
func DefaultMessage(t RuleType) string {
	switch t {
	case BracketsMatch:
		return "brackets do not match"
	case OperatorsSurrounded:
		return "operators must have operands on both sides"
	case NonEmpty:
		return "formula must not be empty"
	case HasEquals:
		return "formula must contain an equals sign"
	case NoConsecutiveOperands:
		return "operands must be joined by an operator"
	default:
		return "validation failed"
	}
}
