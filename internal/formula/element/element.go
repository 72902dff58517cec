package element

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Kind identifies what an element represents.
type Kind int

const (
	Symbol Kind = iota
	Number
	Variable
	Function
	Bracket
	Operator
	Superscript
	Subscript
	// Fraction, Root and Integral are only produced by direct construction.
	Fraction
	Root
	Integral
)

var kindNames = [...]string{
	Symbol:      "symbol",
	Number:      "number",
	Variable:    "variable",
	Function:    "function",
	Bracket:     "bracket",
	Operator:    "operator",
	Superscript: "superscript",
	Subscript:   "subscript",
	Fraction:    "fraction",
	Root:        "root",
	Integral:    "integral",
}

// String returns the lower-case tag name of the kind.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// Valid reports whether k is one of the defined kinds.
func (k Kind) Valid() bool {
	return k >= 0 && int(k) < len(kindNames)
}

// IsModifier reports whether k is a superscript or subscript.
func (k Kind) IsModifier() bool {
	return k == Superscript || k == Subscript
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseKind converts a tag name such as "variable" into a Kind.
// Matching is case-insensitive.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range kindNames {
		if n == name {
			return Kind(i), nil
		}
	}
	return Symbol, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Element is one node of a formula.
type Element struct {
	Kind  Kind   `json:"kind"`
	Value string `json:"value"`
	ID    string `json:"id"`

	// Children holds modifier elements attached to this element.
	Children []Element `json:"children,omitempty"`
}

// New creates an element with a fresh ID.
func New(kind Kind, value string) Element {
	return Element{Kind: kind, Value: value, ID: NewID()}
}

// NewID returns a process-unique element identifier.
func NewID() string {
	return "fe-" + uuid.NewString()
}

// Clone returns a deep copy of e. IDs are kept.
func (e Element) Clone() Element {
	c := e
	if e.Children != nil {
		c.Children = make([]Element, len(e.Children))
		for i, child := range e.Children {
			c.Children[i] = child.Clone()
		}
	}
	return c
}

// WithFreshIDs returns a deep copy of e where e and all of its children
// have newly generated IDs.
func (e Element) WithFreshIDs() Element {
	c := e.Clone()
	c.ID = NewID()
	for i := range c.Children {
		c.Children[i] = c.Children[i].WithFreshIDs()
	}
	return c
}

// IsOperand reports whether the element can stand on either side of an
// operator: numbers, variables, functions and brackets.
func (e Element) IsOperand() bool {
	switch e.Kind {
	case Number, Variable, Function, Bracket:
		return true
	}
	return false
}

// String returns a short debug representation such as variable("x").
func (e Element) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s(%q)", e.Kind, e.Value)
	for _, c := range e.Children {
		sb.WriteString(c.String())
	}
	return sb.String()
}

// Equal reports whether a and b have the same kind, value and children.
// IDs are ignored.
func Equal(a, b Element) bool {
	if a.Kind != b.Kind || a.Value != b.Value {
		return false
	}
	return EqualSlices(a.Children, b.Children)
}

// EqualSlices reports whether a and b are element-wise Equal.
// A nil slice equals an empty one.
func EqualSlices(a, b []Element) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// CloneSlice deep-copies a slice of elements.
func CloneSlice(elems []Element) []Element {
	if elems == nil {
		return nil
	}
	out := make([]Element, len(elems))
	for i, e := range elems {
		out[i] = e.Clone()
	}
	return out
}
