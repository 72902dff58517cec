package element

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{Symbol, "symbol"},
		{Number, "number"},
		{Variable, "variable"},
		{Function, "function"},
		{Bracket, "bracket"},
		{Operator, "operator"},
		{Superscript, "superscript"},
		{Subscript, "subscript"},
		{Fraction, "fraction"},
		{Root, "root"},
		{Integral, "integral"},
		{Kind(99), "kind(99)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind(" Superscript ")
	if err != nil {
		t.Fatalf("ParseKind: %v", err)
	}
	if k != Superscript {
		t.Errorf("ParseKind = %v, want superscript", k)
	}

	if _, err := ParseKind("matrix"); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("expected ErrUnknownKind, got %v", err)
	}
}

func TestKindJSON(t *testing.T) {
	e := Element{Kind: Variable, Value: "x", ID: "fe-1", Children: []Element{
		{Kind: Superscript, Value: "2", ID: "fe-2"},
	}}

	data, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"kind":"variable","value":"x","id":"fe-1","children":[{"kind":"superscript","value":"2","id":"fe-2"}]}`
	if string(data) != want {
		t.Errorf("Marshal = %s, want %s", data, want)
	}

	var back Element
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !Equal(e, back) || back.ID != "fe-1" {
		t.Errorf("Unmarshal = %v", back)
	}
}

func TestNewAssignsUniqueIDs(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		e := New(Number, "1")
		if e.ID == "" {
			t.Fatal("empty id")
		}
		if seen[e.ID] {
			t.Fatalf("duplicate id %s", e.ID)
		}
		seen[e.ID] = true
	}
}

func TestEqualIgnoresIDs(t *testing.T) {
	a := New(Variable, "x")
	a.Children = []Element{New(Superscript, "2")}
	b := New(Variable, "x")
	b.Children = []Element{New(Superscript, "2")}

	if a.ID == b.ID {
		t.Fatal("ids should differ")
	}
	if !Equal(a, b) {
		t.Error("elements with different ids should be equal")
	}

	b.Children[0].Value = "3"
	if Equal(a, b) {
		t.Error("different child values should not be equal")
	}

	if !EqualSlices(nil, []Element{}) {
		t.Error("nil and empty slices should be equal")
	}
}

func TestCloneIsDeep(t *testing.T) {
	a := New(Variable, "x")
	a.Children = []Element{New(Subscript, "i")}

	c := a.Clone()
	c.Children[0].Value = "j"

	if a.Children[0].Value != "i" {
		t.Error("clone shares children with original")
	}
	if c.ID != a.ID {
		t.Error("clone should keep id")
	}

	f := a.WithFreshIDs()
	if f.ID == a.ID || f.Children[0].ID == a.Children[0].ID {
		t.Error("WithFreshIDs kept an id")
	}
	if !Equal(f, a) {
		t.Error("WithFreshIDs changed content")
	}
}

func TestIsOperand(t *testing.T) {
	operands := []Kind{Number, Variable, Function, Bracket}
	for _, k := range operands {
		if !(Element{Kind: k}).IsOperand() {
			t.Errorf("%v should be an operand", k)
		}
	}
	others := []Kind{Symbol, Operator, Superscript, Subscript, Fraction, Root, Integral}
	for _, k := range others {
		if (Element{Kind: k}).IsOperand() {
			t.Errorf("%v should not be an operand", k)
		}
	}
}
