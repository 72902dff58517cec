package parser

import (
	"strings"
	"testing"

	"github.com/dshills/formulary/internal/formula/element"
)

// tok is a compact expected element used by the table tests.
type tok struct {
	kind     element.Kind
	value    string
	children []tok
}

func (tk tok) element() element.Element {
	e := element.Element{Kind: tk.kind, Value: tk.value}
	for _, c := range tk.children {
		e.Children = append(e.Children, c.element())
	}
	return e
}

func assertElements(t *testing.T, got []element.Element, want []tok) {
	t.Helper()
	expected := make([]element.Element, len(want))
	for i, w := range want {
		expected[i] = w.element()
	}
	if !element.EqualSlices(got, expected) {
		t.Errorf("got %v\nwant %v", got, expected)
	}
}

func TestParseEmpty(t *testing.T) {
	got := Parse("")
	if got == nil {
		t.Fatal("Parse(\"\") returned nil")
	}
	if len(got) != 0 {
		t.Errorf("Parse(\"\") = %v, want empty", got)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		formula string
		want    []tok
	}{
		{"number", "123.45", []tok{{kind: element.Number, value: "123.45"}}},
		{"permissive number", "1.2.3", []tok{{kind: element.Number, value: "1.2.3"}}},
		{"variables", "xyz", []tok{
			{kind: element.Variable, value: "x"},
			{kind: element.Variable, value: "y"},
			{kind: element.Variable, value: "z"},
		}},
		{"operators", "+-×÷*/=", []tok{
			{kind: element.Operator, value: "+"},
			{kind: element.Operator, value: "-"},
			{kind: element.Operator, value: "×"},
			{kind: element.Operator, value: "÷"},
			{kind: element.Operator, value: "*"},
			{kind: element.Operator, value: "/"},
			{kind: element.Operator, value: "="},
		}},
		{"brackets", "()[]{}", []tok{
			{kind: element.Bracket, value: "("},
			{kind: element.Bracket, value: ")"},
			{kind: element.Bracket, value: "["},
			{kind: element.Bracket, value: "]"},
			{kind: element.Bracket, value: "{"},
			{kind: element.Bracket, value: "}"},
		}},
		{"function", "sin(", []tok{
			{kind: element.Function, value: "sin"},
			{kind: element.Bracket, value: "("},
		}},
		{"ln function", "ln(x)", []tok{
			{kind: element.Function, value: "ln"},
			{kind: element.Bracket, value: "("},
			{kind: element.Variable, value: "x"},
			{kind: element.Bracket, value: ")"},
		}},
		{"function name without paren", "sin", []tok{
			{kind: element.Variable, value: "s"},
			{kind: element.Variable, value: "i"},
			{kind: element.Variable, value: "n"},
		}},
		{"function name with space", "cos (", []tok{
			{kind: element.Variable, value: "c"},
			{kind: element.Variable, value: "o"},
			{kind: element.Variable, value: "s"},
			{kind: element.Symbol, value: " "},
			{kind: element.Bracket, value: "("},
		}},
		{"negative number", "-3", []tok{
			{kind: element.Operator, value: "-"},
			{kind: element.Number, value: "3"},
		}},
		{"complex", "E=mc^2", []tok{
			{kind: element.Variable, value: "E"},
			{kind: element.Operator, value: "="},
			{kind: element.Variable, value: "m"},
			{kind: element.Variable, value: "c", children: []tok{
				{kind: element.Superscript, value: "2"},
			}},
		}},
		{"braced superscript", "x^{y+z}", []tok{
			{kind: element.Variable, value: "x", children: []tok{
				{kind: element.Superscript, value: "y+z"},
			}},
		}},
		{"subscript", "a_i", []tok{
			{kind: element.Variable, value: "a", children: []tok{
				{kind: element.Subscript, value: "i"},
			}},
		}},
		{"modifier order", "x^2_i", []tok{
			{kind: element.Variable, value: "x", children: []tok{
				{kind: element.Superscript, value: "2"},
				{kind: element.Subscript, value: "i"},
			}},
		}},
		{"nested braces", "e^{a^{b}}", []tok{
			{kind: element.Variable, value: "e", children: []tok{
				{kind: element.Superscript, value: "a^{b}"},
			}},
		}},
		{"unterminated group", "x^{ab", []tok{
			{kind: element.Variable, value: "x", children: []tok{
				{kind: element.Superscript, value: "ab"},
			}},
		}},
		{"modifier at end", "x^", []tok{
			{kind: element.Variable, value: "x", children: []tok{
				{kind: element.Superscript, value: ""},
			}},
		}},
		{"leading modifier dropped", "^2x", []tok{
			{kind: element.Variable, value: "x"},
		}},
		{"leading braced modifier dropped", "_{ij}+1", []tok{
			{kind: element.Operator, value: "+"},
			{kind: element.Number, value: "1"},
		}},
		{"modifier on bracket", "(a)^2", []tok{
			{kind: element.Bracket, value: "("},
			{kind: element.Variable, value: "a"},
			{kind: element.Bracket, value: ")", children: []tok{
				{kind: element.Superscript, value: "2"},
			}},
		}},
		{"unicode symbols", "∑α∞", []tok{
			{kind: element.Symbol, value: "∑"},
			{kind: element.Symbol, value: "α"},
			{kind: element.Symbol, value: "∞"},
		}},
		{"unicode modifier content", "x^α", []tok{
			{kind: element.Variable, value: "x", children: []tok{
				{kind: element.Superscript, value: "α"},
			}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertElements(t, Parse(tt.formula), tt.want)
		})
	}
}

func TestParseDigitRunsAreOneNumber(t *testing.T) {
	for _, s := range []string{"0", "007", "3.14159", "...", "1.", ".5"} {
		got := Parse(s)
		if len(got) != 1 || got[0].Kind != element.Number || got[0].Value != s {
			t.Errorf("Parse(%q) = %v, want single number", s, got)
		}
	}
}

func TestParseLettersAreVariables(t *testing.T) {
	s := "abcdefgXYZ"
	got := Parse(s)
	if len(got) != len(s) {
		t.Fatalf("Parse(%q) returned %d elements", s, len(got))
	}
	for i, e := range got {
		if e.Kind != element.Variable || e.Value != string(s[i]) {
			t.Errorf("element %d = %v", i, e)
		}
	}
}

func TestParseAssignsIDs(t *testing.T) {
	got := Parse("x^2+y")
	ids := map[string]bool{}
	for _, e := range got {
		if e.ID == "" || ids[e.ID] {
			t.Fatalf("bad id on %v", e)
		}
		ids[e.ID] = true
		for _, c := range e.Children {
			if c.ID == "" || ids[c.ID] {
				t.Fatalf("bad id on child %v", c)
			}
			ids[c.ID] = true
		}
	}

	again := Parse("x^2+y")
	if again[0].ID == got[0].ID {
		t.Error("re-parsing reused an id")
	}
}

func TestWithFunctions(t *testing.T) {
	p := New(WithExtraFunctions("max", "sinh"))

	assertElements(t, p.Parse("sinh(x)"), []tok{
		{kind: element.Function, value: "sinh"},
		{kind: element.Bracket, value: "("},
		{kind: element.Variable, value: "x"},
		{kind: element.Bracket, value: ")"},
	})
	assertElements(t, p.Parse("max("), []tok{
		{kind: element.Function, value: "max"},
		{kind: element.Bracket, value: "("},
	})

	only := New(WithFunctions("f"))
	assertElements(t, only.Parse("f(sin("), []tok{
		{kind: element.Function, value: "f"},
		{kind: element.Bracket, value: "("},
		{kind: element.Variable, value: "s"},
		{kind: element.Variable, value: "i"},
		{kind: element.Variable, value: "n"},
		{kind: element.Bracket, value: "("},
	})
	if got := strings.Join(only.Functions(), ","); got != "f" {
		t.Errorf("Functions() = %q", got)
	}
}

func TestStringify(t *testing.T) {
	tests := []struct {
		name    string
		formula string
		want    string
	}{
		{"empty", "", ""},
		{"simple", "a+b=c", "a+b=c"},
		{"superscripts", "x^2+y^3", "x^{2}+y^{3}"},
		{"subscripts", "a_i+b_j", "a_{i}+b_{j}"},
		{"braced kept", "x^{y+z}", "x^{y+z}"},
		{"both modifiers", "x^2_i", "x^{2}_{i}"},
		{"function", "sin(x)", "sin(x)"},
		{"leading modifier dropped", "^2x", "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Stringify(Parse(tt.formula)); got != tt.want {
				t.Errorf("Stringify(Parse(%q)) = %q, want %q", tt.formula, got, tt.want)
			}
		})
	}
}

func TestStringifySkipsOtherChildren(t *testing.T) {
	elems := []element.Element{
		{Kind: element.Fraction, Value: "x", Children: []element.Element{
			{Kind: element.Number, Value: "1"},
			{Kind: element.Subscript, Value: "k"},
		}},
	}
	if got := Stringify(elems); got != "x_{k}" {
		t.Errorf("Stringify = %q, want %q", got, "x_{k}")
	}
	if got := Stringify(nil); got != "" {
		t.Errorf("Stringify(nil) = %q", got)
	}
}

func TestText(t *testing.T) {
	if got := Text(Parse("x^2+y_1")); got != "x+y" {
		t.Errorf("Text = %q, want %q", got, "x+y")
	}
}

func TestRoundTrip(t *testing.T) {
	inputs := []string{
		"E=mc^2",
		"x^{y+z}_i",
		"sin(x)^2+cos(x)^2=1",
		"e^{a^{b}}",
		"x^{{a}",
		"∑_{i=1}^{n} a_i",
		"x^",
		"(a+b)*[c-d]÷{e}",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			tree := Parse(in)
			reparsed := Parse(Stringify(tree))
			if !element.EqualSlices(tree, reparsed) {
				t.Errorf("round trip changed tree:\n%v\n%v", tree, reparsed)
			}

			once := Stringify(tree)
			twice := Stringify(Parse(once))
			if once != twice {
				t.Errorf("normalization not idempotent: %q -> %q", once, twice)
			}
		})
	}
}
