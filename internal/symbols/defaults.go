package symbols

import "github.com/dshills/formulary/internal/formula/element"

func item(value string, kind element.Kind, desc string) Item {
	return Item{Value: value, Kind: kind, KindSet: true, Description: desc}
}

// Default returns the built-in catalog.
func Default() Catalog {
	return Catalog{Groups: []Group{
		{Name: "basic", DisplayName: "Basic", Items: []Item{
			item("=", element.Operator, "equals"),
			item("+", element.Operator, "plus"),
			item("-", element.Operator, "minus"),
			{Value: "×", Insert: "*", Kind: element.Operator, KindSet: true, Description: "times"},
			{Value: "÷", Insert: "/", Kind: element.Operator, KindSet: true, Description: "divide"},
			item("±", element.Operator, "plus or minus"),
			item("(", element.Bracket, "left parenthesis"),
			item(")", element.Bracket, "right parenthesis"),
			item("[", element.Bracket, "left square bracket"),
			item("]", element.Bracket, "right square bracket"),
			item("{", element.Bracket, "left curly brace"),
			item("}", element.Bracket, "right curly brace"),
			item(",", element.Symbol, "comma"),
			item(".", element.Number, "decimal point"),
		}},
		{Name: "greek", DisplayName: "Greek", Items: []Item{
			item("α", element.Variable, "alpha"),
			item("β", element.Variable, "beta"),
			item("γ", element.Variable, "gamma"),
			item("δ", element.Variable, "delta"),
			item("ε", element.Variable, "epsilon"),
			item("η", element.Variable, "eta"),
			item("θ", element.Variable, "theta"),
			item("λ", element.Variable, "lambda"),
			item("μ", element.Variable, "mu"),
			item("π", element.Variable, "pi"),
			item("ρ", element.Variable, "rho"),
			item("σ", element.Variable, "sigma"),
			item("τ", element.Variable, "tau"),
			item("φ", element.Variable, "phi"),
			item("ω", element.Variable, "omega"),
			item("Γ", element.Variable, "capital gamma"),
			item("Δ", element.Variable, "capital delta"),
			item("Θ", element.Variable, "capital theta"),
			item("Λ", element.Variable, "capital lambda"),
			item("Π", element.Variable, "capital pi"),
			item("Σ", element.Variable, "capital sigma"),
			item("Φ", element.Variable, "capital phi"),
			item("Ψ", element.Variable, "capital psi"),
			item("Ω", element.Variable, "capital omega"),
		}},
		{Name: "functions", DisplayName: "Functions", Items: []Item{
			item("sin", element.Function, "sine"),
			item("cos", element.Function, "cosine"),
			item("tan", element.Function, "tangent"),
			item("log", element.Function, "logarithm"),
			item("ln", element.Function, "natural logarithm"),
			item("lim", element.Function, "limit"),
			item("max", element.Function, "maximum"),
			item("min", element.Function, "minimum"),
		}},
		{Name: "special", DisplayName: "Special", Items: []Item{
			item("∞", element.Symbol, "infinity"),
			item("∫", element.Integral, "integral"),
			item("∬", element.Integral, "double integral"),
			item("∭", element.Integral, "triple integral"),
			item("∮", element.Integral, "contour integral"),
			item("∇", element.Symbol, "nabla"),
			item("∂", element.Symbol, "partial derivative"),
			item("∑", element.Symbol, "summation"),
			item("∏", element.Symbol, "product"),
			item("√", element.Root, "square root"),
			item("∛", element.Root, "cube root"),
			item("∜", element.Root, "fourth root"),
			item("≠", element.Operator, "not equal"),
			item("≈", element.Operator, "approximately equal"),
			item("≤", element.Operator, "less than or equal"),
			item("≥", element.Operator, "greater than or equal"),
			item("∈", element.Symbol, "element of"),
			item("∉", element.Symbol, "not an element of"),
			item("⊂", element.Symbol, "subset"),
			item("⊃", element.Symbol, "superset"),
		}},
	}}
}
