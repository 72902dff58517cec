package parser

// DefaultFunctions are the function names recognized by Parse.
var DefaultFunctions = []string{"sin", "cos", "tan", "log", "ln"}

// Option configures a Parser.
type Option func(*Parser)

// WithFunctions replaces the set of recognized function names.
// Empty names are ignored.
func WithFunctions(names ...string) Option {
	return func(p *Parser) {
		p.functions = p.functions[:0]
		p.addFunctions(names)
	}
}

// WithExtraFunctions adds function names to the current set.
func WithExtraFunctions(names ...string) Option {
	return func(p *Parser) {
		p.addFunctions(names)
	}
}
