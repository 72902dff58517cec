package parser

import (
	"sort"
	"strings"

	"github.com/dshills/formulary/internal/formula/element"
)

// Parser tokenizes formula text. A Parser is immutable after New and safe
// for concurrent use.
type Parser struct {
	// functions holds recognized names as runes, longest first.
	functions [][]rune
}

var defaultParser = New()

// New creates a parser. Without options it recognizes DefaultFunctions.
func New(opts ...Option) *Parser {
	p := &Parser{}
	p.addFunctions(DefaultFunctions)
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse tokenizes formula with the default function set.
func Parse(formula string) []element.Element {
	return defaultParser.Parse(formula)
}

// Functions returns the recognized function names, longest first.
func (p *Parser) Functions() []string {
	names := make([]string, len(p.functions))
	for i, f := range p.functions {
		names[i] = string(f)
	}
	return names
}

// Parse tokenizes formula into top-level elements. It never fails: every
// character maps to some element or is consumed as modifier content.
// The empty string yields an empty, non-nil slice.
func (p *Parser) Parse(formula string) []element.Element {
	s := scanner{src: []rune(formula), functions: p.functions, last: -1}
	s.elems = make([]element.Element, 0, len(s.src))
	for s.pos < len(s.src) {
		s.step()
	}
	return s.elems
}

func (p *Parser) addFunctions(names []string) {
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || p.hasFunction(name) {
			continue
		}
		p.functions = append(p.functions, []rune(name))
	}
	sort.SliceStable(p.functions, func(i, j int) bool {
		return len(p.functions[i]) > len(p.functions[j])
	})
}

func (p *Parser) hasFunction(name string) bool {
	for _, f := range p.functions {
		if string(f) == name {
			return true
		}
	}
	return false
}

// scanner holds the state of a single Parse call. It exclusively owns
// elems; modifiers are appended to elems[last].
type scanner struct {
	src       []rune
	pos       int
	functions [][]rune
	elems     []element.Element
	last      int
}

func (s *scanner) step() {
	r := s.src[s.pos]

	switch {
	case element.IsDigit(r):
		start := s.pos
		for s.pos < len(s.src) && element.IsDigit(s.src[s.pos]) {
			s.pos++
		}
		s.emit(element.Number, string(s.src[start:s.pos]))

	case element.IsLetter(r):
		if name := s.matchFunction(); name != nil {
			s.pos += len(name)
			s.emit(element.Function, string(name))
			return
		}
		s.pos++
		s.emit(element.Variable, string(r))

	case element.IsOperator(r):
		s.pos++
		s.emit(element.Operator, string(r))

	case element.IsBracket(r):
		s.pos++
		s.emit(element.Bracket, string(r))

	case r == '^':
		s.pos++
		s.attach(element.Superscript, s.modifierContent())

	case r == '_':
		s.pos++
		s.attach(element.Subscript, s.modifierContent())

	default:
		s.pos++
		s.emit(element.Symbol, string(r))
	}
}

func (s *scanner) emit(kind element.Kind, value string) {
	s.elems = append(s.elems, element.New(kind, value))
	s.last = len(s.elems) - 1
}

// attach appends a modifier to the last emitted element. With nothing
// emitted yet the modifier is dropped.
func (s *scanner) attach(kind element.Kind, content string) {
	if s.last < 0 {
		return
	}
	target := &s.elems[s.last]
	target.Children = append(target.Children, element.New(kind, content))
}

// matchFunction returns the function name at pos if it is immediately
// followed by "(".
func (s *scanner) matchFunction() []rune {
	rest := s.src[s.pos:]
	for _, name := range s.functions {
		if len(rest) <= len(name) || rest[len(name)] != '(' {
			continue
		}
		if string(rest[:len(name)]) == string(name) {
			return name
		}
	}
	return nil
}

// modifierContent consumes the content following "^" or "_". A brace
// group is returned without its outer braces; an unterminated group runs
// to the end of input. At end of input the content is empty.
func (s *scanner) modifierContent() string {
	if s.pos >= len(s.src) {
		return ""
	}
	if s.src[s.pos] != '{' {
		r := s.src[s.pos]
		s.pos++
		return string(r)
	}

	s.pos++
	start := s.pos
	depth := 1
	for s.pos < len(s.src) {
		switch s.src[s.pos] {
		case '{':
			depth++
		case '}':
			depth--
		}
		if depth == 0 {
			content := string(s.src[start:s.pos])
			s.pos++
			return content
		}
		s.pos++
	}
	return string(s.src[start:])
}
