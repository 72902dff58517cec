package element

import "strings"

// Operators are the single-character operators recognized in formula text.
const Operators = "+-×÷*/="

// Brackets are the bracket characters recognized in formula text.
const Brackets = "()[]{}"

// classifyOperators extends Operators with ± for free text insertion.
const classifyOperators = Operators + "±"

// textFunctions are the names treated as functions when inserted as text.
var textFunctions = []string{"sin", "cos", "tan", "log", "ln", "max", "min"}

// IsDigit reports whether r belongs to a number run.
func IsDigit(r rune) bool {
	return (r >= '0' && r <= '9') || r == '.'
}

// IsLetter reports whether r is an ASCII letter.
func IsLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// IsOperator reports whether r is a formula operator.
func IsOperator(r rune) bool {
	return strings.ContainsRune(Operators, r)
}

// IsBracket reports whether r is a bracket character.
func IsBracket(r rune) bool {
	return strings.ContainsRune(Brackets, r)
}

// Classify picks the kind for a whole piece of free text typed by a user,
// e.g. "3.14" is a Number and "sin" a Function. Text that is not made of
// ASCII letters and digits falls back to Symbol.
func Classify(text string) Kind {
	switch {
	case text == "":
		return Variable
	case allRunes(text, IsDigit):
		return Number
	case allRunes(text, func(r rune) bool { return strings.ContainsRune(classifyOperators, r) }):
		return Operator
	case isTextFunction(text):
		return Function
	case allRunes(text, IsBracket):
		return Bracket
	case !allRunes(text, func(r rune) bool { return IsLetter(r) || (r >= '0' && r <= '9') }):
		return Symbol
	}
	return Variable
}

// ClassifySymbol picks the kind for a symbol inserted by value alone.
// Unlike Classify, a single digit or letter anywhere in s decides.
func ClassifySymbol(s string) Kind {
	switch {
	case strings.IndexFunc(s, IsDigit) >= 0:
		return Number
	case strings.IndexFunc(s, IsLetter) >= 0:
		return Variable
	case len([]rune(s)) == 1 && IsOperator([]rune(s)[0]):
		return Operator
	case len([]rune(s)) == 1 && IsBracket([]rune(s)[0]):
		return Bracket
	}
	return Symbol
}

func isTextFunction(text string) bool {
	for _, f := range textFunctions {
		if f == text {
			return true
		}
	}
	return false
}

func allRunes(s string, pred func(rune) bool) bool {
	for _, r := range s {
		if !pred(r) {
			return false
		}
	}
	return true
}
