package validator

import (
	"strings"

	"github.com/dshills/formulary/internal/formula/element"
)

// Validate applies rules in order and collects one Error per failing rule.
// It reads but never modifies elems. Custom rules with a nil predicate and
// rule types outside the defined set pass.
func Validate(formula string, elems []element.Element, rules []Rule) Result {
	errs := make([]Error, 0)
	for _, rule := range rules {
		if e, failed := apply(formula, elems, rule); failed {
			errs = append(errs, e)
		}
	}
	return Result{Valid: len(errs) == 0, Errors: errs}
}

func apply(formula string, elems []element.Element, rule Rule) (Error, bool) {
	var (
		ok    = true
		index = -1
	)

	switch rule.Type {
	case BracketsMatch:
		ok, index = bracketsMatch(formula)
	case OperatorsSurrounded:
		ok, index = operatorsSurrounded(elems)
	case NonEmpty:
		ok = strings.TrimSpace(formula) != ""
	case HasEquals:
		ok = strings.ContainsRune(formula, '=')
	case NoConsecutiveOperands:
		ok, index = noConsecutiveOperands(elems)
	case Custom:
		if rule.Predicate != nil {
			ok = rule.Predicate(formula, elems)
		}
	}

	if ok {
		return Error{}, false
	}

	msg := rule.Message
	if msg == "" {
		msg = DefaultMessage(rule.Type)
	}
	e := Error{Message: msg, RuleType: rule.Type}
	if index >= 0 {
		e.ElementIndex = &index
	}
	return e, true
}

// bracket is an opener waiting for its partner.
type bracket struct {
	char rune
	pos  int
}

var closers = map[rune]rune{')': '(', ']': '[', '}': '{'}

// bracketsMatch scans text with a stack of openers. The first stray or
// mismatched closer fails at its position; otherwise the earliest opener
// left on the stack fails.
func bracketsMatch(formula string) (bool, int) {
	var stack []bracket
	pos := 0
	for _, r := range formula {
		switch r {
		case '(', '[', '{':
			stack = append(stack, bracket{char: r, pos: pos})
		case ')', ']', '}':
			if len(stack) == 0 {
				return false, pos
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if top.char != closers[r] {
				return false, pos
			}
		}
		pos++
	}
	if len(stack) > 0 {
		return false, stack[0].pos
	}
	return true, -1
}

// operatorsSurrounded requires an operand after every operator other than
// "=" and "±", and an operand before it too unless it is "+" or "-".
func operatorsSurrounded(elems []element.Element) (bool, int) {
	for i, e := range elems {
		if e.Kind != element.Operator || e.Value == "=" || e.Value == "±" {
			continue
		}
		hasPrev := i > 0 && elems[i-1].IsOperand()
		hasNext := i < len(elems)-1 && elems[i+1].IsOperand()
		unary := e.Value == "+" || e.Value == "-"

		if !hasNext || (!unary && !hasPrev) {
			return false, i
		}
	}
	return true, -1
}

// noConsecutiveOperands fails at the second of two adjacent operands.
// Brackets count as operands, so ")(" is flagged.
func noConsecutiveOperands(elems []element.Element) (bool, int) {
	for i := 1; i < len(elems); i++ {
		if elems[i].IsOperand() && elems[i-1].IsOperand() {
			return false, i
		}
	}
	return true, -1
}
