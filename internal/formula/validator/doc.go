// Package validator checks formulas against an ordered list of structural
// rules.
//
// Every rule runs, even after an earlier one fails, and each failing rule
// contributes exactly one Error to the Result in rule order. Validation
// failures are data, never Go errors or panics; Result.Err converts them
// into an error when a caller wants one.
//
// Rules that inspect the raw text (brackets-match, non-empty, has-equals)
// report positions as rune offsets into the text. Rules that inspect the
// element sequence report top-level element indexes.
package validator
