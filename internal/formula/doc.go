// Package formula provides Document, a headless model of a formula being
// edited as a sequence of typed elements.
//
// A Document owns its element sequence and exposes index-based edits
// (insert, update, remove), whole-formula replacement from text, undo and
// redo, and validation against a configurable rule set. It is safe for
// concurrent use; every accessor returns copies.
//
//	doc := formula.New(formula.WithRules(validator.NewBracketsMatch()))
//	doc.SetFormula("(a+b")
//	res := doc.Validate() // res.Valid == false
//
// The text form of a document is always the normalized output of
// parser.Stringify, so doc.Formula() after SetFormula("x^2") is "x^{2}".
package formula
