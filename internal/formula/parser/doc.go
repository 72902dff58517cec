// Package parser converts between formula text and element sequences.
//
// Parse scans a formula left to right and emits one top-level element per
// token. Numbers are maximal runs of digits and dots, recognized function
// names are grouped only when directly followed by "(", every other ASCII
// letter is its own variable, and anything unrecognized becomes a symbol.
// "^" and "_" attach a superscript or subscript child to the element
// emitted just before them; their content is either one character or a
// brace group with nested braces counted.
//
// Stringify is the inverse. It always writes modifiers in braced form, so
// "x^2" round-trips to "x^{2}". Parsing that output again yields an equal
// tree (up to element IDs).
//
//	elems := parser.Parse("E=mc^2")
//	parser.Stringify(elems) // "E=mc^{2}"
package parser
