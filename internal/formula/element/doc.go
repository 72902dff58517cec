// Package element defines the typed node that formulas are made of.
//
// A formula is an ordered slice of top-level elements read left to right.
// Each top-level element may carry modifier children (superscripts and
// subscripts) attached in the order they appeared in the source text.
//
// Elements carry an opaque ID assigned at creation. IDs are unique per
// process and are never part of content equality: use Equal or
// EqualSlices to compare formulas.
package element
