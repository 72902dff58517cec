package parser

import (
	"strings"

	"github.com/dshills/formulary/internal/formula/element"
)

// Stringify writes elements back to formula text. Superscripts become
// "^{...}" and subscripts "_{...}" regardless of how they were written;
// children of any other kind are skipped.
func Stringify(elems []element.Element) string {
	var sb strings.Builder
	for _, e := range elems {
		sb.WriteString(e.Value)
		for _, c := range e.Children {
			switch c.Kind {
			case element.Superscript:
				sb.WriteString("^{")
				sb.WriteString(c.Value)
				sb.WriteByte('}')
			case element.Subscript:
				sb.WriteString("_{")
				sb.WriteString(c.Value)
				sb.WriteByte('}')
			}
		}
	}
	return sb.String()
}

// Text joins the top-level values only, dropping all modifiers.
func Text(elems []element.Element) string {
	var sb strings.Builder
	for _, e := range elems {
		sb.WriteString(e.Value)
	}
	return sb.String()
}
