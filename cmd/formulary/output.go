package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rivo/uniseg"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
	"golang.org/x/term"

	"github.com/dshills/formulary/internal/app"
	"github.com/dshills/formulary/internal/formula/parser"
	"github.com/dshills/formulary/internal/formula/validator"
	"github.com/dshills/formulary/internal/symbols"
)

// cmdEnv is what every command runs with.
type cmdEnv struct {
	app    *app.Application
	stdout io.Writer
	stderr io.Writer
	color  bool
}

const (
	ansiRed   = "\x1b[31m"
	ansiGreen = "\x1b[32m"
	ansiBold  = "\x1b[1m"
	ansiReset = "\x1b[0m"
)

// colorEnabled reports whether w is a terminal and NO_COLOR is unset.
func colorEnabled(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

func (e *cmdEnv) paint(code, s string) string {
	if !e.color {
		return s
	}
	return code + s + ansiReset
}

// writeJSON writes a JSON document, indented when indent is set and
// colored on a terminal.
func (e *cmdEnv) writeJSON(data []byte, indent bool) error {
	if indent {
		data = pretty.Pretty(data)
		if e.color {
			data = pretty.Color(data, pretty.TerminalStyle)
		}
	} else {
		data = append(pretty.Ugly(data), '\n')
	}
	_, err := e.stdout.Write(data)
	return err
}

// caretLine places a caret under the rune at index, measured in terminal
// columns.
func caretLine(input string, index int) string {
	runes := []rune(input)
	index = max(0, min(index, len(runes)))
	return strings.Repeat(" ", uniseg.StringWidth(string(runes[:index]))) + "^"
}

// errorSpot returns the line an indexed error points into and the rune
// offset of the failure on it. Bracket errors index the input text;
// other rules index elements, which are located in the formula.
func errorSpot(r app.Report, verr validator.Error) (string, int, bool) {
	i, ok := verr.Index()
	if !ok {
		return "", 0, false
	}
	if verr.RuleType == validator.BracketsMatch {
		return r.Input, i, true
	}
	i = max(0, min(i, len(r.Elements)))
	return r.Formula, len([]rune(parser.Stringify(r.Elements[:i]))), true
}

// padRight pads s with spaces to width terminal columns.
func padRight(s string, width int) string {
	if w := uniseg.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// writeReport prints a validation report for humans.
func (e *cmdEnv) writeReport(r app.Report) {
	if r.Result.Valid {
		fmt.Fprintf(e.stdout, "%s %s\n", e.paint(ansiGreen, "ok"), r.Formula)
		return
	}

	for _, verr := range r.Result.Errors {
		fmt.Fprintf(e.stdout, "%s %s\n",
			e.paint(ansiRed, fmt.Sprintf("error[%s]:", verr.RuleType)),
			e.paint(ansiBold, verr.Message))
		if line, offset, ok := errorSpot(r, verr); ok {
			fmt.Fprintf(e.stdout, "  %s\n", line)
			fmt.Fprintf(e.stdout, "  %s\n", e.paint(ansiRed, caretLine(line, offset)))
		}
	}
}

// jsonBuilder accumulates sjson edits and keeps the first error.
type jsonBuilder struct {
	doc string
	err error
}

func newJSONBuilder() *jsonBuilder {
	return &jsonBuilder{doc: "{}"}
}

func (b *jsonBuilder) set(path string, value any) {
	if b.err != nil {
		return
	}
	b.doc, b.err = sjson.Set(b.doc, path, value)
}

func (b *jsonBuilder) setRaw(path, raw string) {
	if b.err != nil {
		return
	}
	b.doc, b.err = sjson.SetRaw(b.doc, path, raw)
}

func (b *jsonBuilder) bytes() ([]byte, error) {
	return []byte(b.doc), b.err
}

// reportJSON renders a validation report. Errors with a position carry
// the rule's index and the terminal column on the line it points into:
// the input for bracket errors, the formula otherwise.
func reportJSON(r app.Report) ([]byte, error) {
	b := newJSONBuilder()
	b.set("input", r.Input)
	b.set("formula", r.Formula)
	b.set("valid", r.Result.Valid)
	b.setRaw("errors", "[]")
	for i, verr := range r.Result.Errors {
		p := fmt.Sprintf("errors.%d", i)
		b.set(p+".ruleType", verr.RuleType.String())
		b.set(p+".message", verr.Message)
		if idx, ok := verr.Index(); ok {
			line, offset, _ := errorSpot(r, verr)
			b.set(p+".elementIndex", idx)
			b.set(p+".column", len(caretLine(line, offset))-1)
		}
	}
	return b.bytes()
}

// catalogJSON renders the symbol catalog.
func catalogJSON(c symbols.Catalog) ([]byte, error) {
	b := newJSONBuilder()
	b.setRaw("groups", "[]")
	for gi, g := range c.Groups {
		gp := fmt.Sprintf("groups.%d", gi)
		b.set(gp+".name", g.Name)
		b.set(gp+".title", g.Title())
		b.setRaw(gp+".symbols", "[]")
		for si, it := range g.Items {
			sp := fmt.Sprintf("%s.symbols.%d", gp, si)
			b.set(sp+".value", it.Value)
			b.set(sp+".insert", it.InsertValue())
			b.set(sp+".kind", it.ElementKind().String())
			if it.Description != "" {
				b.set(sp+".description", it.Description)
			}
		}
	}
	return b.bytes()
}
