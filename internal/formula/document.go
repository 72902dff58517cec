package formula

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dshills/formulary/internal/formula/element"
	"github.com/dshills/formulary/internal/formula/history"
	"github.com/dshills/formulary/internal/formula/parser"
	"github.com/dshills/formulary/internal/formula/validator"
	"github.com/dshills/formulary/internal/symbols"
)

// Document is an editable formula.
type Document struct {
	mu sync.RWMutex

	elems   history.Sequence
	parser  *parser.Parser
	history *history.History
	catalog symbols.Catalog

	readOnly bool

	rules           []validator.Rule
	autoValidate    bool
	customValidator CustomValidator
	lastResult      *validator.Result

	initFormula    string
	maxUndoEntries int
}

// Patch describes a partial update; nil fields are left unchanged.
type Patch struct {
	Kind     *element.Kind
	Value    *string
	Children *[]element.Element
}

// New creates a document. An initial formula set with WithFormula is
// parsed before read-only mode takes effect and is not undoable.
func New(opts ...Option) *Document {
	d := &Document{
		elems:          history.Sequence{},
		parser:         parser.New(),
		catalog:        symbols.Default(),
		maxUndoEntries: DefaultMaxUndoEntries,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.history = history.NewHistory(d.maxUndoEntries)

	if d.initFormula != "" {
		d.elems = d.parser.Parse(d.initFormula)
		d.afterChangeLocked()
	}
	return d
}

// SetFormula replaces the content with the parsed text.
func (d *Document) SetFormula(text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.executeLocked(history.NewReplaceAllCommand("Set formula", d.parser.Parse(text)))
}

// Formula returns the normalized text of the document.
func (d *Document) Formula() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return parser.Stringify(d.elems)
}

// Text returns the top-level values joined, without modifiers.
func (d *Document) Text() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return parser.Text(d.elems)
}

// Len returns the number of top-level elements.
func (d *Document) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.elems)
}

// Elements returns a copy of the element sequence.
func (d *Document) Elements() []element.Element {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := element.CloneSlice(d.elems)
	if out == nil {
		out = []element.Element{}
	}
	return out
}

// ElementAt returns a copy of the element at index.
func (d *Document) ElementAt(index int) (element.Element, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if index < 0 || index >= len(d.elems) {
		return element.Element{}, false
	}
	return d.elems[index].Clone(), true
}

// Insert adds el before index and returns the stored copy, which carries
// fresh IDs. index is clamped to [0, Len()].
func (d *Document) Insert(index int, el element.Element) (element.Element, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.insertLocked(index, el)
}

// Append adds el at the end.
func (d *Document) Append(el element.Element) (element.Element, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.insertLocked(len(d.elems), el)
}

// InsertText classifies free text with element.Classify and inserts it as
// a single element. Surrounding whitespace is trimmed.
func (d *Document) InsertText(index int, text string) (element.Element, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return element.Element{}, ErrEmptyText
	}
	return d.Insert(index, element.Element{Kind: element.Classify(text), Value: text})
}

// InsertSymbol inserts a catalog item.
func (d *Document) InsertSymbol(index int, item symbols.Item) (element.Element, error) {
	return d.Insert(index, item.Element())
}

// InsertSymbolValue looks value up in the catalog and inserts it. Values
// not in the catalog are classified with element.ClassifySymbol.
func (d *Document) InsertSymbolValue(index int, value string) (element.Element, error) {
	if item, ok := d.catalog.Lookup(value); ok {
		return d.InsertSymbol(index, item)
	}
	return d.Insert(index, element.New(element.ClassifySymbol(value), value))
}

// Update applies patch to the element at index. The element keeps its ID.
func (d *Document) Update(index int, patch Patch) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if index < 0 || index >= len(d.elems) {
		return fmt.Errorf("update at %d: %w", index, ErrIndexOutOfRange)
	}
	updated := d.elems[index].Clone()
	if patch.Kind != nil {
		updated.Kind = *patch.Kind
	}
	if patch.Value != nil {
		updated.Value = *patch.Value
	}
	if patch.Children != nil {
		updated.Children = element.CloneSlice(*patch.Children)
	}
	return d.executeLocked(history.NewUpdateCommand(index, updated))
}

// Remove deletes the element at index.
func (d *Document) Remove(index int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.executeLocked(history.NewRemoveCommand(index))
}

// Find returns the indexes of elements matching pred, in order.
func (d *Document) Find(pred func(el element.Element, index int) bool) []int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var out []int
	for i, el := range d.elems {
		if pred(el.Clone(), i) {
			out = append(out, i)
		}
	}
	return out
}

// SetElements replaces the content with copies of elems under fresh IDs.
func (d *Document) SetElements(elems []element.Element) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	fresh := make(history.Sequence, len(elems))
	for i, el := range elems {
		fresh[i] = el.WithFreshIDs()
	}
	return d.executeLocked(history.NewReplaceAllCommand("Set elements", fresh))
}

// Clear removes every element.
func (d *Document) Clear() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.executeLocked(history.NewReplaceAllCommand("Clear", nil))
}

// Undo reverts the last edit.
func (d *Document) Undo() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.readOnly {
		return ErrReadOnly
	}
	if err := d.history.Undo(&d.elems); err != nil {
		return err
	}
	d.afterChangeLocked()
	return nil
}

// Redo re-applies the last undone edit.
func (d *Document) Redo() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.readOnly {
		return ErrReadOnly
	}
	if err := d.history.Redo(&d.elems); err != nil {
		return err
	}
	d.afterChangeLocked()
	return nil
}

// CanUndo reports whether Undo has anything to revert.
func (d *Document) CanUndo() bool {
	return d.history.CanUndo()
}

// CanRedo reports whether Redo has anything to re-apply.
func (d *Document) CanRedo() bool {
	return d.history.CanRedo()
}

// UndoDescription describes the edit Undo would revert.
func (d *Document) UndoDescription() (string, bool) {
	return d.history.Peek()
}

// Batch runs fn as one undo step named name. Edits fn makes through the
// document are reverted together by a single Undo. If fn returns an
// error its edits are rolled back and the error is returned. A Batch
// inside another Batch joins the outer one.
func (d *Document) Batch(name string, fn func() error) error {
	d.mu.Lock()
	if d.readOnly {
		d.mu.Unlock()
		return ErrReadOnly
	}
	outer := d.history.BeginGroup(name)
	d.mu.Unlock()

	if !outer {
		return fn()
	}

	err := fn()

	d.mu.Lock()
	defer d.mu.Unlock()
	if err != nil {
		if rerr := d.history.CancelGroup(&d.elems); rerr != nil {
			err = errors.Join(err, fmt.Errorf("rolling back %s: %w", name, rerr))
		}
		d.afterChangeLocked()
		return err
	}
	d.history.EndGroup()
	return nil
}

// SetReadOnly toggles read-only mode.
func (d *Document) SetReadOnly(readOnly bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.readOnly = readOnly
}

// ReadOnly reports whether mutations are rejected.
func (d *Document) ReadOnly() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.readOnly
}

func (d *Document) insertLocked(index int, el element.Element) (element.Element, error) {
	if index < 0 {
		index = 0
	}
	if index > len(d.elems) {
		index = len(d.elems)
	}
	stored := el.WithFreshIDs()
	if err := d.executeLocked(history.NewInsertCommand(index, stored)); err != nil {
		return element.Element{}, err
	}
	return stored.Clone(), nil
}

func (d *Document) executeLocked(cmd history.Command) error {
	if d.readOnly {
		return ErrReadOnly
	}
	if err := d.history.Execute(cmd, &d.elems); err != nil {
		return err
	}
	d.afterChangeLocked()
	return nil
}

func (d *Document) afterChangeLocked() {
	if d.autoValidate {
		d.validateLocked()
	}
}
