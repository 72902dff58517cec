package history

import (
	"errors"
	"fmt"

	"github.com/dshills/formulary/internal/formula/element"
)

// ErrIndexOutOfRange is returned when a command targets a missing element.
var ErrIndexOutOfRange = errors.New("element index out of range")

// Sequence is the edited list of top-level elements.
type Sequence = []element.Element

// Command is an edit that can be executed and undone.
type Command interface {
	// Execute applies the command to seq.
	Execute(seq *Sequence) error

	// Undo reverses a previous Execute.
	Undo(seq *Sequence) error

	// Description returns a human-readable description.
	Description() string
}

// InsertCommand inserts Element before Index.
type InsertCommand struct {
	Index   int
	Element element.Element
}

// NewInsertCommand creates an insert command.
func NewInsertCommand(index int, el element.Element) *InsertCommand {
	return &InsertCommand{Index: index, Element: el}
}

// Execute inserts the element.
func (c *InsertCommand) Execute(seq *Sequence) error {
	if c.Index < 0 || c.Index > len(*seq) {
		return fmt.Errorf("insert at %d: %w", c.Index, ErrIndexOutOfRange)
	}
	s := append(*seq, element.Element{})
	copy(s[c.Index+1:], s[c.Index:])
	s[c.Index] = c.Element.Clone()
	*seq = s
	return nil
}

// Undo removes the inserted element.
func (c *InsertCommand) Undo(seq *Sequence) error {
	return removeAt(seq, c.Index)
}

// Description returns a description of the insert.
func (c *InsertCommand) Description() string {
	return fmt.Sprintf("Insert %s at %d", c.Element.Kind, c.Index)
}

// RemoveCommand removes the element at Index.
type RemoveCommand struct {
	Index   int
	removed element.Element
}

// NewRemoveCommand creates a remove command.
func NewRemoveCommand(index int) *RemoveCommand {
	return &RemoveCommand{Index: index}
}

// Execute removes the element, remembering it for Undo.
func (c *RemoveCommand) Execute(seq *Sequence) error {
	if c.Index < 0 || c.Index >= len(*seq) {
		return fmt.Errorf("remove at %d: %w", c.Index, ErrIndexOutOfRange)
	}
	c.removed = (*seq)[c.Index].Clone()
	return removeAt(seq, c.Index)
}

// Undo puts the removed element back.
func (c *RemoveCommand) Undo(seq *Sequence) error {
	return (&InsertCommand{Index: c.Index, Element: c.removed}).Execute(seq)
}

// Description returns a description of the removal.
func (c *RemoveCommand) Description() string {
	return fmt.Sprintf("Remove element at %d", c.Index)
}

// UpdateCommand replaces the element at Index with Element.
type UpdateCommand struct {
	Index    int
	Element  element.Element
	previous element.Element
}

// NewUpdateCommand creates an update command.
func NewUpdateCommand(index int, el element.Element) *UpdateCommand {
	return &UpdateCommand{Index: index, Element: el}
}

// Execute swaps in the new element.
func (c *UpdateCommand) Execute(seq *Sequence) error {
	if c.Index < 0 || c.Index >= len(*seq) {
		return fmt.Errorf("update at %d: %w", c.Index, ErrIndexOutOfRange)
	}
	c.previous = (*seq)[c.Index].Clone()
	(*seq)[c.Index] = c.Element.Clone()
	return nil
}

// Undo restores the previous element.
func (c *UpdateCommand) Undo(seq *Sequence) error {
	if c.Index < 0 || c.Index >= len(*seq) {
		return fmt.Errorf("undo update at %d: %w", c.Index, ErrIndexOutOfRange)
	}
	(*seq)[c.Index] = c.previous.Clone()
	return nil
}

// Description returns a description of the update.
func (c *UpdateCommand) Description() string {
	return fmt.Sprintf("Update element at %d", c.Index)
}

// ReplaceAllCommand replaces the whole sequence.
type ReplaceAllCommand struct {
	Name     string
	Elements Sequence
	previous Sequence
}

// NewReplaceAllCommand creates a command that swaps in elems.
func NewReplaceAllCommand(name string, elems Sequence) *ReplaceAllCommand {
	return &ReplaceAllCommand{Name: name, Elements: element.CloneSlice(elems)}
}

// Execute swaps in the new sequence.
func (c *ReplaceAllCommand) Execute(seq *Sequence) error {
	c.previous = element.CloneSlice(*seq)
	*seq = element.CloneSlice(c.Elements)
	if *seq == nil {
		*seq = Sequence{}
	}
	return nil
}

// Undo restores the previous sequence.
func (c *ReplaceAllCommand) Undo(seq *Sequence) error {
	*seq = element.CloneSlice(c.previous)
	if *seq == nil {
		*seq = Sequence{}
	}
	return nil
}

// Description returns the command name.
func (c *ReplaceAllCommand) Description() string {
	if c.Name == "" {
		return "Replace all"
	}
	return c.Name
}

// CompoundCommand runs several commands as one undo unit.
type CompoundCommand struct {
	Name     string
	Commands []Command
}

// Execute runs the commands in order. On failure the ones already run
// are undone.
func (c *CompoundCommand) Execute(seq *Sequence) error {
	for i, cmd := range c.Commands {
		if err := cmd.Execute(seq); err != nil {
			for j := i - 1; j >= 0; j-- {
				_ = c.Commands[j].Undo(seq)
			}
			return err
		}
	}
	return nil
}

// Undo undoes the commands in reverse order.
func (c *CompoundCommand) Undo(seq *Sequence) error {
	for i := len(c.Commands) - 1; i >= 0; i-- {
		if err := c.Commands[i].Undo(seq); err != nil {
			return err
		}
	}
	return nil
}

// Description returns the group name.
func (c *CompoundCommand) Description() string {
	return c.Name
}

func removeAt(seq *Sequence, index int) error {
	if index < 0 || index >= len(*seq) {
		return fmt.Errorf("remove at %d: %w", index, ErrIndexOutOfRange)
	}
	*seq = append((*seq)[:index], (*seq)[index+1:]...)
	return nil
}
