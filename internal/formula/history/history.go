package history

import (
	"errors"
	"sync"
)

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// DefaultMaxEntries is used when NewHistory gets a non-positive limit.
const DefaultMaxEntries = 1000

// History is a bounded undo/redo log for one Sequence.
type History struct {
	mu sync.Mutex

	done   []Command
	undone []Command

	// group collects commands between BeginGroup and EndGroup.
	group *CompoundCommand

	limit int
}

// NewHistory creates a history keeping at most limit undo steps.
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultMaxEntries
	}
	return &History{limit: limit}
}

// Execute runs cmd against seq and records it as one undo step, or as
// part of the open group.
func (h *History) Execute(cmd Command, seq *Sequence) error {
	if err := cmd.Execute(seq); err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.group != nil {
		h.group.Commands = append(h.group.Commands, cmd)
		return nil
	}
	h.recordLocked(cmd)
	return nil
}

func (h *History) recordLocked(cmd Command) {
	h.done = append(h.done, cmd)
	h.undone = nil
	if n := len(h.done) - h.limit; n > 0 {
		h.done = append([]Command(nil), h.done[n:]...)
	}
}

// Undo reverts the latest step.
func (h *History) Undo(seq *Sequence) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := len(h.done)
	if n == 0 {
		return ErrNothingToUndo
	}
	cmd := h.done[n-1]
	if err := cmd.Undo(seq); err != nil {
		return err
	}
	h.done = h.done[:n-1]
	h.undone = append(h.undone, cmd)
	return nil
}

// Redo re-applies the latest undone step.
func (h *History) Redo(seq *Sequence) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := len(h.undone)
	if n == 0 {
		return ErrNothingToRedo
	}
	cmd := h.undone[n-1]
	if err := cmd.Execute(seq); err != nil {
		return err
	}
	h.undone = h.undone[:n-1]
	h.done = append(h.done, cmd)
	return nil
}

// CanUndo reports whether Undo has a step to revert.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.done) > 0
}

// CanRedo reports whether Redo has a step to re-apply.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undone) > 0
}

// Peek returns the description of the step Undo would revert.
func (h *History) Peek() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.done) == 0 {
		return "", false
	}
	return h.done[len(h.done)-1].Description(), true
}

// BeginGroup opens a group named name. It returns false, and changes
// nothing, when a group is already open.
func (h *History) BeginGroup(name string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.group != nil {
		return false
	}
	h.group = &CompoundCommand{Name: name}
	return true
}

// EndGroup closes the open group and records it as one step.
// An empty group records nothing.
func (h *History) EndGroup() {
	h.mu.Lock()
	defer h.mu.Unlock()
	g := h.group
	h.group = nil
	if g != nil && len(g.Commands) > 0 {
		h.recordLocked(g)
	}
}

// CancelGroup closes the open group and reverts its commands on seq.
func (h *History) CancelGroup(seq *Sequence) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	g := h.group
	h.group = nil
	if g == nil {
		return nil
	}
	return g.Undo(seq)
}
