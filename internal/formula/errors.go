package formula

import (
	"errors"

	"github.com/dshills/formulary/internal/formula/history"
)

// Errors returned by Document operations.
var (
	// ErrReadOnly indicates a mutation on a read-only document.
	ErrReadOnly = errors.New("document is read-only")

	// ErrIndexOutOfRange indicates an index outside the element sequence.
	ErrIndexOutOfRange = history.ErrIndexOutOfRange

	// ErrEmptyText indicates InsertText was given only whitespace.
	ErrEmptyText = errors.New("empty text")

	// ErrNothingToUndo indicates the undo stack is empty.
	ErrNothingToUndo = history.ErrNothingToUndo

	// ErrNothingToRedo indicates the redo stack is empty.
	ErrNothingToRedo = history.ErrNothingToRedo
)
