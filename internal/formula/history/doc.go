// Package history provides undo/redo for edits to an element sequence.
//
// Edits are Commands with Execute and Undo methods. Built-in commands:
//   - InsertCommand: insert one element at an index
//   - RemoveCommand: remove the element at an index
//   - UpdateCommand: replace the element at an index
//   - ReplaceAllCommand: swap the whole sequence
//   - CompoundCommand: several commands as one undo unit
//
// The History type keeps the undo and redo stacks:
//
//	h := history.NewHistory(100)
//	h.Execute(history.NewInsertCommand(0, el), &seq)
//	h.Undo(&seq)
//	h.Redo(&seq)
//
// Commands pushed between BeginGroup and EndGroup undo together.
package history
