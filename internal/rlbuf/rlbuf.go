// Package rlbuf mutates readline's live edit buffer without corrupting
// its undo or display state.
package rlbuf

import "bytes"

// Undo record codes from readline's enum undo_code. Begin and end
// delimit one logical edit group: everything between them reverts with a
// single undo command.
const (
	UndoDelete = 0
	UndoInsert = 1
	UndoBegin  = 2
	UndoEnd    = 3
)

// Native is the raw buffer surface the controller drives, implemented by
// rlbind.Readline in the live process.
type Native interface {
	Buffer() []byte
	End() int
	SetPoint(n int)
	AddUndo(code, start, end int, text []byte)
	DeleteText(start, end int) int
	InsertText(text []byte) int
	ForceRedraw()
}

// Controller reads and replaces the live line buffer.
type Controller struct {
	rl Native
}

// NewController wraps a native buffer surface.
func NewController(rl Native) *Controller {
	return &Controller{rl: rl}
}

// Text returns a read snapshot of the current buffer contents.
func (c *Controller) Text() []byte {
	return c.rl.Buffer()
}

// Replace swaps the whole buffer for text as one undo-bracketed edit:
// begin marker, delete of the full range, cursor to the new end, insert,
// end marker. Equal text is a no-op so null edits never pollute the undo
// list.
func (c *Controller) Replace(text []byte) {
	if bytes.Equal(text, c.rl.Buffer()) {
		return
	}

	c.rl.AddUndo(UndoBegin, 0, 0, nil)
	c.rl.DeleteText(0, c.rl.End())
	// Re-read the end offset: the delete moved it, and the cursor must
	// stay inside [0, length].
	c.rl.SetPoint(c.rl.End())
	c.rl.InsertText(text)
	c.rl.AddUndo(UndoEnd, 0, 0, nil)
}

// Redraw forces readline to repaint. Required after any mutation done
// outside its own input loop, or the terminal keeps showing stale text.
func (c *Controller) Redraw() {
	c.rl.ForceRedraw()
}
