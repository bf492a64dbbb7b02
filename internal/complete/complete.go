// Package complete implements the completion-dispatch interception state
// machine.
//
// The interceptor sits where readline's attempted-completion function
// used to be. Per invocation it makes one of four decisions: delegate
// (hand back whatever the previous completer produced), auto-accept (a
// single match needs no picker), defer-to-prefix (let readline finish the
// shared prefix first), or take over and let the picker choose.
package complete

import (
	"bytes"

	"github.com/mattn/go-runewidth"

	"github.com/shaobosong/gdb-fzf/internal/candidates"
	"github.com/shaobosong/gdb-fzf/internal/diag"
)

// Matches is a native match list. Whoever holds it owns the raw array
// until Free (released here) or Release (ownership handed to readline).
type Matches interface {
	// Strings copies the entries out.
	Strings() [][]byte
	// Free releases the array and its entries with the native allocator.
	Free()
	// Release transfers ownership to the native caller and returns the
	// raw array pointer for it.
	Release() uintptr
}

// Native is the readline-side surface the interceptor drives.
type Native interface {
	// CallPrevious invokes the completer that was installed before the
	// interceptor, with the original arguments. A nil Matches means it
	// found nothing.
	CallPrevious(text []byte, start, end int) (Matches, error)
	// NewSingleMatch builds a match list holding exactly word, allocated
	// for readline to free.
	NewSingleMatch(word []byte) (Matches, error)
	// ForceRedraw repaints the line after the picker released the
	// terminal.
	ForceRedraw()
}

// Picker selects one candidate, returning the initial query unchanged
// when the user declines or the picker cannot run.
type Picker interface {
	Invoke(extra []string, candidates [][]byte, query []byte) []byte
}

// Buffer reads the live line.
type Buffer interface {
	Text() []byte
}

// Config carries the interception options.
type Config struct {
	// LongestCommonPrefix defers to readline's partial-prefix completion
	// until the shared prefix is fully typed.
	LongestCommonPrefix bool
	// PromptWidth caps the display width of the picker prompt built from
	// the line buffer. Zero means the default.
	PromptWidth int
}

const defaultPromptWidth = 40

// Interceptor replaces readline's completion-dispatch function.
type Interceptor struct {
	native Native
	buffer Buffer
	picker Picker
	cfg    Config
}

// New wires an interceptor. The previous completer stays reachable
// through native: the interceptor always consults it first.
func New(native Native, buffer Buffer, picker Picker, cfg Config) *Interceptor {
	if cfg.PromptWidth <= 0 {
		cfg.PromptWidth = defaultPromptWidth
	}
	return &Interceptor{native: native, buffer: buffer, picker: picker, cfg: cfg}
}

// Complete is the replacement completion-dispatch body. It returns the
// raw match array to hand readline, or zero for "no matches". Every
// failure path degrades to zero — a completion request must never take
// down the host's input loop.
func (ic *Interceptor) Complete(text []byte, start, end int) uintptr {
	matches, err := ic.native.CallPrevious(text, start, end)
	if err != nil {
		diag.Warnf("completion failed: %v", err)
		return 0
	}
	if matches == nil {
		// Nothing to intercept.
		return 0
	}

	entries := matches.Strings()
	if len(entries) == 0 {
		matches.Free()
		return 0
	}

	// A single entry means the completer settled on one word; readline
	// handles that on its own.
	if len(entries) == 1 {
		return matches.Release()
	}

	if ic.cfg.LongestCommonPrefix {
		// entries[0] holds the matches' shared prefix. Until the user has
		// typed all of it, readline's partial-prefix completion goes
		// first; the picker only takes over once the prefix is complete.
		if len(text) != 0 && !bytes.Equal(text, entries[0]) {
			return matches.Release()
		}
	}

	return ic.takeOver(text, matches, entries)
}

// takeOver runs the picker over the match list and synthesizes the
// replacement match array.
func (ic *Interceptor) takeOver(text []byte, matches Matches, entries [][]byte) uintptr {
	// entries[0] repeats the input (readline's substitution slot); only
	// the real matches go to the picker, reduced to the part the user has
	// not typed yet.
	suffixes := make([][]byte, 0, len(entries)-1)
	for _, m := range entries[1:] {
		suffixes = append(suffixes, bytes.TrimPrefix(m, text))
	}

	// The line up to the last whitespace boundary is context: it shows in
	// the prompt and prefixes every candidate, while matching stays
	// restricted to the final token.
	prefix := linePrefix(ic.buffer.Text())

	selected := ic.picker.Invoke(ic.pickerArgs(prefix), candidates.Completions(prefix, suffixes), nil)
	ic.native.ForceRedraw()
	matches.Free()

	if len(selected) == 0 {
		// The user declined; "no matches" leaves the buffer untouched.
		return 0
	}

	word := make([]byte, 0, len(text)+len(selected))
	word = append(word, text...)
	word = append(word, selected...)

	single, err := ic.native.NewSingleMatch(word)
	if err != nil {
		diag.Warnf("completion failed: %v", err)
		return 0
	}
	return single.Release()
}

// linePrefix truncates line at the last whitespace boundary, keeping the
// separator, isolating the word under completion.
func linePrefix(line []byte) []byte {
	if i := bytes.LastIndexByte(line, ' '); i >= 0 {
		return line[:i+1]
	}
	return nil
}

// pickerArgs restricts the picker's matching, display and output to the
// final whitespace-delimited token, and echoes the line context as the
// prompt.
func (ic *Interceptor) pickerArgs(prefix []byte) []string {
	prompt := runewidth.Truncate(string(prefix), ic.cfg.PromptWidth, "…")
	return []string{
		"--prompt=" + prompt + "> ",
		"--delimiter= ",
		"--nth=-1",
		"--with-nth=-1",
		"--accept-nth=-1",
	}
}
