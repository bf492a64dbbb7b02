// Package rlbind locates and binds the GNU Readline functions and
// variables exported somewhere in the host debugger's symbol space.
//
// GDB links readline but ships no header for it, so every symbol is
// resolved by name at runtime. Candidate images are probed in order: the
// host process image first, then named shared-library fallbacks for hosts
// that keep readline out of their dynamic symbol table. A symbol binds to
// the first image that carries it; the resulting table is built once at
// setup and lives for the rest of the process.
package rlbind

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Kind distinguishes callable symbols from data symbols.
type Kind int

const (
	// KindFunc is a callable with a fixed argument/return signature.
	KindFunc Kind = iota
	// KindVar is a typed memory location.
	KindVar
)

// Names of the required readline symbols.
const (
	SymHistoryList         = "history_list"
	SymAddUndo             = "rl_add_undo"
	SymBindKeyseq          = "rl_bind_keyseq"
	SymDeleteText          = "rl_delete_text"
	SymForcedUpdateDisplay = "rl_forced_update_display"
	SymInsertText          = "rl_insert_text"

	SymLineBuffer     = "rl_line_buffer"
	SymPoint          = "rl_point"
	SymEnd            = "rl_end"
	SymCompletionFunc = "rl_attempted_completion_function"
)

// A Requirement names one symbol the plugin cannot work without.
type Requirement struct {
	Name string
	Kind Kind
}

// Required returns the full symbol set the plugin binds at setup.
func Required() []Requirement {
	return []Requirement{
		{Name: SymHistoryList, Kind: KindFunc},
		{Name: SymAddUndo, Kind: KindFunc},
		{Name: SymBindKeyseq, Kind: KindFunc},
		{Name: SymDeleteText, Kind: KindFunc},
		{Name: SymForcedUpdateDisplay, Kind: KindFunc},
		{Name: SymInsertText, Kind: KindFunc},
		{Name: SymLineBuffer, Kind: KindVar},
		{Name: SymPoint, Kind: KindVar},
		{Name: SymEnd, Kind: KindVar},
		{Name: SymCompletionFunc, Kind: KindVar},
	}
}

// An Image is one candidate source of native symbols.
type Image interface {
	// Name identifies the image in diagnostics.
	Name() string
	// Lookup returns the symbol's address, or zero when the image does not
	// carry it.
	Lookup(symbol string) uintptr
}

// A Binding is one resolved symbol. Bindings are process-scope statics:
// they are never individually released.
type Binding struct {
	Name  string
	Kind  Kind
	Addr  uintptr
	Image string
}

// Table maps symbol names to their resolved bindings.
type Table struct {
	bindings map[string]Binding
}

// MissingSymbolError reports one required symbol absent from every
// candidate image.
type MissingSymbolError struct {
	Name string
}

func (e *MissingSymbolError) Error() string {
	return fmt.Sprintf("required symbol %q not found in any candidate image", e.Name)
}

// Resolve probes images in order for every requirement and binds each name
// to the first image that carries it. A zero address never satisfies a
// requirement: for variables in particular, a present-but-null export is
// useless, so probing continues with the next image. When any requirement
// stays unresolved the returned error aggregates one MissingSymbolError
// per missing name.
func Resolve(images []Image, reqs []Requirement) (*Table, error) {
	t := &Table{bindings: make(map[string]Binding, len(reqs))}

	var merr *multierror.Error
	for _, req := range reqs {
		bound := false
		for _, img := range images {
			addr := img.Lookup(req.Name)
			if addr == 0 {
				continue
			}
			t.bindings[req.Name] = Binding{
				Name:  req.Name,
				Kind:  req.Kind,
				Addr:  addr,
				Image: img.Name(),
			}
			bound = true
			break
		}
		if !bound {
			merr = multierror.Append(merr, &MissingSymbolError{Name: req.Name})
		}
	}

	if err := merr.ErrorOrNil(); err != nil {
		return nil, err
	}
	return t, nil
}

// Binding returns the binding for name.
func (t *Table) Binding(name string) (Binding, bool) {
	b, ok := t.bindings[name]
	return b, ok
}

// Addr returns the resolved address for name, or zero when unbound.
func (t *Table) Addr(name string) uintptr {
	return t.bindings[name].Addr
}

// MissingNames extracts the unresolved symbol names from a Resolve error,
// in the order they were reported.
func MissingNames(err error) []string {
	if err == nil {
		return nil
	}

	var names []string
	var merr *multierror.Error
	if errors.As(err, &merr) {
		for _, e := range merr.Errors {
			var ms *MissingSymbolError
			if errors.As(e, &ms) {
				names = append(names, ms.Name)
			}
		}
		return names
	}

	var ms *MissingSymbolError
	if errors.As(err, &ms) {
		names = append(names, ms.Name)
	}
	return names
}
