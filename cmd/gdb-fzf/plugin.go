//go:build !windows

package main

import (
	"errors"
	"fmt"
	"strings"
	"unsafe"

	"github.com/shaobosong/gdb-fzf/internal/candidates"
	"github.com/shaobosong/gdb-fzf/internal/complete"
	"github.com/shaobosong/gdb-fzf/internal/config"
	"github.com/shaobosong/gdb-fzf/internal/diag"
	"github.com/shaobosong/gdb-fzf/internal/fzf"
	"github.com/shaobosong/gdb-fzf/internal/rlbind"
	"github.com/shaobosong/gdb-fzf/internal/rlbuf"
)

// plugin is the per-process context: constructed once by setup and
// threaded to every callback from there.
type plugin struct {
	cfg         *config.Config
	rl          *rlbind.Readline
	buffer      *rlbuf.Controller
	picker      *fzf.Invoker
	interceptor *complete.Interceptor
	host        candidates.Introspector
}

// active is written once by setup and read by the exported callbacks.
// Readline dispatches on the host's single input thread, so nothing
// beyond the one-time initialization needs guarding.
var active *plugin

func currentPlugin() *plugin { return active }

// setup resolves the readline symbols, wires the key bindings and swaps
// in the completion interceptor. It aborts before installing anything
// when resolution fails, and a second call is a no-op.
func setup(execCapture unsafe.Pointer) error {
	if active != nil {
		diag.Debugf("setup called again; already installed")
		return nil
	}
	if execCapture == nil {
		return errors.New("setup requires the host's exec-capture callback")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	extraArgs, err := cfg.ExtraFzfArgs()
	if err != nil {
		return err
	}

	table, err := rlbind.Resolve(rlbind.DefaultImages(), rlbind.Required())
	if err != nil {
		if names := rlbind.MissingNames(err); len(names) > 0 {
			return fmt.Errorf("cannot bind readline, missing symbols: %s", strings.Join(names, ", "))
		}
		return err
	}
	rl, err := rlbind.NewReadline(table)
	if err != nil {
		return err
	}

	picker := &fzf.Invoker{
		Path:      cfg.Fzf.Path,
		Height:    cfg.Fzf.Height,
		ExtraArgs: extraArgs,
	}
	if cfg.Preview.Enabled {
		picker.Preview = cfg.Preview.Command
	}

	buffer := rlbuf.NewController(rl)
	native := &nativeCompletion{rl: rl}
	interceptor := complete.New(native, buffer, picker, complete.Config{
		LongestCommonPrefix: cfg.Completion.LongestCommonPrefix,
	})

	p := &plugin{
		cfg:         cfg,
		rl:          rl,
		buffer:      buffer,
		picker:      picker,
		interceptor: interceptor,
		host:        &hostIntrospector{fn: execCapture},
	}

	if err := rl.BindKeySeq([]byte(cfg.Keys.HistorySearch), historyCallbackPtr()); err != nil {
		diag.Warnf("failed to bind %s for history search: %v", cfg.Keys.HistorySearch, err)
	}
	if err := rl.BindKeySeq([]byte(cfg.Keys.CommandSearch), commandCallbackPtr()); err != nil {
		diag.Warnf("failed to bind %s for command search: %v", cfg.Keys.CommandSearch, err)
	}

	// Chain, then replace, the completion dispatch. The previous pointer
	// is kept both for delegation and as the result when the interceptor
	// declines to act.
	native.prev = rl.CompletionFunc()
	rl.SetCompletionFunc(completionCallbackPtr())

	active = p
	diag.Debugf("installed (history %s, commands %s)", cfg.Keys.HistorySearch, cfg.Keys.CommandSearch)
	return nil
}

// searchHistory is the body behind the history-search key binding.
func (p *plugin) searchHistory() {
	query := p.buffer.Text()
	selected := p.picker.Invoke(nil, candidates.History(p.rl), query)
	p.buffer.Replace(selected)
	p.buffer.Redraw()
}

// searchCommands is the body behind the command-search key binding.
func (p *plugin) searchCommands() {
	helpText, err := p.host.DescribeCommands()
	if err != nil {
		diag.Warnf("command search: %v", err)
		return
	}
	query := p.buffer.Text()
	selected := p.picker.Invoke(nil, candidates.Commands(helpText), query)
	p.buffer.Replace(selected)
	p.buffer.Redraw()
}

// nativeCompletion adapts rlbind to the interceptor's native surface.
type nativeCompletion struct {
	rl *rlbind.Readline
	// prev is the completion-dispatch function that was installed before
	// ours, captured at setup.
	prev unsafe.Pointer
}

func (n *nativeCompletion) CallPrevious(text []byte, start, end int) (complete.Matches, error) {
	if n.prev == nil {
		return nil, nil
	}
	m := n.rl.CallCompleter(n.prev, text, start, end)
	if m.IsNil() {
		return nil, nil
	}
	return m, nil
}

func (n *nativeCompletion) NewSingleMatch(word []byte) (complete.Matches, error) {
	m, err := rlbind.NewSingleMatchArray(word)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (n *nativeCompletion) ForceRedraw() { n.rl.ForceRedraw() }
