// Package candidates produces the ordered, deduplicated entry lists fed
// to the fuzzy picker.
//
// Entries cross the picker boundary NUL-delimited, so an embedded NUL
// would split one entry into two; every producer strips them.
package candidates

import (
	"bytes"
	"sort"
	"strings"
)

// separator splits a help line into its alias list and its description.
const separator = "--"

// A HistoryLister enumerates the native history, oldest entry first.
type HistoryLister interface {
	HistoryLines() [][]byte
}

// An Introspector is the host debugger's "describe all commands" call.
type Introspector interface {
	DescribeCommands() (string, error)
}

// History yields unique history entries, most recent first. When a line
// repeats, the most recent occurrence wins and older repeats are dropped.
func History(h HistoryLister) [][]byte {
	lines := h.HistoryLines()

	seen := make(map[string]struct{}, len(lines))
	out := make([][]byte, 0, len(lines))
	for i := len(lines) - 1; i >= 0; i-- {
		line := sanitize(bytes.TrimSpace(lines[i]))
		if len(line) == 0 {
			continue
		}
		if _, ok := seen[string(line)]; ok {
			continue
		}
		seen[string(line)] = struct{}{}
		out = append(out, line)
	}
	return out
}

// Commands parses the host's command-description output. Each useful line
// has the form "alias[, alias...] -- description"; every alias becomes a
// candidate. Lines without the separator, and aliases empty after
// trimming, are skipped.
func Commands(helpText string) [][]byte {
	var out [][]byte
	seen := make(map[string]struct{})

	for _, line := range strings.Split(helpText, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		names, _, ok := strings.Cut(line, separator)
		if !ok {
			continue
		}
		for _, alias := range strings.Split(names, ",") {
			alias = strings.TrimSpace(alias)
			if alias == "" {
				continue
			}
			if _, dup := seen[alias]; dup {
				continue
			}
			seen[alias] = struct{}{}
			out = append(out, sanitize([]byte(alias)))
		}
	}
	return out
}

// Completions dedups and lexicographically sorts the completion suffixes,
// then re-attaches prefix to each. The native match array carries no
// order guarantee; sorting restores a stable presentation.
func Completions(prefix []byte, suffixes [][]byte) [][]byte {
	uniq := make(map[string]struct{}, len(suffixes))
	for _, s := range suffixes {
		s = sanitize(s)
		if len(s) == 0 {
			continue
		}
		uniq[string(s)] = struct{}{}
	}

	keys := make([]string, 0, len(uniq))
	for k := range uniq {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([][]byte, 0, len(keys))
	for _, k := range keys {
		entry := make([]byte, 0, len(prefix)+len(k))
		entry = append(entry, prefix...)
		entry = append(entry, k...)
		out = append(out, entry)
	}
	return out
}

func sanitize(b []byte) []byte {
	if bytes.IndexByte(b, 0) < 0 {
		return b
	}
	return bytes.ReplaceAll(b, []byte{0}, nil)
}
