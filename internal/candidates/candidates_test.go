package candidates

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeHistory [][]byte

func (f fakeHistory) HistoryLines() [][]byte { return f }

func lines(ss ...string) [][]byte {
	out := make([][]byte, len(ss))
	for i, s := range ss {
		out[i] = []byte(s)
	}
	return out
}

func TestHistoryDedupKeepsMostRecent(t *testing.T) {
	// Oldest to newest: a, b, a, c. The repeat of a keeps its most recent
	// position.
	got := History(fakeHistory(lines("a", "b", "a", "c")))
	assert.Equal(t, lines("c", "a", "b"), got)
}

func TestHistoryTrimsAndSkipsEmpty(t *testing.T) {
	got := History(fakeHistory(lines("  run  ", "", "   ", "step")))
	assert.Equal(t, lines("step", "run"), got)
}

func TestHistoryStripsNUL(t *testing.T) {
	got := History(fakeHistory([][]byte{[]byte("ru\x00n")}))
	assert.Equal(t, lines("run"), got)
}

func TestHistoryEmpty(t *testing.T) {
	assert.Empty(t, History(fakeHistory(nil)))
}

func TestCommands(t *testing.T) {
	tests := []struct {
		name string
		help string
		want [][]byte
	}{
		{
			name: "aliases split on commas",
			help: "p, print -- Print value",
			want: lines("p", "print"),
		},
		{
			name: "no separator yields nothing",
			help: "Command class: breakpoints",
			want: nil,
		},
		{
			name: "blank and separator-less lines skipped",
			help: "\nCommand class: data\n\nx -- Examine memory\ninfo, i -- Generic info\n",
			want: lines("x", "info", "i"),
		},
		{
			name: "whitespace trimmed from aliases",
			help: "  tbreak ,  tb  -- Set a temporary breakpoint",
			want: lines("tbreak", "tb"),
		},
		{
			name: "empty alias dropped",
			help: "p,, print -- Print value",
			want: lines("p", "print"),
		},
		{
			name: "duplicate alias reported once",
			help: "p -- Print value\np -- Print value",
			want: lines("p"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Commands(tt.help))
		})
	}
}

func TestCompletionsSortsDedupsAndReattachesPrefix(t *testing.T) {
	got := Completions([]byte("break "), lines("ntf", "nt", "ntf"))
	assert.Equal(t, lines("break nt", "break ntf"), got)
}

func TestCompletionsEmptyPrefix(t *testing.T) {
	got := Completions(nil, lines("b", "a"))
	assert.Equal(t, lines("a", "b"), got)
}

func TestCompletionsDropsEmptySuffixes(t *testing.T) {
	got := Completions([]byte("x "), lines("", "y"))
	assert.Equal(t, lines("x y"), got)
}
