package fzf

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withFakePicker routes the exec seam to a shell script standing in for
// fzf. The script sees the real argument list.
func withFakePicker(t *testing.T, script string) {
	t.Helper()

	origExec, origTTY, origTERM := execCommand, checkTTYFn, checkTERMFn
	execCommand = func(path string, args ...string) *exec.Cmd {
		return exec.Command("sh", append([]string{"-c", script, "fzf"}, args...)...)
	}
	checkTTYFn = func() error { return nil }
	checkTERMFn = func() error { return nil }
	t.Cleanup(func() {
		execCommand, checkTTYFn, checkTERMFn = origExec, origTTY, origTERM
	})
}

func TestParseOutput(t *testing.T) {
	tests := []struct {
		name  string
		out   string
		query string
		want  string
	}{
		{name: "query and selection", out: "query\x00bar\x00", query: "q", want: "bar"},
		{name: "empty query with selection", out: "\x00query\x00", query: "q", want: "query"},
		{name: "no output", out: "", query: "orig", want: "orig"},
		{name: "only NULs", out: "\x00\x00", query: "orig", want: "orig"},
		{name: "sole field", out: "typed\x00", query: "orig", want: "typed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseOutput([]byte(tt.out), []byte(tt.query))
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestInvokeReturnsSelection(t *testing.T) {
	withFakePicker(t, `cat >/dev/null; printf 'query\0bar\0'`)

	inv := &Invoker{}
	got := inv.Invoke(nil, [][]byte{[]byte("foo"), []byte("bar")}, []byte("query"))
	assert.Equal(t, "bar", string(got))
}

func TestInvokeStreamsCandidatesNULTerminated(t *testing.T) {
	sink := filepath.Join(t.TempDir(), "input")
	withFakePicker(t, fmt.Sprintf(`cat >%q; printf 'x\0'`, sink))

	inv := &Invoker{}
	inv.Invoke(nil, [][]byte{[]byte("foo"), []byte("bar")}, nil)

	data, err := os.ReadFile(sink)
	require.NoError(t, err)
	assert.Equal(t, "foo\x00bar\x00", string(data))
}

func TestInvokeEarlyExitStopsStreamingSilently(t *testing.T) {
	// The picker selects before reading everything; streaming must stop
	// on the broken pipe and the output still be honoured.
	withFakePicker(t, `printf 'sel\0'`)

	big := make([][]byte, 0, 4096)
	for i := 0; i < 4096; i++ {
		big = append(big, []byte(strings.Repeat("x", 64)))
	}

	inv := &Invoker{}
	got := inv.Invoke(nil, big, []byte("orig"))
	assert.Equal(t, "sel", string(got))
}

func TestInvokeNoOutputReturnsQuery(t *testing.T) {
	withFakePicker(t, `cat >/dev/null`)

	inv := &Invoker{}
	got := inv.Invoke(nil, [][]byte{[]byte("a")}, []byte("orig"))
	assert.Equal(t, "orig", string(got))
}

func TestInvokePassesQueryAndExtraArgs(t *testing.T) {
	// Echo back the --query value and whether the extra arg arrived.
	withFakePicker(t, `cat >/dev/null
found=""
for a in "$@"; do
  case "$a" in
    --query=*) q="${a#--query=}" ;;
    --nth=-1) found=yes ;;
  esac
done
printf '%s:%s\0' "$q" "$found"`)

	inv := &Invoker{}
	got := inv.Invoke([]string{"--nth=-1"}, nil, []byte("pri"))
	assert.Equal(t, "pri:yes", string(got))
}

func TestInvokeLaunchFailureReturnsQuery(t *testing.T) {
	origTTY, origTERM := checkTTYFn, checkTERMFn
	checkTTYFn = func() error { return nil }
	checkTERMFn = func() error { return nil }
	t.Cleanup(func() { checkTTYFn, checkTERMFn = origTTY, origTERM })

	inv := &Invoker{Path: filepath.Join(t.TempDir(), "no-such-binary")}
	got := inv.Invoke(nil, [][]byte{[]byte("a")}, []byte("orig"))
	assert.Equal(t, "orig", string(got))
}

func TestInvokeNoTTYReturnsQueryWithoutSpawning(t *testing.T) {
	origExec, origTTY := execCommand, checkTTYFn
	spawned := false
	execCommand = func(path string, args ...string) *exec.Cmd {
		spawned = true
		return exec.Command("true")
	}
	checkTTYFn = func() error { return fmt.Errorf("no TTY available") }
	t.Cleanup(func() { execCommand, checkTTYFn = origExec, origTTY })

	inv := &Invoker{}
	got := inv.Invoke(nil, nil, []byte("orig"))
	assert.Equal(t, "orig", string(got))
	assert.False(t, spawned)
}

func TestCheckTERM(t *testing.T) {
	t.Setenv("TERM", "dumb")
	assert.Error(t, checkTERM())

	t.Setenv("TERM", "xterm-256color")
	assert.NoError(t, checkTERM())
}

func TestBaseArgs(t *testing.T) {
	inv := &Invoker{Height: "50%", ExtraArgs: []string{"--color=dark"}, Preview: "gdb --batch"}
	args := inv.baseArgs()

	assert.Contains(t, args, "--height=50%")
	assert.Contains(t, args, "--read0")
	assert.Contains(t, args, "--print0")
	assert.Contains(t, args, "--print-query")
	assert.Contains(t, args, "--tiebreak=index")
	assert.Contains(t, args, "--preview=gdb --batch")
	// User extras follow the baseline set.
	assert.Equal(t, "--color=dark", args[len(args)-1])
}
