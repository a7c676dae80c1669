package interp

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maximumSHOT-HSE/gobash/core/proc"
	"github.com/maximumSHOT-HSE/gobash/core/shell"
)

// newTestSession returns an interpreter over an in-memory filesystem
// with empty bindings, so nothing leaks in from the host.
func newTestSession(t *testing.T, opts ...Option) *Interpreter {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/home/user", 0755))
	base := []Option{
		WithBindings(proc.NewBindings()),
		WithFS(fs),
		WithWorkdir("/home/user"),
	}
	return New(append(base, opts...)...)
}

func mustProcess(t *testing.T, in *Interpreter, line string) *Result {
	t.Helper()
	res, err := in.Process(line)
	require.NoError(t, err, "line %q", line)
	return res
}

func TestProcess_blankLine(t *testing.T) {
	in := newTestSession(t)

	for _, line := range []string{"", "   ", "\t"} {
		res := mustProcess(t, in, line)
		assert.Equal(t, 0, res.ExitStatus)
		assert.Empty(t, res.Output)
		assert.False(t, res.Terminate)
	}
}

func TestProcess_echo(t *testing.T) {
	in := newTestSession(t)

	res := mustProcess(t, in, "echo hello world")
	assert.Equal(t, 0, res.ExitStatus)
	assert.Equal(t, "hello world\n", string(res.Output))
}

func TestProcess_assignmentThenRead(t *testing.T) {
	in := newTestSession(t)

	res := mustProcess(t, in, "X=5")
	assert.Equal(t, 0, res.ExitStatus)
	assert.Empty(t, res.Output)

	res = mustProcess(t, in, "echo $X")
	assert.Equal(t, "5\n", string(res.Output))
}

func TestProcess_assignmentQuotedValue(t *testing.T) {
	in := newTestSession(t)

	mustProcess(t, in, `X="a b"`)
	res := mustProcess(t, in, "echo $X")
	assert.Equal(t, "a b\n", string(res.Output))
}

func TestProcess_assignmentReferencesOldValue(t *testing.T) {
	in := newTestSession(t)

	mustProcess(t, in, "X=1")
	mustProcess(t, in, "X=${X}2")
	res := mustProcess(t, in, "echo $X")
	assert.Equal(t, "12\n", string(res.Output))
}

func TestProcess_unboundVariable(t *testing.T) {
	in := newTestSession(t)

	res := mustProcess(t, in, "echo $NOPE")
	assert.Equal(t, 0, res.ExitStatus)
	assert.Equal(t, "\n", string(res.Output))
}

func TestProcess_pipeline(t *testing.T) {
	in := newTestSession(t)

	res := mustProcess(t, in, "echo hello | wc")
	assert.Equal(t, 0, res.ExitStatus)
	assert.Equal(t, "1 1 6\n", string(res.Output))
}

func TestProcess_threeStages(t *testing.T) {
	in := newTestSession(t)

	res := mustProcess(t, in, "echo foo | cat | cat")
	assert.Equal(t, 0, res.ExitStatus)
	assert.Equal(t, "foo\n", string(res.Output))
}

func TestProcess_quotedPipeIsLiteral(t *testing.T) {
	in := newTestSession(t)

	res := mustProcess(t, in, `echo "a|b"`)
	assert.Equal(t, "a|b\n", string(res.Output))
}

func TestProcess_fileThroughPipeline(t *testing.T) {
	in := newTestSession(t)
	require.NoError(t, afero.WriteFile(in.fs, "/home/user/data.txt", []byte("one\ntwo\n"), 0644))

	res := mustProcess(t, in, "cat data.txt | wc -l")
	assert.Equal(t, 0, res.ExitStatus)
	assert.Equal(t, "2\n", string(res.Output))
}

func TestProcess_commandNotFound(t *testing.T) {
	in := newTestSession(t)

	res := mustProcess(t, in, "definitely-not-a-command")
	assert.Equal(t, StatusCommandNotFound, res.ExitStatus)
	assert.Contains(t, string(res.Stderr), "definitely-not-a-command: command not found")
}

func TestProcess_failedStageDoesNotStopSiblings(t *testing.T) {
	in := newTestSession(t)

	res := mustProcess(t, in, "definitely-not-a-command | echo ok")
	assert.Equal(t, StatusCommandNotFound, res.ExitStatus)
	assert.Equal(t, "ok\n", string(res.Output))
	assert.Contains(t, string(res.Stderr), "command not found")
}

func TestProcess_emptyExpansionStageIsNoOp(t *testing.T) {
	in := newTestSession(t)

	res := mustProcess(t, in, "$EMPTY | echo hi")
	assert.Equal(t, 0, res.ExitStatus)
	assert.Equal(t, "hi\n", string(res.Output))
}

func TestProcess_assignmentInPipelineDoesNotMutate(t *testing.T) {
	in := newTestSession(t)

	res := mustProcess(t, in, "X=5 | echo ok")
	assert.Equal(t, 0, res.ExitStatus)
	assert.Equal(t, "ok\n", string(res.Output))

	_, bound := in.Bindings().LookupEnv("X")
	assert.False(t, bound, "assignment must only mutate bindings as a solitary stage")
}

func TestProcess_exit(t *testing.T) {
	t.Run("plain", func(t *testing.T) {
		in := newTestSession(t)
		res := mustProcess(t, in, "exit")
		assert.Equal(t, 0, res.ExitStatus)
		assert.True(t, res.Terminate)
	})

	t.Run("with status", func(t *testing.T) {
		in := newTestSession(t)
		res := mustProcess(t, in, "exit 3")
		assert.Equal(t, 3, res.ExitStatus)
		assert.True(t, res.Terminate)
	})

	t.Run("inside a pipeline", func(t *testing.T) {
		in := newTestSession(t)
		res := mustProcess(t, in, "echo hi | exit")
		assert.True(t, res.Terminate)
		assert.Empty(t, res.Output)
	})

	t.Run("non-numeric argument", func(t *testing.T) {
		in := newTestSession(t)
		res := mustProcess(t, in, "exit nope")
		assert.Equal(t, StatusSyntaxError, res.ExitStatus)
		assert.True(t, res.Terminate)
	})
}

func TestProcess_cd(t *testing.T) {
	in := newTestSession(t)
	require.NoError(t, in.fs.MkdirAll("/home/user/docs", 0755))

	res := mustProcess(t, in, "cd docs")
	assert.Equal(t, 0, res.ExitStatus)

	res = mustProcess(t, in, "pwd")
	assert.Equal(t, "/home/user/docs\n", string(res.Output))

	res = mustProcess(t, in, "cd ..")
	assert.Equal(t, 0, res.ExitStatus)
	assert.Equal(t, "/home/user", in.Workdir())
}

func TestProcess_cdHome(t *testing.T) {
	in := newTestSession(t)
	mustProcess(t, in, "HOME=/home/user")
	mustProcess(t, in, "cd /")

	res := mustProcess(t, in, "cd")
	assert.Equal(t, 0, res.ExitStatus)
	assert.Equal(t, "/home/user", in.Workdir())
}

func TestProcess_cdErrors(t *testing.T) {
	in := newTestSession(t)

	res := mustProcess(t, in, "cd /nope")
	assert.Equal(t, 1, res.ExitStatus)
	assert.Contains(t, string(res.Stderr), "no such file or directory")

	require.NoError(t, afero.WriteFile(in.fs, "/home/user/file.txt", []byte("x"), 0644))
	res = mustProcess(t, in, "cd file.txt")
	assert.Equal(t, 1, res.ExitStatus)
	assert.Contains(t, string(res.Stderr), "not a directory")
}

func TestProcess_parseErrors(t *testing.T) {
	in := newTestSession(t)

	t.Run("unterminated quote", func(t *testing.T) {
		res, err := in.Process(`echo "abc`)
		assert.Nil(t, res, "no partial output on parse errors")

		var unterminated *shell.UnterminatedQuoteError
		require.True(t, errors.As(err, &unterminated), "got %v", err)
		assert.Equal(t, 5, unterminated.Offset)
	})

	t.Run("empty stage", func(t *testing.T) {
		res, err := in.Process("echo a | | echo b")
		assert.Nil(t, res)

		var empty *shell.EmptyPipelineStageError
		require.True(t, errors.As(err, &empty), "got %v", err)
		assert.Equal(t, 1, empty.Stage)
	})

	t.Run("malformed reference", func(t *testing.T) {
		res, err := in.Process("echo ${X")
		assert.Nil(t, res)

		var malformed *shell.MalformedVariableReferenceError
		require.True(t, errors.As(err, &malformed), "got %v", err)
	})
}

func TestProcess_builtinPrecedesExternal(t *testing.T) {
	// Even with a PATH that would resolve /bin/echo, the built-in wins.
	if _, err := os.Stat("/bin/echo"); err != nil {
		t.Skip("/bin/echo not available")
	}

	in := New(
		WithBindings(proc.NewBindingsFromEnviron([]string{"PATH=/bin:/usr/bin"})),
		WithWorkdir("/"),
	)

	res := mustProcess(t, in, "echo -n hi")
	// The built-in honors -n; a spawned /bin/echo would too, but the
	// built-in never forks, so this must succeed even with FS errors.
	assert.Equal(t, 0, res.ExitStatus)
	assert.Equal(t, "hi", string(res.Output))
}

func TestProcess_externalStatusPropagates(t *testing.T) {
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("/bin/sh not available")
	}

	in := New(
		WithBindings(proc.NewBindingsFromEnviron([]string{"PATH=/bin:/usr/bin"})),
		WithWorkdir("/"),
	)

	res := mustProcess(t, in, "sh -c 'exit 2' | cat")
	assert.Equal(t, 2, res.ExitStatus)

	res = mustProcess(t, in, "sh -c 'printf before; exit 2' | cat")
	assert.Equal(t, 2, res.ExitStatus)
	assert.Equal(t, "before", string(res.Output))
}

func TestProcess_externalSeesBindings(t *testing.T) {
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("/bin/sh not available")
	}

	in := New(
		WithBindings(proc.NewBindingsFromEnviron([]string{"PATH=/bin:/usr/bin"})),
		WithWorkdir("/"),
	)
	mustProcess(t, in, "GREETING=hey")

	res := mustProcess(t, in, `sh -c 'printf "$GREETING"'`)
	assert.Equal(t, 0, res.ExitStatus)
	assert.Equal(t, "hey", string(res.Output))
}

func TestProcess_sessionStdin(t *testing.T) {
	in := newTestSession(t, WithStdin(strings.NewReader("from session\n")))

	res := mustProcess(t, in, "cat | wc -w")
	assert.Equal(t, 0, res.ExitStatus)
	assert.Equal(t, "2\n", string(res.Output))
}
