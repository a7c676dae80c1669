package commands

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maximumSHOT-HSE/gobash/core/proc/proctest"
)

func TestGrep(t *testing.T) {
	cases := goldenTestSuite{
		"match":       {Args: []string{"grep", "o"}, Stdin: "foo\nbar\nbob\n"},
		"ignore-case": {Args: []string{"grep", "-i", "HELLO"}, Stdin: "hello\nworld\nHelLo\n"},
		"word":        {Args: []string{"grep", "-w", "cat"}, Stdin: "cat\nconcat\ncat food\n"},
		"after-context": {
			Args:  []string{"grep", "-A", "1", "x"},
			Stdin: "x1\na\nb\nx2\nc\nd\nx3\n",
		},
		"multi-file": {
			Args: []string{"grep", "-A", "1", "b", "/f1.txt", "/f2.txt"},
			Files: map[string]string{
				"/f1.txt": "a\nb\nc\n",
				"/f2.txt": "b\nz\n",
			},
		},
	}

	cases.Run(t, Grep)
}

func TestGrep_lineNumbers(t *testing.T) {
	cmd := proctest.Command(Grep, "grep", "-n", "o")
	cmd.Stdin = strings.NewReader("foo\nbar\nbob\n")

	out, err := cmd.CombinedOutput()
	require.NoError(t, err)
	assert.Equal(t, 0, cmd.ExitStatus)
	assert.Equal(t, "1:foo\n3:bob\n", string(out))
}

func TestGrep_statuses(t *testing.T) {
	cases := []struct {
		name   string
		args   []string
		stdin  string
		status int
	}{
		{name: "match", args: []string{"grep", "a"}, stdin: "abc\n", status: 0},
		{name: "no match", args: []string{"grep", "z"}, stdin: "abc\n", status: 1},
		{name: "missing pattern", args: []string{"grep"}, status: 2},
		{name: "bad pattern", args: []string{"grep", "(unclosed"}, stdin: "x\n", status: 2},
		{name: "negative context", args: []string{"grep", "-A-3", "a"}, stdin: "a\n", status: 2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cmd := proctest.Command(Grep, tc.args[0], tc.args[1:]...)
			cmd.Stdin = strings.NewReader(tc.stdin)

			_, err := cmd.CombinedOutput()
			require.NoError(t, err)
			assert.Equal(t, tc.status, cmd.ExitStatus)
		})
	}
}
