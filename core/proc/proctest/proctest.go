// Package proctest runs built-in commands against a deterministic
// in-memory context, in the manner of os/exec.
package proctest

import (
	"bytes"
	"io"

	"github.com/spf13/afero"

	"github.com/maximumSHOT-HSE/gobash/core/proc"
)

// Cmd is similar to exec.Cmd for a built-in command.
type Cmd struct {
	// Process function under test.
	Process proc.ProcessFunc
	// Process arguments, the first argument should be the process name.
	Argv []string
	// Dir is the working directory, "/" if empty.
	Dir string
	// Env holds the variable bindings, empty if nil.
	Env *proc.Bindings
	// FS is the filesystem, in-memory by default; seed it with
	// afero.WriteFile before running.
	FS afero.Fs

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// ExitStatus holds the command's status after Run.
	ExitStatus int
}

// Command creates a Cmd over an empty in-memory filesystem.
func Command(process proc.ProcessFunc, name string, arg ...string) *Cmd {
	return &Cmd{
		Process: process,
		Argv:    append([]string{name}, arg...),
		FS:      afero.NewMemMapFs(),
	}
}

// CombinedOutput runs the command and returns its stdout and stderr
// interleaved.
func (c *Cmd) CombinedOutput() ([]byte, error) {
	buf := &bytes.Buffer{}
	c.Stdout = buf
	c.Stderr = buf

	if err := c.Run(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Run invokes the command and records its exit status.
func (c *Cmd) Run() error {
	dir := c.Dir
	if dir == "" {
		dir = "/"
	}

	p := proc.New(proc.Attr{
		Argv:   c.Argv,
		Env:    c.Env,
		FS:     c.FS,
		Dir:    dir,
		Stdin:  c.Stdin,
		Stdout: c.Stdout,
		Stderr: c.Stderr,
	})

	c.ExitStatus = c.Process(p)
	return nil
}
