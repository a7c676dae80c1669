// Package proc defines the execution context handed to every command the
// interpreter runs: argv, variable bindings, standard streams, a working
// directory and a filesystem. Built-in commands are plain functions over
// a *Proc so they never fork a process; the same context also carries
// everything needed to spawn an external one.
package proc

import (
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// ProcessFunc is the contract all built-in commands implement. It may
// read all of stdin, write to stdout/stderr and returns the command's
// exit status.
type ProcessFunc func(p *Proc) int

// Attr describes a process context to create. Zero-value fields get
// sensible defaults: a closed stdin, discarded outputs, the host
// filesystem and the host working directory.
type Attr struct {
	// Argv holds the command name followed by its arguments.
	Argv []string
	// Env is the session's variable table, exported to externals.
	Env *Bindings
	// FS is the filesystem commands resolve file operands against.
	FS afero.Fs
	// Dir is the working directory, absolute.
	Dir string
	// Stdin, Stdout and Stderr are the process's standard streams.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	// Interactive reports whether stdout is a terminal; commands use it
	// to decide about color output.
	Interactive bool
}

// Proc is one command invocation's view of the session.
type Proc struct {
	attr Attr
}

// New creates a process context from attr, filling in defaults.
func New(attr Attr) *Proc {
	if attr.Env == nil {
		attr.Env = NewBindings()
	}
	if attr.FS == nil {
		attr.FS = afero.NewOsFs()
	}
	if attr.Dir == "" {
		if wd, err := os.Getwd(); err == nil {
			attr.Dir = wd
		} else {
			attr.Dir = "/"
		}
	}
	if attr.Stdin == nil {
		attr.Stdin = eofReader{}
	}
	if attr.Stdout == nil {
		attr.Stdout = io.Discard
	}
	if attr.Stderr == nil {
		attr.Stderr = io.Discard
	}
	return &Proc{attr: attr}
}

// Args returns the argv, name first.
func (p *Proc) Args() []string { return p.attr.Argv }

// Stdin returns the process's standard input.
func (p *Proc) Stdin() io.Reader { return p.attr.Stdin }

// Stdout returns the process's standard output.
func (p *Proc) Stdout() io.Writer { return p.attr.Stdout }

// Stderr returns the process's error sink.
func (p *Proc) Stderr() io.Writer { return p.attr.Stderr }

// Env returns the session bindings.
func (p *Proc) Env() *Bindings { return p.attr.Env }

// Getenv returns the value bound to key, or the empty string.
func (p *Proc) Getenv(key string) string { return p.attr.Env.Getenv(key) }

// FS returns the filesystem file operands resolve against.
func (p *Proc) FS() afero.Fs { return p.attr.FS }

// Getwd returns the working directory.
func (p *Proc) Getwd() string { return p.attr.Dir }

// Interactive reports whether stdout is a terminal.
func (p *Proc) Interactive() bool { return p.attr.Interactive }

// Resolve turns a file operand into an absolute path against the working
// directory. Absolute operands come back unchanged.
func (p *Proc) Resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(p.attr.Dir, name)
}

// eofReader is an always-empty stdin.
type eofReader struct{}

func (eofReader) Read([]byte) (int, error) { return 0, io.EOF }
