// Package interp orchestrates one input line at a time: it splits the
// line into pipeline stages, expands each against the session bindings,
// dispatches every stage to a built-in or an external process, wires
// adjacent stages together with pipes and aggregates the final status.
package interp

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/spf13/afero"

	"github.com/maximumSHOT-HSE/gobash/commands"
	"github.com/maximumSHOT-HSE/gobash/core/proc"
	"github.com/maximumSHOT-HSE/gobash/core/shell"
)

// Result is the outcome of processing one input line.
type Result struct {
	// ExitStatus is the pipeline's status: the status of the rightmost
	// stage that failed, or 0 when every stage succeeded.
	ExitStatus int
	// Output is what the last stage wrote to its stdout.
	Output []byte
	// Stderr collects the error messages of all stages.
	Stderr []byte
	// Terminate reports that an exit command ran; the caller should end
	// the session after printing the result.
	Terminate bool
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithBindings replaces the session's variable table. The default is
// seeded from the host environment.
func WithBindings(b *proc.Bindings) Option {
	return func(in *Interpreter) { in.bindings = b }
}

// WithFS sets the filesystem built-in commands resolve files against.
func WithFS(fsys afero.Fs) Option {
	return func(in *Interpreter) { in.fs = fsys }
}

// WithStdin sets the reader the first pipeline stage consumes. The
// default is an empty stream.
func WithStdin(r io.Reader) Option {
	return func(in *Interpreter) { in.stdin = r }
}

// WithWorkdir sets the initial working directory.
func WithWorkdir(dir string) Option {
	return func(in *Interpreter) { in.cwd = dir }
}

// WithInteractive marks the session's stdout as a terminal; commands use
// it to decide about color output.
func WithInteractive(interactive bool) Option {
	return func(in *Interpreter) { in.interactive = interactive }
}

// Interpreter holds one session's state: variable bindings, the working
// directory and the built-in command table.
type Interpreter struct {
	bindings    *proc.Bindings
	fs          afero.Fs
	stdin       io.Reader
	builtins    map[string]proc.ProcessFunc
	session     map[string]proc.ProcessFunc
	interactive bool

	mu  sync.Mutex // guards cwd
	cwd string

	terminating int32 // atomic
}

// New creates a session. Bindings are seeded once from the host
// environment; later host environment changes are not observed.
func New(opts ...Option) *Interpreter {
	in := &Interpreter{
		bindings: proc.NewBindingsFromEnviron(os.Environ()),
		fs:       afero.NewOsFs(),
		builtins: commands.AllCommands,
	}
	for _, opt := range opts {
		opt(in)
	}
	if in.cwd == "" {
		if wd, err := os.Getwd(); err == nil {
			in.cwd = wd
		} else {
			in.cwd = "/"
		}
	}
	in.session = map[string]proc.ProcessFunc{
		"exit": in.builtinExit,
		"cd":   in.builtinCd,
	}
	return in
}

// Bindings returns the session's variable table.
func (in *Interpreter) Bindings() *proc.Bindings {
	return in.bindings
}

// Workdir returns the session's working directory.
func (in *Interpreter) Workdir() string {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.cwd
}

func (in *Interpreter) setWorkdir(dir string) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.cwd = dir
}

// Process runs one input line to completion and returns the aggregated
// result. Parse failures return a typed error (UnterminatedQuoteError,
// EmptyPipelineStageError, MalformedVariableReferenceError) and run
// nothing; execution failures are folded into the Result. A blank line
// is a successful no-op.
func (in *Interpreter) Process(line string) (*Result, error) {
	stages, err := shell.Split(line)
	if err != nil {
		return nil, err
	}
	if len(stages) == 0 {
		return &Result{}, nil
	}

	expanded := make([]*shell.Expanded, len(stages))
	for i, stage := range stages {
		ex, err := shell.Expand(stage, in.bindings)
		if err != nil {
			return nil, err
		}
		expanded[i] = ex
	}

	// A solitary assignment is the only mutator of the bindings; no
	// other stage runs concurrently with it.
	if len(expanded) == 1 && expanded[0].Assign != nil {
		a := expanded[0].Assign
		in.bindings.Setenv(a.Name, a.Value)
		return &Result{}, nil
	}

	return in.runPipeline(expanded), nil
}

// runPipeline runs every stage concurrently, adjacent stages connected
// by pipes, and blocks until all of them finish.
func (in *Interpreter) runPipeline(stages []*shell.Expanded) *Result {
	n := len(stages)
	var output bytes.Buffer
	errSink := &syncWriter{}

	// pipes[i] connects stage i's stdout to stage i+1's stdin.
	type pipe struct {
		r *io.PipeReader
		w *io.PipeWriter
	}
	pipes := make([]pipe, n-1)
	for i := range pipes {
		pipes[i].r, pipes[i].w = io.Pipe()
	}

	statuses := make([]int, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := range stages {
		var stdin io.Reader = in.stdin
		if i > 0 {
			stdin = pipes[i-1].r
		}
		var stdout io.Writer = &output
		if i < n-1 {
			stdout = pipes[i].w
		}

		go func(i int, stdin io.Reader, stdout io.Writer) {
			defer wg.Done()
			statuses[i] = in.runStage(stages[i], stdin, stdout, errSink, i == n-1)

			// Closing the output pipe signals end of input downstream;
			// closing the input pipe unblocks an upstream stage still
			// writing after this one has exited.
			if i < n-1 {
				pipes[i].w.Close()
			}
			if i > 0 {
				pipes[i-1].r.Close()
			}
		}(i, stdin, stdout)
	}
	wg.Wait()

	res := &Result{
		Output:    output.Bytes(),
		Stderr:    errSink.Bytes(),
		Terminate: atomic.LoadInt32(&in.terminating) != 0,
	}
	for _, status := range statuses {
		if status != 0 {
			res.ExitStatus = status
		}
	}
	return res
}

// runStage dispatches one expanded stage: no-op, session built-in,
// registered built-in, or external process.
func (in *Interpreter) runStage(ex *shell.Expanded, stdin io.Reader, stdout io.Writer, stderr io.Writer, last bool) int {
	if len(ex.Args) == 0 || ex.Assign != nil {
		// An empty expansion and an assignment inside a multi-stage
		// pipeline are both no-ops; assignments mutate bindings only
		// when solitary.
		return 0
	}

	p := proc.New(proc.Attr{
		Argv:        ex.Args,
		Env:         in.bindings,
		FS:          in.fs,
		Dir:         in.Workdir(),
		Stdin:       stdin,
		Stdout:      stdout,
		Stderr:      stderr,
		Interactive: in.interactive && last,
	})

	name := ex.Args[0]
	if fn, ok := in.session[name]; ok {
		return fn(p)
	}
	if fn, ok := in.builtins[name]; ok {
		return fn(p)
	}
	return in.runExternal(p)
}

// builtinExit flags the session for termination once the current
// pipeline drains. An optional numeric argument becomes the status.
func (in *Interpreter) builtinExit(p *proc.Proc) int {
	atomic.StoreInt32(&in.terminating, 1)

	args := p.Args()
	switch len(args) {
	case 1:
		return 0
	case 2:
		status, err := strconv.Atoi(args[1])
		if err != nil {
			fmt.Fprintf(p.Stderr(), "exit: %s: numeric argument required\n", args[1])
			return StatusSyntaxError
		}
		return status
	default:
		fmt.Fprintln(p.Stderr(), "exit: too many arguments")
		return 1
	}
}

// builtinCd changes the session's working directory. The host process
// never chdirs; externals receive the directory via their Dir attribute.
func (in *Interpreter) builtinCd(p *proc.Proc) int {
	args := p.Args()
	var target string
	switch len(args) {
	case 1:
		target = p.Getenv("HOME")
		if target == "" {
			fmt.Fprintln(p.Stderr(), "cd: HOME not set")
			return 1
		}
	case 2:
		target = args[1]
	default:
		fmt.Fprintln(p.Stderr(), "cd: too many arguments")
		return 1
	}

	dir := filepath.Clean(p.Resolve(target))
	info, err := in.fs.Stat(dir)
	switch {
	case err != nil:
		fmt.Fprintf(p.Stderr(), "cd: %s: no such file or directory\n", target)
		return 1
	case !info.IsDir():
		fmt.Fprintf(p.Stderr(), "cd: %s: not a directory\n", target)
		return 1
	}

	in.setWorkdir(dir)
	return 0
}

// syncWriter is a concurrency-safe byte buffer; every stage of a
// pipeline shares one as its error sink.
type syncWriter struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (w *syncWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Write(p)
}

func (w *syncWriter) Bytes() []byte {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Bytes()
}
