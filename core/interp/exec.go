package interp

import (
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/maximumSHOT-HSE/gobash/core/proc"
)

// ErrNotFound is the error resulting if a path search failed to find an
// executable file.
var ErrNotFound = exec.ErrNotFound

func findExecutable(fsys afero.Fs, file string) error {
	d, err := fsys.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0111 != 0 {
		return nil
	}
	return fs.ErrPermission
}

// LookPath searches for an executable named file in the directories named
// by pathEnv. If file contains a slash, it is tried directly and the path
// list is not consulted. The result may be an absolute path or a path
// relative to the current directory.
func LookPath(fsys afero.Fs, pathEnv, file string) (string, error) {
	if strings.Contains(file, "/") {
		err := findExecutable(fsys, file)
		if err == nil {
			return file, nil
		}
		return "", err
	}
	for _, dir := range filepath.SplitList(pathEnv) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		path := filepath.Join(dir, file)
		if err := findExecutable(fsys, path); err == nil {
			return path, nil
		}
	}
	return "", ErrNotFound
}

// runExternal resolves and spawns an external command with the process
// context's streams, bindings and working directory. The returned status
// is the child's exit code, or 126/127 when resolution fails.
func (in *Interpreter) runExternal(p *proc.Proc) int {
	argv := p.Args()

	// Slash-containing names resolve against the stage's working
	// directory, not the host process's.
	name := argv[0]
	if strings.Contains(name, "/") {
		name = p.Resolve(name)
	}

	path, err := LookPath(in.fs, p.Getenv("PATH"), name)
	switch {
	case errors.Is(err, fs.ErrPermission):
		fmt.Fprintf(p.Stderr(), "gobash: %s: permission denied\n", argv[0])
		return StatusCommandNotExecutable
	case err != nil:
		fmt.Fprintf(p.Stderr(), "gobash: %v\n", &CommandNotFoundError{Name: argv[0]})
		return StatusCommandNotFound
	}

	// exec resolves a relative Path against the parent's directory, not
	// cmd.Dir, so anchor it to the stage's working directory here.
	if !filepath.IsAbs(path) {
		path = filepath.Join(p.Getwd(), path)
	}

	cmd := &exec.Cmd{
		Path:   path,
		Args:   argv,
		Dir:    p.Getwd(),
		Env:    p.Env().Environ(),
		Stdin:  p.Stdin(),
		Stdout: p.Stdout(),
		Stderr: p.Stderr(),
	}

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode()
		}
		fmt.Fprintf(p.Stderr(), "gobash: %s: %v\n", argv[0], err)
		return StatusCommandNotExecutable
	}
	return 0
}
