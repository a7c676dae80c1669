// Package commands holds the interpreter's built-in commands. Each is a
// plain function over a process context and never forks.
package commands

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
	getopt "github.com/pborman/getopt/v2"

	"github.com/maximumSHOT-HSE/gobash/core/proc"
)

// AllCommands holds every registered built-in keyed by name.
var AllCommands = make(map[string]proc.ProcessFunc)

// mustAddCmd registers a built-in, panicking on duplicate names.
func mustAddCmd(name string, cmd proc.ProcessFunc) {
	if _, ok := AllCommands[name]; ok {
		panic(fmt.Sprintf("duplicate builtin: %q", name))
	}
	AllCommands[name] = cmd
}

// Names returns the registered built-in names, sorted.
func Names() []string {
	out := make([]string, 0, len(AllCommands))
	for name := range AllCommands {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// SimpleCommand reduces the boilerplate of a built-in: getopt flag
// parsing, --help handling and usage output.
type SimpleCommand struct {
	// Use holds a one line usage string.
	Use string
	// Short holds a one line description of the command.
	Short string
	// ShowHelp sets whether help is displayed or not. If this is
	// non-nil when Run() is called, the default help flag isn't added.
	ShowHelp *bool

	flags *getopt.Set
}

// Flags gets the command's flag set.
func (s *SimpleCommand) Flags() *getopt.Set {
	if s.flags == nil {
		s.flags = getopt.New()
	}
	return s.flags
}

// PrintHelp writes help for the command to the given writer.
func (s *SimpleCommand) PrintHelp(w io.Writer) {
	fmt.Fprint(w, "usage: ")
	fmt.Fprintln(w, s.Use)
	fmt.Fprintln(w, s.Short)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	s.Flags().PrintOptions(w)
}

// Run parses flags and, if parsing succeeded, calls the callback.
func (s *SimpleCommand) Run(p *proc.Proc, callback func() int) int {
	opts := s.Flags()

	if s.ShowHelp == nil {
		s.ShowHelp = opts.BoolLong("help", 'h', "show this help and exit")
	}

	if err := opts.Getopt(p.Args(), nil); err != nil {
		fmt.Fprintf(p.Stderr(), "error: %s\n\n", err)
		s.PrintHelp(p.Stderr())
		return 1
	}

	if *s.ShowHelp {
		s.PrintHelp(p.Stdout())
		return 0
	}

	return callback()
}

// RunE is Run for callbacks that report failure as an error. The error
// is printed to stderr prefixed with the command name and turned into
// exit status 1.
func (s *SimpleCommand) RunE(p *proc.Proc, callback func() error) int {
	return s.Run(p, func() int {
		if err := callback(); err != nil {
			fmt.Fprintf(p.Stderr(), "%s: %v\n", p.Args()[0], err)
			return 1
		}
		return 0
	})
}

// RunEachFileOrStdin invokes the callback once per file operand, or once
// with stdin when there are no operands. The reported name for stdin is
// empty.
func RunEachFileOrStdin(p *proc.Proc, files []string, callback func(name string, fd io.Reader) error) error {
	if len(files) == 0 {
		return callback("", p.Stdin())
	}

	for _, name := range files {
		fd, err := p.FS().Open(p.Resolve(name))
		if err != nil {
			return err
		}
		if err := callback(name, fd); err != nil {
			fd.Close()
			return err
		}
		fd.Close()
	}
	return nil
}

const (
	colorAlways = "always"
	colorAuto   = "auto"
	colorNever  = "never"
)

var (
	ColorBoldBlue = color.New(color.FgBlue, color.Bold)
	ColorBoldRed  = color.New(color.FgRed, color.Bold)
)

// ColorPrinter decides whether a command's output is colorized, based on
// a --color flag and whether stdout is a terminal.
type ColorPrinter struct {
	value *string
	p     *proc.Proc
}

// Init sets up the flag and process context used to determine coloring.
func (c *ColorPrinter) Init(flags *getopt.Set, p *proc.Proc) {
	c.p = p
	c.value = flags.EnumLong(
		"color",
		rune(0), // No short flag.
		[]string{colorAlways, colorAuto, colorNever},
		colorAuto,
		"colorize the output (always|auto|never)")
}

func (c *ColorPrinter) ShouldColor() bool {
	switch {
	case *c.value == colorNever:
		return false
	case *c.value == colorAlways:
		return true
	default:
		return c.p.Interactive()
	}
}

// Sprintf formats with the given color when coloring is on, plainly
// otherwise.
func (c *ColorPrinter) Sprintf(col *color.Color, format string, a ...interface{}) string {
	if c.ShouldColor() {
		return col.Sprintf(format, a...)
	}
	return fmt.Sprintf(format, a...)
}
