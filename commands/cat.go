package commands

import (
	"io"

	"github.com/maximumSHOT-HSE/gobash/core/proc"
)

// Cat copies the named files, or stdin when no files are named, to
// stdout.
func Cat(p *proc.Proc) int {
	cmd := &SimpleCommand{
		Use:   "cat [FILE]...",
		Short: "Concatenate FILE(s), or standard input, to standard output.",
	}

	return cmd.RunE(p, func() error {
		return RunEachFileOrStdin(p, cmd.Flags().Args(), func(name string, fd io.Reader) error {
			_, err := io.Copy(p.Stdout(), fd)
			return err
		})
	})
}

var _ proc.ProcessFunc = Cat

func init() {
	mustAddCmd("cat", Cat)
}
