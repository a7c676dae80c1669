package commands

import (
	"fmt"

	"github.com/maximumSHOT-HSE/gobash/core/proc"
)

// Env prints the session's variable bindings, one KEY=VALUE per line,
// sorted by key.
func Env(p *proc.Proc) int {
	cmd := &SimpleCommand{
		Use:   "env",
		Short: "Print the current variable bindings.",
	}

	return cmd.Run(p, func() int {
		for _, e := range p.Env().Environ() {
			fmt.Fprintln(p.Stdout(), e)
		}
		return 0
	})
}

var _ proc.ProcessFunc = Env

func init() {
	mustAddCmd("env", Env)
}
