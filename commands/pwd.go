package commands

import (
	"flag"
	"fmt"

	"github.com/maximumSHOT-HSE/gobash/core/proc"
)

// Pwd prints the session's working directory.
func Pwd(p *proc.Proc) int {
	flags := flag.NewFlagSet("pwd", flag.ContinueOnError)
	flags.SetOutput(p.Stderr())
	if err := flags.Parse(p.Args()[1:]); err != nil {
		fmt.Fprintln(p.Stderr(), "Usage: pwd")
		fmt.Fprintln(p.Stderr(), "Print the name of the current working directory.")
		return 1
	}

	fmt.Fprintln(p.Stdout(), p.Getwd())

	return 0
}

var _ proc.ProcessFunc = Pwd

func init() {
	mustAddCmd("pwd", Pwd)
}
