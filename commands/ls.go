package commands

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/afero"

	"github.com/maximumSHOT-HSE/gobash/core/proc"
)

// Ls lists the contents of the named directories, or the working
// directory when none are named.
func Ls(p *proc.Proc) int {
	cmd := &SimpleCommand{
		Use:   "ls [-al] [DIR]...",
		Short: "List directory contents.",
	}

	opts := cmd.Flags()
	showAll := opts.Bool('a', "do not ignore entries starting with .")
	long := opts.Bool('l', "use a long listing format")
	var printer ColorPrinter
	printer.Init(opts, p)

	return cmd.RunE(p, func() error {
		dirs := opts.Args()
		if len(dirs) == 0 {
			dirs = []string{"."}
		}
		showDirName := len(dirs) > 1

		for i, dir := range dirs {
			infos, err := afero.ReadDir(p.FS(), p.Resolve(dir))
			if err != nil {
				return err
			}
			sort.Slice(infos, func(i, j int) bool { return infos[i].Name() < infos[j].Name() })

			if showDirName {
				if i > 0 {
					fmt.Fprintln(p.Stdout())
				}
				fmt.Fprintf(p.Stdout(), "%s:\n", dir)
			}

			if *long {
				tw := tabwriter.NewWriter(p.Stdout(), 8, 8, 4, ' ', 0)
				for _, f := range infos {
					if skipEntry(f, *showAll) {
						continue
					}
					fmt.Fprintf(tw, "%s\t%d\t%s\n", f.Mode().String(), f.Size(), displayName(&printer, f))
				}
				tw.Flush()
				continue
			}

			for _, f := range infos {
				if skipEntry(f, *showAll) {
					continue
				}
				fmt.Fprintln(p.Stdout(), displayName(&printer, f))
			}
		}
		return nil
	})
}

func skipEntry(f os.FileInfo, showAll bool) bool {
	return !showAll && strings.HasPrefix(f.Name(), ".")
}

func displayName(printer *ColorPrinter, f os.FileInfo) string {
	if f.IsDir() {
		return printer.Sprintf(ColorBoldBlue, "%s", f.Name())
	}
	return f.Name()
}

var _ proc.ProcessFunc = Ls

func init() {
	mustAddCmd("ls", Ls)
}
