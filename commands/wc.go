package commands

import (
	"fmt"
	"io"
	"unicode"

	"github.com/maximumSHOT-HSE/gobash/core/proc"
)

// counts accumulates newline, word and byte totals as bytes stream
// through it.
type counts struct {
	lines int
	words int
	bytes int
	name  string

	inSpace bool
}

func (c *counts) Write(data []byte) (int, error) {
	for _, b := range data {
		isFirstByte := c.bytes == 0
		c.bytes++

		if b == '\n' {
			c.lines++
		}

		if unicode.IsSpace(rune(b)) {
			c.inSpace = true
		} else {
			if c.inSpace || isFirstByte {
				c.words++
			}
			c.inSpace = false
		}
	}

	return len(data), nil
}

func (c *counts) add(other *counts) {
	c.lines += other.lines
	c.words += other.words
	c.bytes += other.bytes
}

// Wc writes the number of newlines, words and bytes in each input file,
// or in stdin when no files are named, plus a total line for multiple
// files.
func Wc(p *proc.Proc) int {
	cmd := &SimpleCommand{
		Use:   "wc [-lwc] [FILE]...",
		Short: "Write newline, word and byte counts for each FILE or standard input.",
	}

	opts := cmd.Flags()
	showLines := opts.Bool('l', "write the number of newlines")
	showWords := opts.Bool('w', "write the number of words")
	showBytes := opts.Bool('c', "write the number of bytes")

	return cmd.RunE(p, func() error {
		nonePicked := !*showLines && !*showWords && !*showBytes

		display := func(c *counts) {
			first := true
			field := func(n int) {
				if !first {
					fmt.Fprint(p.Stdout(), " ")
				}
				fmt.Fprint(p.Stdout(), n)
				first = false
			}
			if *showLines || nonePicked {
				field(c.lines)
			}
			if *showWords || nonePicked {
				field(c.words)
			}
			if *showBytes || nonePicked {
				field(c.bytes)
			}
			if c.name != "" {
				fmt.Fprintf(p.Stdout(), " %s", c.name)
			}
			fmt.Fprintln(p.Stdout())
		}

		files := opts.Args()
		total := &counts{name: "total"}
		seen := 0
		err := RunEachFileOrStdin(p, files, func(name string, fd io.Reader) error {
			c := &counts{name: name}
			if _, err := io.Copy(c, fd); err != nil {
				return err
			}
			total.add(c)
			seen++
			display(c)
			return nil
		})
		if err != nil {
			return err
		}

		if seen > 1 {
			display(total)
		}
		return nil
	})
}

var _ proc.ProcessFunc = Wc

func init() {
	mustAddCmd("wc", Wc)
}
