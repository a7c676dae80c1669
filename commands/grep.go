package commands

import (
	"bufio"
	"fmt"
	"io"
	"regexp"

	"github.com/maximumSHOT-HSE/gobash/core/proc"
)

// Grep searches the named files, or stdin, for lines matching a pattern.
//
// Supports -i (ignore case), -w (whole words), -n (line numbers) and
// -A NUM trailing context with "--" separators between non-adjacent
// groups. When more than one file is searched each line is prefixed with
// its file name, ':' for matches and '-' for context lines.
func Grep(p *proc.Proc) int {
	cmd := &SimpleCommand{
		Use:   "grep [-inw] [-A NUM] PATTERN [FILE]...",
		Short: "Search files for text matching a pattern.",
	}

	opts := cmd.Flags()
	ignoreCase := opts.BoolLong("ignore-case", 'i', "perform pattern matching without regard to case")
	wordRegexp := opts.BoolLong("word-regexp", 'w', "select only matches that form whole words")
	showLineNumbers := opts.BoolLong("line-number", 'n', "prefix each line with its line number")
	afterContext := opts.IntLong("after-context", 'A', 0, "print NUM lines of trailing context after matching lines")
	var printer ColorPrinter
	printer.Init(opts, p)

	return cmd.Run(p, func() int {
		args := opts.Args()
		if len(args) == 0 {
			fmt.Fprintln(p.Stderr(), "grep: missing argument PATTERN")
			return 2
		}
		if *afterContext < 0 {
			fmt.Fprintf(p.Stderr(), "grep: %d: invalid context length argument\n", *afterContext)
			return 2
		}

		pattern := args[0]
		if *wordRegexp {
			pattern = `\b(?:` + pattern + `)\b`
		}
		if *ignoreCase {
			pattern = "(?i)" + pattern
		}
		regex, err := regexp.Compile(pattern)
		if err != nil {
			fmt.Fprintf(p.Stderr(), "grep: %v\n", err)
			return 2
		}

		files := args[1:]
		showFileName := len(files) > 1

		w := p.Stdout()
		matched := false
		lastFile := ""
		lastLine := -1
		printedAny := false

		emit := func(name string, lineNo int, line string, isMatch bool) {
			if *afterContext > 0 && printedAny &&
				(name != lastFile || lastLine+1 < lineNo) {
				fmt.Fprintln(w, "--")
			}

			divider := ":"
			if !isMatch {
				divider = "-"
			}
			if showFileName {
				fmt.Fprintf(w, "%s%s", name, divider)
			}
			if *showLineNumbers {
				fmt.Fprintf(w, "%d%s", lineNo, divider)
			}
			fmt.Fprintln(w, line)

			lastFile, lastLine = name, lineNo
			printedAny = true
		}

		err = RunEachFileOrStdin(p, files, func(name string, fd io.Reader) error {
			scanner := bufio.NewScanner(fd)
			lineNo := 1
			remaining := 0
			for scanner.Scan() {
				line := scanner.Text()
				switch {
				case regex.MatchString(line):
					matched = true
					remaining = *afterContext
					if printer.ShouldColor() {
						line = regex.ReplaceAllStringFunc(line, func(m string) string {
							return ColorBoldRed.Sprint(m)
						})
					}
					emit(name, lineNo, line, true)
				case remaining > 0:
					remaining--
					emit(name, lineNo, line, false)
				}
				lineNo++
			}
			return scanner.Err()
		})
		if err != nil {
			fmt.Fprintf(p.Stderr(), "grep: %v\n", err)
			return 2
		}

		if !matched {
			return 1
		}
		return 0
	})
}

var _ proc.ProcessFunc = Grep

func init() {
	mustAddCmd("grep", Grep)
}
