// Package cmd wires the interpreter to the terminal: the cobra CLI, the
// readline loop and result printing.
package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/abiosoft/readline"
	"github.com/mattn/go-isatty"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/maximumSHOT-HSE/gobash/core/config"
	"github.com/maximumSHOT-HSE/gobash/core/interp"
	"github.com/maximumSHOT-HSE/gobash/core/proc"
	"github.com/maximumSHOT-HSE/gobash/core/shell"
)

var (
	cfgPath     string
	commandLine string
)

func loadConfig() (*config.Configuration, error) {
	return config.Load(afero.NewOsFs(), cfgPath)
}

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "gobash",
	Short: "A pipeline shell interpreter",
	Long: `An interactive command interpreter: pipelines, quoting, variable
expansion, a handful of built-in commands and external process execution.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		interactive := isatty.IsTerminal(os.Stdout.Fd())
		useColor := cfg.Color == "always" || (cfg.Color == "auto" && interactive)

		opts := []interp.Option{
			interp.WithBindings(sessionBindings(cfg)),
			interp.WithInteractive(useColor),
		}

		if commandLine != "" {
			// One-shot mode inherits the process's stdin so the command
			// line can sit inside a larger pipeline.
			session := interp.New(append(opts, interp.WithStdin(os.Stdin))...)
			os.Exit(runLine(session, commandLine))
		}

		return runLoop(interp.New(opts...), cfg)
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", ".", "config path")
	rootCmd.Flags().StringVarP(&commandLine, "command", "c", "", "run a single command line and exit")
}

// runLine processes one line, prints its output and returns the status.
func runLine(session *interp.Interpreter, line string) int {
	res, err := session.Process(line)
	if err != nil {
		fmt.Fprintf(os.Stderr, "gobash: %v\n", err)
		return interp.StatusSyntaxError
	}
	os.Stdout.Write(res.Output)
	os.Stderr.Write(res.Stderr)
	return res.ExitStatus
}

// lineReader is the part of readline.Instance the loop needs.
type lineReader interface {
	SetPrompt(prompt string)
	Readline() (string, error)
}

// runLoop reads lines until EOF or an exit command, prompting for
// continuations while quotes are unbalanced or the line ends with a
// pipe.
func runLoop(session *interp.Interpreter, cfg *config.Configuration) error {
	rl, err := readline.New(cfg.Prompt)
	if err != nil {
		return err
	}

	if cfg.Motd != "" {
		fmt.Println(cfg.Motd)
	}

	status := repl(session, cfg, rl, os.Stdout, os.Stderr)
	rl.Close()
	os.Exit(status)
	return nil
}

// repl processes commands from rl until end of input or an exit
// command and returns the session's final status. End of input is a
// normal termination and yields 0 no matter how the last pipeline
// fared; an explicit exit carries its own status.
func repl(session *interp.Interpreter, cfg *config.Configuration, rl lineReader, stdout, stderr io.Writer) int {
	for {
		line, err := readCommand(rl, cfg)
		switch {
		case err == io.EOF:
			return 0
		case err == readline.ErrInterrupt:
			continue
		case err != nil:
			log.Printf("error reading input: %v", err)
			continue
		case strings.TrimSpace(line) == "":
			continue
		}

		res, perr := session.Process(line)
		if perr != nil {
			fmt.Fprintf(stderr, "gobash: %v\n", perr)
			continue
		}
		stdout.Write(res.Output)
		stderr.Write(res.Stderr)
		if res.Terminate {
			return res.ExitStatus
		}
	}
}

// readCommand reads one logical command, possibly spanning several
// physical lines.
func readCommand(rl lineReader, cfg *config.Configuration) (string, error) {
	rl.SetPrompt(cfg.Prompt)
	line, err := rl.Readline()
	if err != nil {
		return "", err
	}

	for !shell.QuotesBalanced(line) || shell.EndsWithPipe(line) {
		rl.SetPrompt(cfg.ContinuationPrompt)
		next, err := rl.Readline()
		if err != nil {
			return "", err
		}
		line += "\n" + next
	}
	return line, nil
}

// sessionBindings seeds the variable table from the host environment and
// layers config-supplied extras on top.
func sessionBindings(cfg *config.Configuration) *proc.Bindings {
	bindings := proc.NewBindingsFromEnviron(os.Environ())
	for k, v := range cfg.Env {
		bindings.Setenv(k, v)
	}
	return bindings
}
