package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// cli holds the streams and global flags shared by every command.
type cli struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	logLevel string
	noColor  bool

	logger  *slog.Logger
	palette palette
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:   "bisaya",
		Short: "Bisaya++ interpreter",
		Long: `bisaya runs Bisaya++ programs.

Commands:
  run     Execute a program
  check   Scan and parse without running
  tokens  Show the token stream of a program
  ast     Show the parsed syntax tree
  test    Run exec fixtures
  fetch   Fetch exercise sets listed in bisaya.yml
`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup()
		},
	}
	root.SetIn(c.stdin)
	root.SetOut(c.stdout)
	root.SetErr(c.stderr)

	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&c.noColor, "no-color", false, "disable colored diagnostics")

	root.AddCommand(
		newRunCmd(c),
		newCheckCmd(c),
		newTokensCmd(c),
		newASTCmd(c),
		newTestCmd(c),
		newFetchCmd(c),
		newVersionCmd(c),
	)
	return root
}

func (c *cli) setup() error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.logLevel)); err != nil {
		return fmt.Errorf("invalid --log-level %q", c.logLevel)
	}
	c.logger = slog.New(slog.NewTextHandler(c.stderr, &slog.HandlerOptions{Level: level}))
	c.palette = newPalette(!c.noColor && isTerminal(c.stderr))
	return nil
}

func newVersionCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the tool version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(c.stdout, cliToolVersion)
		},
	}
}

type palette struct {
	err  func(a ...interface{}) string
	ok   func(a ...interface{}) string
	warn func(a ...interface{}) string
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) func(a ...interface{}) string {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c.SprintFunc()
	}
	return palette{
		err:  mk(color.FgRed, color.Bold),
		ok:   mk(color.FgGreen),
		warn: mk(color.FgYellow),
	}
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
