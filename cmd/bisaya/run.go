package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chrlskrt/bisayaplusplus/pkg/driver"
	"github.com/chrlskrt/bisayaplusplus/pkg/interpreter"
)

type runOptions struct {
	quiet     bool
	inputPath string
	echo      bool
}

func newRunCmd(c *cli) *cobra.Command {
	var opts runOptions
	cmd := &cobra.Command{
		Use:   "run [file]",
		Short: "Execute a program (the manifest entry when no file is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runProgram(cmd.Context(), args, opts)
		},
	}
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "do not print the finish status")
	cmd.Flags().StringVarP(&opts.inputPath, "input", "i", "", "read DAWAT lines from this file")
	cmd.Flags().BoolVar(&opts.echo, "echo", false, "echo consumed input lines to stdout")
	return cmd
}

func (c *cli) runProgram(ctx context.Context, args []string, opts runOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	src, err := c.loadProgramSource(args)
	if err != nil {
		return err
	}
	prog, err := driver.Compile(src)
	if err != nil {
		return c.reportError(err)
	}

	prompt := driver.DefaultPrompt
	if manifest, err := findManifest(); err == nil && manifest != nil {
		prompt = manifest.Run.Prompt
		opts.echo = opts.echo || manifest.Run.EchoInput
	}
	input, closeInput, err := c.inputFor(opts.inputPath, prompt, opts.echo)
	if err != nil {
		return err
	}
	defer closeInput()

	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)
	defer signal.Stop(interrupts)

	stopped, err := c.host(ctx, prog, input, interrupts)
	if stopped {
		fmt.Fprintln(c.stderr, c.palette.warn("Execution stopped."))
		return exitError{code: 130}
	}
	if err != nil {
		return c.reportError(err)
	}
	if !opts.quiet {
		fmt.Fprintln(c.stderr, c.palette.ok("Program finished"))
	}
	return nil
}

// host drives a session: it forwards printed fragments to stdout, answers
// input requests from input and turns an interrupt into a stop request.
func (c *cli) host(ctx context.Context, prog *driver.Program, input interpreter.InputSource, interrupts <-chan os.Signal) (bool, error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sess := interpreter.Start(runCtx, prog.Statements, interpreter.SessionOptions{
		Logger: c.logger.With("source", prog.Source.Path),
	})
	interrupted := false
	var lastFragment string
	output := sess.Output()
	for output != nil {
		select {
		case fragment, ok := <-output:
			if !ok {
				output = nil
				continue
			}
			fmt.Fprint(c.stdout, fragment)
			lastFragment = fragment
		case <-sess.Input():
			line, err := input.ReadLine(runCtx)
			if errors.Is(err, errInputAborted) {
				interrupted = true
				sess.Stop()
				cancel()
				continue
			}
			if err != nil {
				// the session ends with the failure attached to the DAWAT line
				c.logger.Debug("input failed", "error", err)
				if err := sess.ProvideError(runCtx, err); err != nil && !errors.Is(err, interpreter.ErrSessionDone) {
					return false, err
				}
				continue
			}
			if err := sess.Provide(runCtx, line); err != nil && !errors.Is(err, interpreter.ErrSessionDone) {
				return false, err
			}
		case <-interrupts:
			interrupted = true
			sess.Stop()
			cancel()
		}
	}
	if lastFragment != "" && !strings.HasSuffix(lastFragment, "\n") {
		fmt.Fprintln(c.stdout)
	}
	err := sess.Wait()
	if interrupted || sess.Stopped() {
		return true, nil
	}
	return false, err
}
