package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/peterh/liner"

	"github.com/chrlskrt/bisayaplusplus/pkg/interpreter"
)

const historyFile = ".bisaya_history"

// errInputAborted is returned when the user presses Ctrl+C at a prompt.
var errInputAborted = errors.New("input aborted")

// terminalInput reads DAWAT lines with line editing and history.
type terminalInput struct {
	state  *liner.State
	prompt string
}

func newTerminalInput(prompt string) *terminalInput {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)
	if f, err := os.Open(historyPath()); err == nil {
		_, _ = state.ReadHistory(f)
		_ = f.Close()
	}
	return &terminalInput{state: state, prompt: prompt}
}

func (t *terminalInput) ReadLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	line, err := t.state.Prompt(t.prompt)
	switch {
	case errors.Is(err, liner.ErrPromptAborted):
		return "", errInputAborted
	case errors.Is(err, io.EOF):
		return "", interpreter.ErrNoInput
	case err != nil:
		return "", err
	}
	if line != "" {
		t.state.AppendHistory(line)
	}
	return line, nil
}

func (t *terminalInput) Close() error {
	if f, err := os.Create(historyPath()); err == nil {
		_, _ = t.state.WriteHistory(f)
		_ = f.Close()
	}
	return t.state.Close()
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return historyFile
	}
	return filepath.Join(home, historyFile)
}

// echoInput copies each line it reads to w, so transcripts of piped runs
// show the input where the program consumed it.
type echoInput struct {
	src interpreter.InputSource
	w   io.Writer
}

func (e echoInput) ReadLine(ctx context.Context) (string, error) {
	line, err := e.src.ReadLine(ctx)
	if err == nil {
		fmt.Fprintln(e.w, line)
	}
	return line, err
}

// inputFor picks the DAWAT source: an explicit input file, line editing on
// a terminal, or plain line reads otherwise. The returned closer must be
// called when the run ends.
func (c *cli) inputFor(inputPath, prompt string, echo bool) (interpreter.InputSource, func(), error) {
	noop := func() {}
	if inputPath != "" {
		f, err := os.Open(inputPath)
		if err != nil {
			return nil, noop, fmt.Errorf("open input: %w", err)
		}
		return c.maybeEcho(interpreter.NewReaderInput(f), echo), func() { _ = f.Close() }, nil
	}
	if isTerminal(c.stdin) && isTerminal(c.stdout) {
		term := newTerminalInput(prompt)
		return term, func() { _ = term.Close() }, nil
	}
	return c.maybeEcho(interpreter.NewReaderInput(c.stdin), echo), noop, nil
}

func (c *cli) maybeEcho(src interpreter.InputSource, echo bool) interpreter.InputSource {
	if !echo {
		return src
	}
	return echoInput{src: src, w: c.stdout}
}
