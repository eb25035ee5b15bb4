package main

import (
	"errors"
	"fmt"
	"io"
	"os"
)

const cliToolVersion = "bisaya 0.1.0-dev"

// exitError carries a process exit status out of a command after the
// command has already reported the failure.
type exitError struct {
	code int
}

func (e exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func main() {
	os.Exit(execute(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func execute(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := newRootCmd(&cli{stdin: stdin, stdout: stdout, stderr: stderr})
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		var exit exitError
		if errors.As(err, &exit) {
			return exit.code
		}
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	return 0
}
