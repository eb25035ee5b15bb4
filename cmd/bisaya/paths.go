package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/chrlskrt/bisayaplusplus/pkg/driver"
)

var errNoProgram = errors.New("no program given and no entry in " + driver.ManifestName)

// findManifest loads the nearest bisaya.yml above the working directory,
// returning nil when there is none.
func findManifest() (*driver.Manifest, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	path, err := driver.FindManifest(wd)
	if err != nil {
		return nil, nil
	}
	return driver.LoadManifest(path)
}

// loadProgramSource reads the file named by args, "-" for stdin, or the
// manifest entry when args is empty.
func (c *cli) loadProgramSource(args []string) (*driver.Source, error) {
	if len(args) > 0 {
		if args[0] == "-" {
			return driver.ReadSource("<stdin>", c.stdin)
		}
		return driver.LoadSource(args[0])
	}
	manifest, err := findManifest()
	if err != nil {
		return nil, err
	}
	if manifest == nil || manifest.EntryPath() == "" {
		return nil, errNoProgram
	}
	return driver.LoadSource(manifest.EntryPath())
}

// reportError prints err's diagnostics and returns the exit error for it.
func (c *cli) reportError(err error) error {
	for _, d := range driver.Diagnose(err) {
		fmt.Fprintln(c.stderr, c.palette.err(d.String()))
	}
	return exitError{code: 1}
}
