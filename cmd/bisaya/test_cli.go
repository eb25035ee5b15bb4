package main

import (
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/chrlskrt/bisayaplusplus/pkg/driver"
)

func newTestCmd(c *cli) *cobra.Command {
	var (
		parallel int
		verbose  bool
	)
	cmd := &cobra.Command{
		Use:   "test [dir...]",
		Short: "Run exec fixtures (the manifest's fixture directory by default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			roots := args
			if len(roots) == 0 {
				manifest, err := findManifest()
				if err != nil {
					return err
				}
				if manifest != nil {
					roots = []string{manifest.FixturesDir()}
				} else {
					roots = []string{filepath.FromSlash(driver.DefaultFixturesDir)}
				}
			}
			var dirs []string
			for _, root := range roots {
				found, err := driver.CollectFixtures(root)
				if err != nil {
					return err
				}
				dirs = append(dirs, found...)
			}
			if len(dirs) == 0 {
				return fmt.Errorf("no fixtures found under %v", roots)
			}
			return c.runFixtures(cmd, dirs, parallel, verbose)
		},
	}
	cmd.Flags().IntVarP(&parallel, "parallel", "j", runtime.NumCPU(), "fixtures to run at once")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "list passing fixtures too")
	return cmd
}

func (c *cli) runFixtures(cmd *cobra.Command, dirs []string, parallel int, verbose bool) error {
	c.logger.Debug("running fixtures", "count", len(dirs), "parallel", parallel)
	results, err := driver.RunFixtures(cmd.Context(), dirs, parallel)
	if err != nil {
		return err
	}
	failed := 0
	for _, res := range results {
		if res.Passed() {
			if verbose {
				fmt.Fprintln(c.stdout, c.palette.ok("PASS"), res.Dir)
			}
			continue
		}
		failed++
		fmt.Fprintln(c.stdout, c.palette.err("FAIL"), res.Dir)
		for _, failure := range res.Failures {
			fmt.Fprintln(c.stdout, "    "+failure)
		}
	}
	fmt.Fprintf(c.stdout, "%d passed, %d failed\n", len(results)-failed, failed)
	if failed > 0 {
		return exitError{code: 1}
	}
	return nil
}
