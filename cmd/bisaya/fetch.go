package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/chrlskrt/bisayaplusplus/pkg/driver"
)

func newFetchCmd(c *cli) *cobra.Command {
	var (
		cacheDir string
		runTests bool
	)
	cmd := &cobra.Command{
		Use:   "fetch [source...]",
		Short: "Fetch the exercise sets listed under sources in bisaya.yml",
		RunE: func(cmd *cobra.Command, args []string) error {
			manifest, err := findManifest()
			if err != nil {
				return err
			}
			if manifest == nil {
				return fmt.Errorf("no %s found", driver.ManifestName)
			}
			if cacheDir == "" {
				if cacheDir, err = driver.DefaultCacheDir(); err != nil {
					return err
				}
			}
			names := args
			if len(names) == 0 {
				names = manifest.SourceNames()
			}
			if len(names) == 0 {
				fmt.Fprintln(c.stdout, "no sources to fetch")
				return nil
			}

			lockPath := filepath.Join(manifest.Root(), driver.LockfileName)
			lock, err := driver.LoadLockfile(lockPath)
			if errors.Is(err, os.ErrNotExist) {
				lock = driver.NewLockfile(cliToolVersion)
			} else if err != nil {
				return err
			}

			fetcher := driver.NewFetcher(cacheDir, c.logger)
			table := tablewriter.NewWriter(c.stdout)
			table.SetHeader([]string{"Source", "Version", "Checksum"})
			table.SetAutoFormatHeaders(false)
			changed := false
			var fixtureDirs []string
			sort.Strings(names)
			for _, name := range names {
				spec, ok := manifest.Sources[name]
				if !ok {
					return fmt.Errorf("source %q is not listed in %s", name, manifest.Path)
				}
				locked, dir, err := fetcher.Fetch(cmd.Context(), name, spec)
				if err != nil {
					return fmt.Errorf("fetch %s: %w", name, err)
				}
				if lock.Upsert(locked) {
					changed = true
				}
				table.Append([]string{name, locked.Version, locked.Checksum[:12]})
				if runTests {
					found, err := driver.CollectFixtures(filepath.Join(dir, filepath.FromSlash(spec.Dir)))
					if err != nil {
						return err
					}
					fixtureDirs = append(fixtureDirs, found...)
				}
			}
			table.Render()
			if changed {
				if err := driver.WriteLockfile(lock, lockPath); err != nil {
					return err
				}
				c.logger.Info("lockfile updated", "path", lockPath)
			}
			if runTests && len(fixtureDirs) > 0 {
				return c.runFixtures(cmd, fixtureDirs, 0, false)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&cacheDir, "cache", "", "checkout cache directory (default $"+driver.CacheEnv+" or the user cache)")
	cmd.Flags().BoolVar(&runTests, "test", false, "run the fetched fixtures")
	return cmd
}
