package cmd

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/fl-cli/internal/core/services"
	"github.com/kamal-hamza/fl-cli/pkg/ui"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Localize files again whenever they change",
	Long: `Run a full localization, then keep watching the site and localize
every eligible file that is created or modified.

Useful while re-exporting from Framer: new remote references are replaced
as soon as the export lands on disk. Changes are debounced
(watch_debounce_ms, default 500ms). Assets downloaded earlier in the
session are never fetched twice.

Press Ctrl+C to stop.`,
	Args:        cobra.MaximumNArgs(1),
	Annotations: map[string]string{annotationDirArg: "true"},
	RunE:        runWatch,
}

func init() {
	addLocalizeFlags(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx := getContext()
	applyLocalizeFlags(cmd, appConfig)

	if err := lockWorkspace(); err != nil {
		return err
	}
	defer appWorkspace.Unlock()

	localizer := newLocalizeService(newConsoleReporter(os.Stdout, os.Stderr, appWorkspace.RootPath, quietFlag))

	// Initial full pass
	resp, err := localizer.Execute(ctx, services.LocalizeRequest{})
	if err != nil {
		return err
	}
	printSummary(resp)

	// Create file watcher
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watchTree(watcher, localizer, appWorkspace.RootPath); err != nil {
		return fmt.Errorf("failed to watch %s: %w", appWorkspace.RootPath, err)
	}

	fmt.Println()
	fmt.Println(ui.FormatRocket("Watching " + appWorkspace.RootPath))
	fmt.Println(ui.FormatMuted("Press Ctrl+C to stop"))
	fmt.Println()

	debounce := time.Duration(appConfig.WatchDebounceMS) * time.Millisecond
	pending := make(map[string]bool)
	var timer *time.Timer
	var fire <-chan time.Time

	// Event loop
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := watchTree(watcher, localizer, event.Name); err != nil {
						fmt.Println(ui.FormatWarning("Cannot watch " + event.Name + ": " + err.Error()))
					}
					continue
				}
			}

			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !localizer.IsEligible(event.Name) {
				continue
			}

			pending[event.Name] = true

			// Reset debounce timer
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			sort.Strings(paths)
			pending = make(map[string]bool)

			resp, err := localizer.Execute(ctx, services.LocalizeRequest{Paths: paths})
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
			if resp.FilesRewritten > 0 {
				fmt.Println(ui.FormatSuccess(fmt.Sprintf("Rewrote %d files, downloaded %d assets (%s)",
					resp.FilesRewritten, resp.Downloaded, ui.FormatBytes(resp.Bytes))))
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Println(ui.FormatError("Watcher error: " + err.Error()))

		case <-ctx.Done():
			fmt.Println()
			fmt.Println(ui.FormatMuted("Watcher stopped"))
			return nil
		}
	}
}

// watchTree adds dir and every directory below it that a localization walk would enter
func watchTree(watcher *fsnotify.Watcher, localizer *services.LocalizeService, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if localizer.SkipsDir(path) {
			return fs.SkipDir
		}
		return watcher.Add(path)
	})
}
