package cli

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/openkraft/dotcheck/internal/adapters/outbound/tui"
	"github.com/openkraft/dotcheck/internal/application"
	"github.com/openkraft/dotcheck/internal/logger"
)

// DefaultDebounce is the quiet period after the last change before a re-run.
const DefaultDebounce = 300 * time.Millisecond

var watchSkipDirs = map[string]bool{".git": true, "node_modules": true, "vendor": true}

func newWatchCmd() *cobra.Command {
	var (
		opts  application.RunOptions
		delay time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch [path]",
		Short: "Re-run validation whenever files change",
		Long:  "Validate once, then watch the tree and print a fresh summary after each burst of changes. Stops on interrupt.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}
			return watch(cmd.Context(), cmd.OutOrStdout(), path, opts, delay)
		},
	}

	cmd.Flags().StringSliceVar(&opts.Only, "only", nil, "Run only the named validators (comma-separated)")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 0, "Per-validator timeout")
	cmd.Flags().DurationVar(&delay, "debounce", DefaultDebounce, "Quiet period before re-running")

	return cmd
}

func watch(ctx context.Context, out io.Writer, path string, opts application.RunOptions, delay time.Duration) error {
	svc := NewValidateService()
	scope, err := svc.ResolveScope(path)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	log := logger.G(ctx).WithField("root", scope.Root)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := addDirs(watcher, scope.Root); err != nil {
		return err
	}

	runOnce := func(changed []string) {
		if len(changed) > 0 {
			fmt.Fprintf(out, "\nchanged: %v\n", changed)
		}
		agg, err := svc.ValidateAll(ctx, path, opts)
		if err != nil {
			log.WithError(err).Error("validation run failed")
			return
		}
		fmt.Fprint(out, tui.RenderSummary(agg))
	}
	runOnce(nil)

	changes := make(chan string)
	batches := make(chan []string)
	go debounce(ctx, changes, batches, delay)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !watchSkipDirs[info.Name()] {
					if err := addDirs(watcher, event.Name); err != nil {
						log.WithError(err).Warn("cannot watch new directory")
					}
				}
			}
			rel, err := filepath.Rel(scope.Root, event.Name)
			if err != nil {
				rel = event.Name
			}
			// Keep draining batches while handing over the change, or the
			// debouncer and this loop can block on each other.
			for sent := false; !sent; {
				select {
				case changes <- filepath.ToSlash(rel):
					sent = true
				case batch, ok := <-batches:
					if !ok {
						return nil
					}
					runOnce(batch)
				case <-ctx.Done():
					return nil
				}
			}
		case batch, ok := <-batches:
			if !ok {
				return nil
			}
			runOnce(batch)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.WithError(err).Warn("watcher error")
		}
	}
}

// addDirs watches root and every directory below it, skipping VCS and
// dependency directories.
func addDirs(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if p != root && watchSkipDirs[d.Name()] {
			return filepath.SkipDir
		}
		if err := watcher.Add(p); err != nil {
			return fmt.Errorf("watching %s: %w", p, err)
		}
		return nil
	})
}

// debounce collects paths from in and, once delay passes without another
// arrival, sends them to out as one sorted, de-duplicated batch. Pending
// paths are flushed when in is closed. out is closed on return.
func debounce(ctx context.Context, in <-chan string, out chan<- []string, delay time.Duration) {
	defer close(out)

	timer := time.NewTimer(delay)
	timer.Stop()
	pending := make(map[string]bool)

	flush := func() bool {
		if len(pending) == 0 {
			return true
		}
		batch := make([]string, 0, len(pending))
		for p := range pending {
			batch = append(batch, p)
		}
		sort.Strings(batch)
		pending = make(map[string]bool)
		select {
		case out <- batch:
			return true
		case <-ctx.Done():
			return false
		}
	}

	for {
		select {
		case <-ctx.Done():
			return
		case p, ok := <-in:
			if !ok {
				timer.Stop()
				flush()
				return
			}
			pending[p] = true
			timer.Reset(delay)
		case <-timer.C:
			if !flush() {
				return
			}
		}
	}
}
