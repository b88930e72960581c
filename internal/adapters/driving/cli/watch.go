package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragindex/internal/logger"
	"github.com/custodia-labs/ragindex/internal/normalisers"
)

var watchRescan string

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Keep a directory indexed",
	Long: `Ingests every supported file in dir, then re-ingests files as they are
created or modified until interrupted. Unchanged files are skipped by content
hash. Removing a file from disk does not remove it from the index; use
'ragindex document delete' for that. Subdirectories are not watched.

--rescan takes a cron expression and rescans the whole directory on that
schedule, for filesystems that do not report changes.`,
	Example: `  ragindex watch ~/notes
  ragindex watch ~/shared --rescan "@every 15m"`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchRescan, "rescan", "", `cron schedule for full rescans, e.g. "@hourly" or "*/10 * * * *"`)
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	w, err := newDirWatcher(cmd, args[0])
	if err != nil {
		return err
	}
	defer w.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if watchRescan != "" {
		stopRescan, err := w.ScheduleRescan(ctx, watchRescan)
		if err != nil {
			return err
		}
		defer stopRescan()
	}

	w.Scan(ctx)
	cmd.Printf("Watching %s (Ctrl+C to stop)\n", w.dir)
	return w.Run(ctx)
}

// dirWatcher ingests supported files of one directory as they change.
type dirWatcher struct {
	cmd      *cobra.Command
	dir      string
	watcher  *fsnotify.Watcher
	supports func(filename string) bool

	// mu serialises ingestion between events and scheduled rescans.
	mu sync.Mutex
}

func newDirWatcher(cmd *cobra.Command, dir string) (*dirWatcher, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch %s: not a directory", dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	return &dirWatcher{
		cmd:      cmd,
		dir:      dir,
		watcher:  watcher,
		supports: normalisers.NewDefaultRegistry().Supports,
	}, nil
}

// Scan ingests every supported file currently in the directory.
func (w *dirWatcher) Scan(ctx context.Context) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		logger.Warn("scan %s: %v", w.dir, err)
		return
	}
	for _, entry := range entries {
		if ctx.Err() != nil {
			return
		}
		if entry.IsDir() {
			continue
		}
		w.ingest(ctx, filepath.Join(w.dir, entry.Name()))
	}
}

// ScheduleRescan runs Scan on the cron schedule spec. The returned function
// stops the schedule and waits for a running scan to finish.
func (w *dirWatcher) ScheduleRescan(ctx context.Context, spec string) (func(), error) {
	c := cron.New()
	if _, err := c.AddFunc(spec, func() { w.Scan(ctx) }); err != nil {
		return nil, fmt.Errorf("--rescan %q: %w", spec, err)
	}
	c.Start()
	return func() { <-c.Stop().Done() }, nil
}

// Run handles filesystem events until ctx is cancelled.
func (w *dirWatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handle(ctx, event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch %s: %v", w.dir, err)
		}
	}
}

func (w *dirWatcher) handle(ctx context.Context, event fsnotify.Event) {
	switch {
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		w.ingest(ctx, event.Name)
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		if w.wanted(event.Name) {
			logger.Info("%s removed from disk; indexed chunks are kept", filepath.Base(event.Name))
		}
	}
}

func (w *dirWatcher) ingest(ctx context.Context, path string) {
	if !w.wanted(path) {
		return
	}
	if info, err := os.Stat(path); err != nil || info.IsDir() || info.Size() == 0 {
		// Editors create empty files before writing; the Write event follows.
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	result, err := ingestFile(ctx, path)
	if err != nil {
		w.cmd.PrintErrf("Failed %s: %v\n", path, err)
		return
	}
	printIngestResult(w.cmd, result)
}

func (w *dirWatcher) wanted(path string) bool {
	name := filepath.Base(path)
	return !strings.HasPrefix(name, ".") && w.supports(name)
}

// Close stops the underlying watcher.
func (w *dirWatcher) Close() error {
	return w.watcher.Close()
}
