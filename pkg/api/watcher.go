package api

// Watch mode polls the input files instead of using platform file system
// notifications. Each tick only checks a random subset of the files, so a
// whole project is covered within about two seconds. Files that changed
// recently are checked on every tick, so repeated edits to the same file are
// picked up almost immediately.

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"sync"
	"time"

	"github.com/jsrewrite/ramdacut/internal/fs"
	"github.com/jsrewrite/ramdacut/internal/logger"
	"go.uber.org/zap"
)

// The time to wait between watch intervals
const watchIntervalSleep = 100 * time.Millisecond

// The maximum number of recently-edited items to check every interval
const maxRecentItemCount = 16

// The minimum number of non-recent items to check every interval
const minItemCountPerIter = 64

// The maximum number of intervals before a change is detected
const maxIntervalsBeforeUpdate = 20

type watcher struct {
	data              fs.WatchData
	fs                fs.FS
	rebuild           func(absPath string)
	recentItems       []string
	itemsToScan       []string
	mutex             sync.Mutex
	itemsPerIteration int
	shouldLog         bool
	useColor          logger.StderrColor
	z                 *zap.Logger
}

func (w *watcher) logf(format string, args ...interface{}) {
	if w.shouldLog {
		logger.PrintTextWithColor(os.Stderr, w.useColor, func(colors logger.Colors) string {
			return fmt.Sprintf("%s[watch] %s%s\n", colors.Dim, fmt.Sprintf(format, args...), colors.Reset)
		})
	}
}

// Replaces the snapshot of one file after it was rebuilt
func (w *watcher) updatePath(absPath string, data fs.WatchData) {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	w.data.Paths[absPath] = data.Paths[absPath]
}

func (w *watcher) run(ctx context.Context, interval time.Duration) {
	w.logf("build finished, watching for changes...")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.z.Debug("watch stopped")
			return
		case <-ticker.C:
		}

		if absPath := w.tryToFindDirtyPath(); absPath != "" {
			prettyPath := fs.PrettyPath(w.fs, absPath)
			w.logf("build started (change: %q)", prettyPath)
			w.z.Debug("file changed", zap.String("file", prettyPath))
			w.rebuild(absPath)
			w.logf("build finished")
		}
	}
}

func (w *watcher) tryToFindDirtyPath() string {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	// If we ran out of items to scan, fill the items back up in a random order
	if len(w.itemsToScan) == 0 {
		items := w.itemsToScan[:0] // Reuse memory
		for path := range w.data.Paths {
			items = append(items, path)
		}
		rand.Shuffle(len(items), func(i, j int) {
			items[i], items[j] = items[j], items[i]
		})
		w.itemsToScan = items

		// Determine how many items to check every iteration, rounded up
		perIter := (len(items) + maxIntervalsBeforeUpdate - 1) / maxIntervalsBeforeUpdate
		if perIter < minItemCountPerIter {
			perIter = minItemCountPerIter
		}
		w.itemsPerIteration = perIter
	}

	// Always check all recent items every iteration
	for i, path := range w.recentItems {
		if dirtyPath := w.data.Paths[path](); dirtyPath != "" {
			// Move this path to the back of the list (i.e. the "most recent" position)
			copy(w.recentItems[i:], w.recentItems[i+1:])
			w.recentItems[len(w.recentItems)-1] = path
			return dirtyPath
		}
	}

	// Check a constant number of items every iteration
	remainingCount := len(w.itemsToScan) - w.itemsPerIteration
	if remainingCount < 0 {
		remainingCount = 0
	}
	toCheck, remaining := w.itemsToScan[remainingCount:], w.itemsToScan[:remainingCount]
	w.itemsToScan = remaining

	for _, path := range toCheck {
		if dirtyPath := w.data.Paths[path](); dirtyPath != "" {
			w.recentItems = append(w.recentItems, path)
			if len(w.recentItems) > maxRecentItemCount {
				// Remove items from the front of the list when we hit the limit
				copy(w.recentItems, w.recentItems[1:])
				w.recentItems = w.recentItems[:maxRecentItemCount]
			}
			return dirtyPath
		}
	}
	return ""
}

func watchImpl(ctx context.Context, fsys fs.FS, paths []string, options FilesOptions,
	onRebuild func(FilesResult), interval time.Duration) error {
	plan, msgs := planFiles(fsys, paths, options)
	printMessages(msgs, options.TransformOptions)
	if plan == nil {
		onRebuild(FilesResult{Errors: messagesOfKind(logger.Error, msgs)})
		return fmt.Errorf("invalid watch options: %s", messagesOfKind(logger.Error, msgs)[0].Text)
	}

	// The snapshot is taken before each file is read so that an edit made
	// during a rebuild causes another rebuild instead of being missed
	w := &watcher{
		data:      fs.Watch(fsys, plan.inputs),
		fs:        fsys,
		shouldLog: options.LogLevel != LogLevelSilent && options.LogLevel != LogLevelError,
		useColor:  validateColor(options.Color),
		z:         plan.z,
	}
	w.rebuild = func(absPath string) {
		w.updatePath(absPath, fs.Watch(fsys, []string{absPath}))
		onRebuild(FilesResult{Files: plan.run(ctx, []string{absPath})})
	}

	onRebuild(FilesResult{Files: plan.run(ctx, plan.inputs)})
	w.z.Debug("watch started", zap.Int("files", len(plan.inputs)))
	w.run(ctx, interval)
	return nil
}
