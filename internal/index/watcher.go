package index

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/standardbeagle/snr/internal/debug"
)

// Watcher monitors the data directory and rebuilds the index when name
// lists change. Rebuilds are debounced and published through a Handle
// swap, so a resolve that started against the old snapshot finishes
// against it.
type Watcher struct {
	loader   *Loader
	handle   *Handle
	debounce time.Duration
	watcher  *fsnotify.Watcher
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup

	// onReload is invoked after every successful swap with the new stats.
	onReload func(Stats)

	statsMu   sync.Mutex
	lastStats LoadStats
}

// NewWatcher creates a watcher over the loader's data directory.
func NewWatcher(loader *Loader, handle *Handle, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = 200 * time.Millisecond
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		loader:   loader,
		handle:   handle,
		debounce: debounce,
		watcher:  fsw,
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// SetReloadCallback registers a callback fired after each rebuild.
func (w *Watcher) SetReloadCallback(fn func(Stats)) {
	w.onReload = fn
}

// Start adds watches for the data directory tree and begins processing
// events.
func (w *Watcher) Start() error {
	if err := w.addWatches(w.loader.Dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.loader.Dir, err)
	}

	w.wg.Add(1)
	go w.processEvents()
	return nil
}

// Stop terminates event processing and releases the underlying watcher.
func (w *Watcher) Stop() {
	w.cancel()
	w.watcher.Close()
	w.wg.Wait()
}

func (w *Watcher) addWatches(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.watcher.Add(path)
		}
		return nil
	})
}

func (w *Watcher) processEvents() {
	defer w.wg.Done()

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-w.ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			// New subdirectories need their own watch.
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					w.watcher.Add(event.Name)
				}
			}
			debug.LogIndex("data change: %s %s\n", event.Op, event.Name)
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			debug.LogIndex("watch error: %v\n", err)

		case <-timerC:
			timer = nil
			timerC = nil
			w.rebuild()
		}
	}
}

// rebuild loads a fresh index and swaps it in. A failed load keeps the
// previous snapshot live.
func (w *Watcher) rebuild() {
	ix, stats, err := w.loader.Load()
	if err != nil {
		debug.LogIndex("rebuild failed, keeping previous index: %v\n", err)
		return
	}

	w.handle.Swap(ix)
	w.statsMu.Lock()
	w.lastStats = stats
	w.statsMu.Unlock()

	debug.LogIndex("index rebuilt: %d names\n", ix.Len())
	if w.onReload != nil {
		w.onReload(CollectStats(ix, stats))
	}
}
