package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"apack/goody"
)

// DefaultDebounce is the quiet period after the last change before catalog
// is reloaded.
const DefaultDebounce = 300 * time.Millisecond

// ReloadFunc receives result of every catalog reload: new catalog or the
// error which prevented loading it.
type ReloadFunc func(*goody.Catalog, error)

// Watcher reloads catalog whenever its source changes on disk. Bursts of
// changes (editor saves, archive rewrites) result in a single reload.
type Watcher struct {
	src      string
	dir      bool
	debounce time.Duration
	onReload ReloadFunc
	log      *zap.Logger
	watcher  *fsnotify.Watcher
}

// NewWatcher starts watching src. For catalog file its parent directory is
// watched so replacing file (as most editors do on save) is noticed.
func NewWatcher(src string, debounce time.Duration, onReload ReloadFunc, log *zap.Logger) (*Watcher, error) {
	src, err := filepath.Abs(src)
	if err != nil {
		return nil, err
	}
	fi, err := os.Stat(src)
	if err != nil {
		return nil, fmt.Errorf("unable to access catalog source: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		src:      src,
		dir:      fi.IsDir(),
		debounce: debounce,
		onReload: onReload,
		log:      log,
		watcher:  fw,
	}

	if w.dir {
		err = w.addTree()
	} else {
		err = fw.Add(filepath.Dir(src))
	}
	if err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch catalog source %s: %w", src, err)
	}
	return w, nil
}

// addTree watches catalog directory and its language subdirectories.
func (w *Watcher) addTree() error {
	if err := w.watcher.Add(w.src); err != nil {
		return err
	}
	entries, err := os.ReadDir(w.src)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if err := w.watcher.Add(filepath.Join(w.src, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

// Run processes change notifications until ctx is canceled. Reload callback
// is always called from Run goroutine.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.log.Debug("Catalog change detected", zap.String("file", event.Name), zap.Stringer("op", event.Op))
			if w.dir && event.Has(fsnotify.Create) {
				// new language directory
				if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() && filepath.Dir(event.Name) == w.src {
					if err := w.watcher.Add(event.Name); err != nil {
						w.log.Warn("Unable to watch directory", zap.String("dir", event.Name), zap.Error(err))
					}
				}
			}
			timer.Reset(w.debounce)

		case <-timer.C:
			cat, err := Load(ctx, w.src, w.log)
			if err != nil {
				w.log.Error("Catalog reload failed", zap.String("source", w.src), zap.Error(err))
			} else {
				w.log.Info("Catalog reloaded", zap.String("source", w.src), zap.Int("goodies", cat.Len()))
			}
			w.onReload(cat, err)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("Catalog watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	if w.dir {
		return true
	}
	return filepath.Clean(event.Name) == w.src
}
