// Package watcher imports images as they appear below a watched folder.
package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"exifimage/logging"
	"exifimage/utils"
)

// DefaultPatterns are used when Options.Patterns is empty
var DefaultPatterns = []string{"*.jpg", "*.jpeg", "*.png", "*.webp"}

// Options configures a Watcher
type Options struct {
	Root              string
	Patterns          []string
	SettleInterval    time.Duration
	DefaultCollection string
}

// Uploader sends a settled file to its destination
type Uploader interface {
	Upload(ctx context.Context, path, collections string) error
}

// Watcher follows a folder tree and uploads every new matching file once
type Watcher struct {
	opts     Options
	uploader Uploader
	log      *zap.SugaredLogger

	mu       sync.Mutex
	uploaded map[string]struct{}

	ready chan struct{}
	wg    sync.WaitGroup
}

// New validates the options and creates a Watcher
func New(opts Options, uploader Uploader) (*Watcher, error) {
	info, err := os.Stat(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("cannot watch %s: %w", opts.Root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("cannot watch %s: not a directory", opts.Root)
	}
	if len(opts.Patterns) == 0 {
		opts.Patterns = DefaultPatterns
	}
	if err := utils.ValidatePatterns(opts.Patterns); err != nil {
		return nil, fmt.Errorf("invalid watch patterns %v: %w", opts.Patterns, err)
	}
	if opts.SettleInterval <= 0 {
		opts.SettleInterval = 2 * time.Second
	}

	return &Watcher{
		opts:     opts,
		uploader: uploader,
		log:      logging.Named("watcher"),
		uploaded: make(map[string]struct{}),
		ready:    make(chan struct{}),
	}, nil
}

// Ready is closed once the initial tree is being watched
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

// Run watches until ctx is cancelled and waits for in-flight uploads before returning
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fsw.Close()
	defer w.wg.Wait()

	if err := w.addRecursive(fsw, w.opts.Root); err != nil {
		return err
	}
	w.log.Infow("watching for new files", "root", w.opts.Root, "patterns", w.opts.Patterns)
	close(w.ready)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			if event.Has(fsnotify.Create) {
				w.handleCreate(ctx, fsw, event.Name)
			}

		case werr, ok := <-fsw.Errors:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			w.log.Errorw("fsnotify error", "error", werr)
		}
	}
}

func (w *Watcher) addRecursive(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if err := fsw.Add(path); err != nil {
				return fmt.Errorf("failed to watch %s: %w", path, err)
			}
		}
		return nil
	})
}

// handleCreate starts an upload for a new file. A new directory is watched and
// the files already inside it are picked up.
func (w *Watcher) handleCreate(ctx context.Context, fsw *fsnotify.Watcher, path string) {
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	if !info.IsDir() {
		w.schedule(ctx, path)
		return
	}

	if err := w.addRecursive(fsw, path); err != nil {
		w.log.Warnw("cannot watch new directory", "path", path, "error", err)
	}
	_ = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			w.schedule(ctx, p)
		}
		return nil
	})
}

func (w *Watcher) schedule(ctx context.Context, path string) {
	if !utils.MatchesAny(path, w.opts.Patterns) || !w.claim(path) {
		return
	}
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.process(ctx, path)
	}()
}

// claim remembers path and reports whether it was new
func (w *Watcher) claim(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, seen := w.uploaded[path]; seen {
		return false
	}
	w.uploaded[path] = struct{}{}
	return true
}

func (w *Watcher) process(ctx context.Context, path string) {
	if err := WaitForStableSize(ctx, path, w.opts.SettleInterval); err != nil {
		w.log.Warnw("file did not settle", "path", path, "error", err)
		return
	}

	collections, err := w.CollectionFor(path)
	if err != nil {
		w.log.Warnw("cannot derive collection", "path", path, "error", err)
		return
	}

	if err := w.uploader.Upload(ctx, path, collections); err != nil {
		logging.LogImageProcessed(path, false, err.Error())
		return
	}
	w.log.Infow("uploaded", "path", path, "collections", collections)
}

// CollectionFor returns the slash separated directory of path below the root,
// or the default collection for files directly in the root.
func (w *Watcher) CollectionFor(path string) (string, error) {
	collections, err := utils.RelativeCollectionPath(w.opts.Root, path)
	if err != nil {
		return "", err
	}
	if collections == "" {
		collections = w.opts.DefaultCollection
	}
	return collections, nil
}

// WaitForStableSize polls the size of path every interval until two reads agree
func WaitForStableSize(ctx context.Context, path string, interval time.Duration) error {
	last := int64(-1)
	for {
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		if info.Size() == last {
			return nil
		}
		last = info.Size()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
}
