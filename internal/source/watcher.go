package source

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounceDelay = 150 * time.Millisecond

// Watcher reloads the document set when its file changes. The directory is
// watched rather than the file, so editors that save by renaming a temp
// file are picked up too.
type Watcher struct {
	opts     Options
	logger   *slog.Logger
	onChange func(*Snapshot)
	onError  func(error)

	fs   *fsnotify.Watcher
	mu   sync.Mutex
	last uint64
}

// NewWatcher starts watching opts.Path. onChange receives every snapshot
// whose content hash differs from the previous one; initial is the hash
// already loaded by the caller. Callbacks run on the watcher goroutine.
func NewWatcher(opts Options, initial uint64, onChange func(*Snapshot), onError func(error), logger *slog.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(opts.Path)); err != nil {
		fw.Close()
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Watcher{
		opts:     opts,
		logger:   logger,
		onChange: onChange,
		onError:  onError,
		fs:       fw,
		last:     initial,
	}, nil
}

// Run processes file events until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) {
	target := filepath.Clean(w.opts.Path)
	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceDelay, func() { w.reload(ctx) })
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn("source: watcher error", "error", err)
		}
	}
}

func (w *Watcher) reload(ctx context.Context) {
	snap, err := Load(ctx, w.opts)
	if err != nil {
		if w.onError != nil {
			w.onError(err)
		}
		return
	}
	if !w.update(snap.Hash) {
		w.logger.Debug("source: content unchanged", "path", w.opts.Path)
		return
	}
	w.onChange(snap)
}

// update records hash and reports whether it differs from the last one.
func (w *Watcher) update(hash uint64) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if hash == w.last {
		return false
	}
	w.last = hash
	return true
}

// Seen records a snapshot loaded outside the watcher, such as a manual
// reload, so the same content is not delivered twice.
func (w *Watcher) Seen(hash uint64) {
	w.mu.Lock()
	w.last = hash
	w.mu.Unlock()
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fs.Close()
}
