package layouts

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Watcher reloads the store when the layouts file changes on disk, so
// edits made by the CLI (or by hand) show up on the dashboard without a
// restart.
type Watcher struct {
	watcher *fsnotify.Watcher
	store   *Store
	log     zerolog.Logger
	done    chan struct{}

	mu      sync.Mutex
	running bool
}

// NewWatcher creates a watcher for the store's layouts file.
func NewWatcher(store *Store, log zerolog.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		watcher: fw,
		store:   store,
		log:     log,
		done:    make(chan struct{}),
	}, nil
}

// Start begins watching. Watching the containing directory is more
// reliable than the file itself for editors that write via rename.
func (w *Watcher) Start() error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.watcher.Add(filepath.Dir(w.store.Path())); err != nil {
		return err
	}
	go w.watch()
	return nil
}

func (w *Watcher) watch() {
	filename := filepath.Base(w.store.Path())
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filename {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				w.log.Debug().Str("file", w.store.Path()).Msg("layouts file changed, reloading")
				if err := w.store.Reload(); err != nil {
					w.log.Warn().Err(err).Msg("failed to reload layouts")
				}
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Msg("layouts watcher error")
		case <-w.done:
			return
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		close(w.done)
		w.running = false
	}
	return w.watcher.Close()
}
