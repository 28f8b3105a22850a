package persona

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"hivemind/internal/logging"

	"github.com/fsnotify/fsnotify"
)

// Watcher hot-reloads persona overrides from a YAML file so directives and
// model assignments can be tuned while the experiment runs.
type Watcher struct {
	mu      sync.Mutex
	watcher *fsnotify.Watcher
	catalog *Catalog
	path    string

	debounceDur time.Duration
	lastEvent   time.Time

	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool
}

// NewWatcher creates a watcher for the overrides file at path. The file does
// not need to exist yet; it is applied once immediately if it does.
func NewWatcher(catalog *Catalog, path string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		watcher:     fw,
		catalog:     catalog,
		path:        path,
		debounceDur: 500 * time.Millisecond, // editors fire bursts of writes
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}
	return w, nil
}

// Start applies the current file (when present) and begins watching its
// directory. Non-blocking.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	log := logging.Get(logging.CategoryPersona)

	if err := w.reload(); err != nil && !os.IsNotExist(err) {
		log.Warn("initial overrides load failed: %v", err)
	}

	// Watch the directory, not the file: editors replace files on save and
	// a file watch dies with the old inode.
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		log.Warn("watch failed for %s: %v", w.path, err)
	} else {
		log.Info("watching persona overrides: %s", w.path)
	}

	go w.run(ctx)
	return nil
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)
	log := logging.Get(logging.CategoryPersona)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
				continue
			}
			w.mu.Lock()
			if time.Since(w.lastEvent) < w.debounceDur {
				w.mu.Unlock()
				continue
			}
			w.lastEvent = time.Now()
			w.mu.Unlock()

			if err := w.reload(); err != nil {
				log.Warn("overrides reload failed: %v", err)
				continue
			}
			log.Info("persona overrides reloaded")
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Warn("watch error: %v", err)
		}
	}
}

func (w *Watcher) reload() error {
	data, err := os.ReadFile(w.path)
	if err != nil {
		return err
	}
	var o Overrides
	if err := yaml.Unmarshal(data, &o); err != nil {
		return err
	}
	w.catalog.Apply(o)
	return nil
}

// Stop halts the watcher and releases the underlying fsnotify resources.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	w.watcher.Close()
	<-w.doneCh
}
