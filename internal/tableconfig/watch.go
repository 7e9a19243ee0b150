package tableconfig

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// watcher refreshes the store's catalog when another process rewrites the
// file. Live configs keep their in-memory leaves; only the key listing is
// refreshed.
type watcher struct {
	store *Store
	fw    *fsnotify.Watcher
	done  chan struct{}
}

func newWatcher(s *Store) (*watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the directory: the atomic rename replaces the file inode, which
	// would silently detach a watch on the file itself.
	if err := fw.Add(filepath.Dir(s.path)); err != nil {
		_ = fw.Close()
		return nil, err
	}

	w := &watcher{store: s, fw: fw, done: make(chan struct{})}
	go w.run()
	return w, nil
}

func (w *watcher) run() {
	// Never race the initial background load.
	select {
	case <-w.store.ready:
	case <-w.done:
		return
	}
	for {
		select {
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if ev.Name != w.store.path {
				continue
			}
			if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) {
				continue
			}
			if err := w.store.reload(); err != nil {
				w.store.log.Warn("refresh table config catalog", "err", err)
			}
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.store.log.Warn("table config catalog watcher", "err", err)
		case <-w.done:
			return
		}
	}
}

func (w *watcher) close() error {
	close(w.done)
	return w.fw.Close()
}
