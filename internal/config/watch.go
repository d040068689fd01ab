package config

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"

	"github.com/Garsondee/Hide-Sense/internal/game"
)

// debounce drops repeated events for the same file; editors write a file
// several times per save.
const debounce = 100 * time.Millisecond

// Watcher reloads a scene file when it changes and publishes the new
// tuning. A file that fails to parse is reported on Errors and the last
// good tuning stays in effect.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	Tunings chan game.Tuning
	Errors  chan error
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

// Watch starts watching path. The parent directory is watched so editors
// that save by rename are still seen.
func Watch(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, "config: watch %s", path)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "config: watcher")
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, errors.Wrapf(err, "config: watch %s", filepath.Dir(abs))
	}
	w := &Watcher{
		path:    abs,
		watcher: fw,
		Tunings: make(chan game.Tuning, 1),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Close stops the watcher and closes both channels.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
		close(w.Tunings)
		close(w.Errors)
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.done)
	var last time.Time
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			now := time.Now()
			if now.Sub(last) < debounce {
				continue
			}
			last = now
			w.reload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.report(err)
		case <-w.closeCh:
			return
		}
	}
}

func (w *Watcher) reload() {
	// Give the writer a moment to finish.
	time.Sleep(debounce / 2)
	f, err := Load(w.path)
	if err != nil {
		w.report(err)
		return
	}
	t := f.GameTuning()
	// Keep only the newest tuning if the reader is behind.
	select {
	case <-w.Tunings:
	default:
	}
	select {
	case w.Tunings <- t:
	case <-w.closeCh:
	}
}

func (w *Watcher) report(err error) {
	select {
	case w.Errors <- err:
	default:
	}
}
