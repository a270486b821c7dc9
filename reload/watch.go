package reload

import (
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/zond/scriptcore"
)

// Watcher reports changed JS files below a directory, at most once per
// debounce interval per file.
type Watcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
	Events   chan string
	Errors   chan error
	closeCh  chan struct{}
	once     sync.Once
}

func NewWatcher(dir string, debounce time.Duration) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, scriptcore.WithStack(err)
	}
	if err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	}); err != nil {
		w.Close()
		return nil, scriptcore.WithStack(err)
	}

	watcher := &Watcher{
		watcher:  w,
		debounce: debounce,
		Events:   make(chan string, 16),
		Errors:   make(chan error, 1),
		closeCh:  make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
	})
	return scriptcore.WithStack(err)
}

func (w *Watcher) run() {
	defer close(w.Events)
	defer close(w.Errors)
	last := map[string]time.Time{}
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if !isScriptFile(event.Name) {
				continue
			}
			now := time.Now()
			if t, ok := last[event.Name]; ok && now.Sub(t) < w.debounce {
				continue
			}
			last[event.Name] = now
			select {
			case w.Events <- event.Name:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

func isScriptFile(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".js"
}
