// Package watch signals when the record collections on disk change.
package watch

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Flyrell/evdash/internal/logging"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces bursts such as temp-file write plus rename.
const DefaultDebounce = 150 * time.Millisecond

// Watcher emits on Changes after collection files in a directory settle.
type Watcher struct {
	fs       *fsnotify.Watcher
	dir      string
	debounce time.Duration
	changes  chan struct{}
	done     chan struct{}
	once     sync.Once
	wg       sync.WaitGroup
}

// New watches dir, creating it if missing. A debounce of zero uses
// DefaultDebounce.
func New(dir string, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	w := &Watcher{
		fs:       fsw,
		dir:      dir,
		debounce: debounce,
		changes:  make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Relevant reports whether a file event should trigger a reload. Only JSON
// collection files count; temp files from atomic writes do not.
func Relevant(name string) bool {
	base := filepath.Base(name)
	return filepath.Ext(base) == ".json" && base != "session.json"
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	defer close(w.changes)

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return

		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !Relevant(ev.Name) {
				continue
			}
			logging.Default().Debug("collection changed", logging.F("file", ev.Name), logging.F("op", ev.Op.String()))
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			select {
			case w.changes <- struct{}{}:
			default:
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			logging.Default().Error("watch error", logging.F("dir", w.dir), logging.F("error", err.Error()))
		}
	}
}

// Changes delivers one value per settled burst of changes. Pending signals
// are coalesced. The channel is closed by Close.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

// Close stops watching.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.fs.Close()
		w.wg.Wait()
	})
	return err
}
