package loader

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceWindow is the quiet period required after the last relevant
// filesystem event before Watcher fires a reload. Chosen so a multi-file
// `go build -buildmode=plugin` (which touches the target file more than
// once) collapses into a single reload.
const debounceWindow = time.Second

// Watcher watches one or more directories, and every subdirectory beneath
// them, for tool plugin changes, and invokes a callback after a
// debounceWindow of quiet following the last relevant event. A newly
// created subdirectory is itself added to the watch set so nested tool
// sources are picked up; directory events never start or reset the reload
// timer on their own, and files that aren't tool plugin sources are
// ignored outright.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	onChange  func()
	logger    *slog.Logger

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// NewWatcher watches dirs and every subdirectory beneath them, recursively,
// and calls onChange once per debounce window of plugin-file activity. Call
// Start to begin, Stop to shut down.
func NewWatcher(dirs []string, onChange func(), logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, dir := range dirs {
		if err := addRecursive(fw, dir); err != nil {
			_ = fw.Close()
			return nil, err
		}
	}
	return &Watcher{
		fsWatcher: fw,
		onChange:  onChange,
		logger:    logger,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}, nil
}

// Start begins watching in its own goroutine. Every fsnotify event for a
// tool-source file resets a single debounce timer owned by this goroutine;
// the timer fires onChange only once per quiet window, however many events
// arrived during it.
func (w *Watcher) Start() {
	go w.loop()
}

func (w *Watcher) loop() {
	defer close(w.done)

	var timer *time.Timer
	var timerC <-chan time.Time

	resetTimer := func() {
		if timer != nil {
			timer.Stop()
		}
		timer = time.NewTimer(debounceWindow)
		timerC = timer.C
	}

	for {
		select {
		case <-w.stop:
			if timer != nil {
				timer.Stop()
			}
			return

		case ev, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if ev.Op.Has(fsnotify.Create) && isDir(ev.Name) {
				// fsnotify doesn't recurse on its own: a newly created
				// subdirectory has to be added explicitly so tool sources
				// placed inside it later are picked up too.
				if err := addRecursive(w.fsWatcher, ev.Name); err != nil {
					w.logger.Error("failed to watch new subdirectory", "path", ev.Name, "error", err)
				}
				continue
			}
			if !w.relevant(ev) {
				continue
			}
			w.logger.Debug("tool source changed, debouncing reload", "path", ev.Name, "op", ev.Op.String())
			resetTimer()

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("watcher error", "error", err)

		case <-timerC:
			timerC = nil
			w.onChange()
		}
	}
}

// relevant reports whether ev should (re)start the debounce timer: it must
// name a tool-source file, not a directory or anything else.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Write) &&
		!ev.Op.Has(fsnotify.Rename) && !ev.Op.Has(fsnotify.Remove) {
		return false
	}
	return IsToolSource(ev.Name)
}

// Stop shuts the watcher down and blocks until its goroutine has exited.
// Calling it again is a no-op.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stop)
		_ = w.fsWatcher.Close()
		<-w.done
	})
}

// addRecursive registers root and every subdirectory beneath it with fw, so
// fsnotify events fire for tool sources nested anywhere under a configured
// repository root.
func addRecursive(fw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return fw.Add(path)
		}
		return nil
	})
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
