// Package watch re-runs an action on source files when they change on disk.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Op describes a set of file operations.
type Op uint8

const (
	OpCreate Op = 1 << iota
	OpWrite
	OpRemove
	OpRename
	OpChmod
)

// Event is a change to a watched path.
type Event struct {
	Path string
	Op   Op
	Time time.Time
}

// Watcher delivers OS-native file notifications using fsnotify.
type Watcher struct {
	w    *fsnotify.Watcher
	evC  chan Event
	erC  chan error
	done chan struct{}
}

// New creates a Watcher with no watched paths.
func New() (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	fw := &Watcher{w: w, evC: make(chan Event, 128), erC: make(chan error, 1), done: make(chan struct{})}
	go fw.loop()
	return fw, nil
}

func (fw *Watcher) loop() {
	for {
		select {
		case ev, ok := <-fw.w.Events:
			if !ok {
				return
			}
			var op Op
			if ev.Op&fsnotify.Create != 0 {
				op |= OpCreate
			}
			if ev.Op&fsnotify.Write != 0 {
				op |= OpWrite
			}
			if ev.Op&fsnotify.Remove != 0 {
				op |= OpRemove
			}
			if ev.Op&fsnotify.Rename != 0 {
				op |= OpRename
			}
			if ev.Op&fsnotify.Chmod != 0 {
				op |= OpChmod
			}
			select {
			case fw.evC <- Event{Path: ev.Name, Op: op, Time: time.Now()}:
			case <-fw.done:
				return
			}
		case err, ok := <-fw.w.Errors:
			if !ok {
				return
			}
			select {
			case fw.erC <- err:
			default:
			}
		case <-fw.done:
			return
		}
	}
}

func (fw *Watcher) Events() <-chan Event  { return fw.evC }
func (fw *Watcher) Errors() <-chan error  { return fw.erC }
func (fw *Watcher) Add(name string) error { return fw.w.Add(name) }

// Close stops the watcher. Events already queued are dropped.
func (fw *Watcher) Close() error {
	close(fw.done)
	return fw.w.Close()
}

// Run watches files and calls fn with a file's path once writes to it have
// settled for debounce. Directories holding the files are watched so that
// editors replacing a file by rename are seen. Run returns when ctx is done.
func Run(ctx context.Context, files []string, debounce time.Duration, logger *slog.Logger, fn func(path string)) error {
	fw, err := New()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	wanted := make(map[string]bool, len(files))
	dirs := make(map[string]bool)
	for _, file := range files {
		abs, err := filepath.Abs(file)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", file, err)
		}
		wanted[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	deb := newDebouncer(ctx, debounce)
	defer deb.stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev := <-fw.Events():
			path, err := filepath.Abs(ev.Path)
			if err != nil || !wanted[path] || ev.Op&(OpCreate|OpWrite|OpRename) == 0 {
				continue
			}
			logger.Debug("file changed", "path", path, "op", ev.Op)
			deb.touch(path)

		case f := <-deb.C:
			if deb.fired(f) {
				fn(f.path)
			}

		case err := <-fw.Errors():
			logger.Warn("watch error", "error", err)
		}
	}
}

// firing is a debounce timer expiry for one path. gen tells a current
// expiry from one that a later write superseded.
type firing struct {
	path string
	gen  uint64
}

type pending struct {
	timer *time.Timer
	gen   uint64
}

// debouncer coalesces bursts of changes per path. It is owned by a single
// goroutine; only the timers send on C.
type debouncer struct {
	ctx     context.Context
	delay   time.Duration
	C       chan firing
	pending map[string]pending
	gen     uint64
}

func newDebouncer(ctx context.Context, delay time.Duration) *debouncer {
	return &debouncer{
		ctx:     ctx,
		delay:   delay,
		C:       make(chan firing),
		pending: make(map[string]pending),
	}
}

// touch (re)starts the quiet period of path. A timer that already expired
// but was not yet received is superseded by a new generation.
func (d *debouncer) touch(path string) {
	if p, ok := d.pending[path]; ok && p.timer.Stop() {
		p.timer.Reset(d.delay)
		return
	}
	d.gen++
	f := firing{path: path, gen: d.gen}
	d.pending[path] = pending{
		timer: time.AfterFunc(d.delay, func() {
			select {
			case d.C <- f:
			case <-d.ctx.Done():
			}
		}),
		gen: f.gen,
	}
}

// fired consumes f and reports whether it is the current expiry of its path.
func (d *debouncer) fired(f firing) bool {
	p, ok := d.pending[f.path]
	if !ok || p.gen != f.gen {
		return false
	}
	delete(d.pending, f.path)
	return true
}

func (d *debouncer) stop() {
	for _, p := range d.pending {
		p.timer.Stop()
	}
}
