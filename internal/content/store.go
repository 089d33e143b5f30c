package content

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/pratyushrajshrestha/portfolio/internal/logfields"
)

// Store serves the current document and swaps it atomically on reload.
type Store struct {
	path     string
	current  atomic.Pointer[Content]
	debounce time.Duration
	onReload func(*Content)
}

// NewStore loads path (or the embedded document) once.
func NewStore(path string) (*Store, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}
	s := &Store{path: path, debounce: 500 * time.Millisecond}
	s.current.Store(c)
	return s, nil
}

func (s *Store) Get() *Content { return s.current.Load() }

// Path is empty when the embedded document is served.
func (s *Store) Path() string { return s.path }

// OnReload registers fn to receive every successfully reloaded document.
func (s *Store) OnReload(fn func(*Content)) { s.onReload = fn }

// Reload re-reads the file. On error the previous document stays in place.
func (s *Store) Reload() error {
	c, err := Load(s.path)
	if err != nil {
		return err
	}
	s.current.Store(c)
	if s.onReload != nil {
		s.onReload(c)
	}
	return nil
}

// Watch reloads the document whenever its file changes, until ctx is done.
// It returns immediately when the embedded document is in use.
func (s *Store) Watch(ctx context.Context) error {
	if s.path == "" {
		return nil
	}
	abs, err := filepath.Abs(s.path)
	if err != nil {
		return fmt.Errorf("resolve content path: %w", err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create content watcher: %w", err)
	}
	// Editors replace files by rename, so watch the directory.
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	slog.Info("Watching content", logfields.Path(abs))
	go s.watchLoop(ctx, watcher, filepath.Base(abs))
	return nil
}

func (s *Store) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, name string) {
	defer watcher.Close()

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != name {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			slog.Debug("Content change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
			if timer == nil {
				timer = time.NewTimer(s.debounce)
			} else {
				timer.Reset(s.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			if err := s.Reload(); err != nil {
				slog.Error("Content reload failed, keeping previous document", logfields.Error(err))
				continue
			}
			slog.Info("Content reloaded", logfields.Path(s.path))
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			slog.Error("Content watcher error", logfields.Error(err))
		}
	}
}
