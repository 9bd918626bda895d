package dataset

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher keeps a session in sync with its backing file: a rewrite of
// the uploaded file reloads the table, a removal clears it. Events are
// debounced because editors and upload handlers emit bursts of writes.
type FileWatcher struct {
	session      *Session
	watcher      *fsnotify.Watcher
	debounceTime time.Duration
	mu           sync.Mutex
	pending      map[string]fsnotify.Op
	cancel       context.CancelFunc
	wg           sync.WaitGroup
}

// NewFileWatcher creates a watcher bound to a session. Call Watch to add
// paths as datasets are loaded.
func NewFileWatcher(session *Session) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	return &FileWatcher{
		session:      session,
		watcher:      watcher,
		debounceTime: 500 * time.Millisecond,
		pending:      make(map[string]fsnotify.Op),
	}, nil
}

// Start begins processing filesystem events.
func (fw *FileWatcher) Start(ctx context.Context) {
	ctx, fw.cancel = context.WithCancel(ctx)
	fw.wg.Add(2)
	go fw.eventLoop(ctx)
	go fw.debounceLoop(ctx)
}

// Stop stops the watcher and waits for its goroutines.
func (fw *FileWatcher) Stop() error {
	if fw.cancel != nil {
		fw.cancel()
	}
	fw.wg.Wait()
	return fw.watcher.Close()
}

// Watch adds a dataset file's directory to the watch set. Watching the
// directory rather than the file survives rename-based atomic writes.
func (fw *FileWatcher) Watch(path string) error {
	return fw.watcher.Add(filepath.Dir(path))
}

func (fw *FileWatcher) eventLoop(ctx context.Context) {
	defer fw.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if event.Name != fw.session.Path() {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			fw.mu.Lock()
			fw.pending[event.Name] |= event.Op
			fw.mu.Unlock()
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("⚠️  Dataset watcher error: %v", err)
		}
	}
}

func (fw *FileWatcher) debounceLoop(ctx context.Context) {
	defer fw.wg.Done()
	ticker := time.NewTicker(fw.debounceTime)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fw.mu.Lock()
			pending := fw.pending
			fw.pending = make(map[string]fsnotify.Op)
			fw.mu.Unlock()

			for path, op := range pending {
				fw.apply(path, op)
			}
		}
	}
}

func (fw *FileWatcher) apply(path string, op fsnotify.Op) {
	if op&(fsnotify.Remove|fsnotify.Rename) != 0 {
		log.Printf("Dataset %s removed, clearing session", path)
		fw.session.clear()
		return
	}
	if _, err := fw.session.Load(path); err != nil {
		log.Printf("⚠️  Failed to reload changed dataset %s: %v", path, err)
		return
	}
	log.Printf("Dataset %s changed, reloaded", path)
}
