package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"codeberg.org/secondbrain/client/internal/logger"
	"github.com/fsnotify/fsnotify"
)

// the document exists but is not a JSON object of strings
var errCorruptSession = errors.New("session file is corrupt")

// implements Backend as a JSON document on disk. writes go to a temp file
// in the same directory and are renamed over the document, so another
// process reading it sees either the old or the new contents.
type FileBackend struct {
	path string

	mu       sync.Mutex
	snapshot map[string]string // last contents written or observed by this process
}

// creates a file backend, creating the parent directory if needed
func NewFileBackend(path string) (*FileBackend, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	b := &FileBackend{path: filepath.Clean(path)}

	values, err := b.readOrReset()
	if err != nil {
		return nil, err
	}

	b.snapshot = values
	return b, nil
}

// returns the document path
func (b *FileBackend) Path() string {
	return b.path
}

func (b *FileBackend) Load(_ context.Context) (map[string]string, error) {
	return b.read()
}

func (b *FileBackend) Store(_ context.Context, set map[string]string, del []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	values, err := b.readOrReset()
	if err != nil {
		return err
	}

	for _, key := range del {
		delete(values, key)
	}
	maps.Copy(values, set)

	if err := b.write(values); err != nil {
		return err
	}

	b.snapshot = values
	return nil
}

// watches the directory rather than the file: the rename in Store replaces
// the inode, which would silently end a watch on the file itself.
func (b *FileBackend) Watch(ctx context.Context, onChange func(key string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close() //nolint:errcheck

	if err := watcher.Add(filepath.Dir(b.path)); err != nil {
		return fmt.Errorf("failed to watch session directory: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if filepath.Clean(event.Name) != b.path {
				continue
			}

			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}

			for _, key := range b.changedKeys() {
				onChange(key)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("file watcher failed: %w", err)
		}
	}
}

func (b *FileBackend) Close() error {
	return nil
}

// compares the document with the last known snapshot and adopts it
func (b *FileBackend) changedKeys() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	current, err := b.read()
	if err != nil {
		// partially visible or unreadable: wait for the next event
		return nil
	}

	changed := diffKeys(b.snapshot, current)
	b.snapshot = current

	return changed
}

func (b *FileBackend) read() (map[string]string, error) {
	data, err := os.ReadFile(b.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	values := map[string]string{}
	if len(data) == 0 {
		return values, nil
	}

	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("%w: %w", errCorruptSession, err)
	}

	return values, nil
}

// like read, but a corrupt document counts as empty so the next write
// replaces it
func (b *FileBackend) readOrReset() (map[string]string, error) {
	values, err := b.read()
	if errors.Is(err, errCorruptSession) {
		logger.Warn("ignoring corrupt session file", "path", b.path, "error", err)
		return map[string]string{}, nil
	}

	return values, err
}

func (b *FileBackend) write(values map[string]string) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(b.path), ".session-*")
	if err != nil {
		return fmt.Errorf("failed to create temp session file: %w", err)
	}

	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // no-op after a successful rename

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close() //nolint:errcheck
		return fmt.Errorf("failed to set session file permissions: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close() //nolint:errcheck
		return fmt.Errorf("failed to write session file: %w", err)
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close() //nolint:errcheck
		return fmt.Errorf("failed to sync session file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close session file: %w", err)
	}

	if err := os.Rename(tmpName, b.path); err != nil {
		return fmt.Errorf("failed to replace session file: %w", err)
	}

	return nil
}

// returns the sorted keys whose value differs between a and b
func diffKeys(a, b map[string]string) []string {
	changed := map[string]struct{}{}

	for k, v := range a {
		if bv, ok := b[k]; !ok || bv != v {
			changed[k] = struct{}{}
		}
	}

	for k, v := range b {
		if av, ok := a[k]; !ok || av != v {
			changed[k] = struct{}{}
		}
	}

	return slices.Sorted(maps.Keys(changed))
}
