package session

import (
	"context"
	"maps"
	"sync"
)

// MemorySpace is in-process storage that several MemoryBackends share, the
// way browser tabs share one origin's storage. Changes made through one
// backend are reported to watchers of the others.
type MemorySpace struct {
	mu       sync.Mutex
	data     map[string]string
	nextID   int
	watchers map[int]*memoryWatcher
}

type memoryWatcher struct {
	backendID int
	keys      chan string
	done      <-chan struct{}
}

func NewMemorySpace() *MemorySpace {
	return &MemorySpace{
		data:     make(map[string]string),
		watchers: make(map[int]*memoryWatcher),
	}
}

// returns a new view onto the space
func (s *MemorySpace) Backend() *MemoryBackend {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	return &MemoryBackend{space: s, id: s.nextID}
}

// implements Backend in memory; used by tests and BRAIN_SESSION_BACKEND=memory
type MemoryBackend struct {
	space *MemorySpace
	id    int
}

// creates a backend over its own private space
func NewMemoryBackend() *MemoryBackend {
	return NewMemorySpace().Backend()
}

func (b *MemoryBackend) Load(_ context.Context) (map[string]string, error) {
	b.space.mu.Lock()
	defer b.space.mu.Unlock()

	return maps.Clone(b.space.data), nil
}

func (b *MemoryBackend) Store(_ context.Context, set map[string]string, del []string) error {
	b.space.mu.Lock()

	changed := make([]string, 0, len(set)+len(del))
	for _, key := range del {
		if _, ok := b.space.data[key]; ok {
			delete(b.space.data, key)
			changed = append(changed, key)
		}
	}

	for key, value := range set {
		if old, ok := b.space.data[key]; !ok || old != value {
			changed = append(changed, key)
		}
		b.space.data[key] = value
	}

	targets := make([]*memoryWatcher, 0, len(b.space.watchers))
	for _, w := range b.space.watchers {
		if w.backendID != b.id {
			targets = append(targets, w)
		}
	}

	b.space.mu.Unlock()

	for _, w := range targets {
		for _, key := range changed {
			select {
			case w.keys <- key:
			case <-w.done:
			}
		}
	}

	return nil
}

func (b *MemoryBackend) Watch(ctx context.Context, onChange func(key string)) error {
	w := &memoryWatcher{
		backendID: b.id,
		keys:      make(chan string, 64),
		done:      ctx.Done(),
	}

	b.space.mu.Lock()
	b.space.nextID++
	watcherID := b.space.nextID
	b.space.watchers[watcherID] = w
	b.space.mu.Unlock()

	defer func() {
		b.space.mu.Lock()
		delete(b.space.watchers, watcherID)
		b.space.mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case key := <-w.keys:
			onChange(key)
		}
	}
}

func (b *MemoryBackend) Close() error {
	return nil
}
