package events

import (
	"sync"

	"github.com/google/uuid"
)

// Topic is a typed publish/subscribe channel. Publish delivers synchronously,
// in emission order, to the subscribers registered when Publish was called.
type Topic[T any] struct {
	mu          sync.RWMutex
	order       []string
	subscribers map[string]func(T)
}

// creates an empty topic
func NewTopic[T any]() *Topic[T] {
	return &Topic[T]{
		subscribers: make(map[string]func(T)),
	}
}

// registers handler and returns the function that removes it. the returned
// function is safe to call more than once.
func (t *Topic[T]) Subscribe(handler func(T)) (unsubscribe func()) {
	id := uuid.NewString()

	t.mu.Lock()
	t.subscribers[id] = handler
	t.order = append(t.order, id)
	t.mu.Unlock()

	var once sync.Once

	return func() {
		once.Do(func() {
			t.remove(id)
		})
	}
}

// invokes every current subscriber with event before returning
func (t *Topic[T]) Publish(event T) {
	t.mu.RLock()
	handlers := make([]func(T), 0, len(t.order))
	for _, id := range t.order {
		handlers = append(handlers, t.subscribers[id])
	}
	t.mu.RUnlock()

	// handlers may subscribe or unsubscribe while running
	for _, handler := range handlers {
		handler(event)
	}
}

// returns the number of active subscribers
func (t *Topic[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.subscribers)
}

func (t *Topic[T]) remove(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.subscribers, id)

	for i, existing := range t.order {
		if existing == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
}

// Bus groups the topics the client components coordinate through
type Bus struct {
	Auth    *Topic[AuthChange]
	Storage *Topic[StorageChange]
	Profile *Topic[ProfileUpdate]
}

// creates a bus with empty topics
func NewBus() *Bus {
	return &Bus{
		Auth:    NewTopic[AuthChange](),
		Storage: NewTopic[StorageChange](),
		Profile: NewTopic[ProfileUpdate](),
	}
}
