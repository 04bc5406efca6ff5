package events

import (
	"context"
	"errors"

	"codeberg.org/secondbrain/client/internal/logger"
)

// reports changes to persisted keys made outside this process
type Watcher interface {
	Watch(ctx context.Context, onChange func(key string)) error
}

// forwards storage changes from w onto the bus until ctx is done. runs in
// its own goroutine, so these events have no ordering relative to
// in-process publishes.
func BridgeStorage(ctx context.Context, w Watcher, bus *Bus) <-chan error {
	done := make(chan error, 1)

	go func() {
		defer close(done)

		err := w.Watch(ctx, func(key string) {
			bus.Storage.Publish(StorageChange{Key: key})
		})

		if err != nil && !errors.Is(err, context.Canceled) {
			logger.ErrorErr(err, "session watcher stopped")
			done <- err
		}
	}()

	return done
}
