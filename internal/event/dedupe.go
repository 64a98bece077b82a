package event

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultDedupeSize is the number of recent event IDs a deduplicating handler remembers.
const DefaultDedupeSize = 4096

// Dedupe wraps handler so that an event redelivered by the retry queue is only
// handled once after it first succeeded. Events without an ID are always handled.
func Dedupe(size int, handler Handler) Handler {
	if size <= 0 {
		size = DefaultDedupeSize
	}
	seen, err := lru.New[string, struct{}](size)
	if err != nil {
		return handler
	}

	return func(ctx context.Context, e Event) error {
		if e.ID != "" && seen.Contains(e.ID) {
			return nil
		}
		if err := handler(ctx, e); err != nil {
			return err
		}
		if e.ID != "" {
			seen.Add(e.ID, struct{}{})
		}
		return nil
	}
}
