package cart

import (
	"context"
	"errors"
)

// Storage persists a serialized cart per slot key.
// Consumers define this interface, not the Redis implementation.
type Storage interface {
	Load(ctx context.Context, slot string) ([]CartItem, error)
	Save(ctx context.Context, slot string, items []CartItem) error
	Delete(ctx context.Context, slot string) error
}

var (
	// ErrNotFound means the slot holds no cart yet.
	ErrNotFound = errors.New("cart not found")
	// ErrCorrupt means the slot holds a payload that cannot be decoded.
	// Stores recover from it by starting empty.
	ErrCorrupt = errors.New("corrupt cart payload")
)
