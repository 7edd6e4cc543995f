package cart

import (
	"context"
	"errors"
	"log"

	"github.com/shopspring/decimal"
)

// Store is the single source of truth for one shopper's purchase intent.
// It is bound to one storage slot: construction loads the slot, and every
// mutation re-serializes the whole cart back to it. Mutations never fail;
// a storage write error is logged and the in-memory state stays current
// (last-write-wins on the next mutation).
//
// A Store is owned by a single request flow and is not safe for concurrent
// use. Two requests sharing a slot race on the storage write; that window
// is an accepted inconsistency, not something the store papers over.
type Store struct {
	slot    string
	storage Storage
	cart    Cart
}

// NewStore loads the slot's cart. A missing slot starts empty; a corrupt
// payload is discarded with a log line and also starts empty.
func NewStore(ctx context.Context, storage Storage, slot string) *Store {
	s := &Store{slot: slot, storage: storage}

	items, err := storage.Load(ctx, slot)
	switch {
	case err == nil:
		s.cart.Items = items
	case errors.Is(err, ErrNotFound):
		// first use, empty cart
	default:
		log.Printf("cart load error for slot %s: %v", slot, err)
	}
	return s
}

// AddItem merges the item into the cart: an existing line with the same
// (product, variant) identity gains quantity 1, otherwise a new line is
// appended with quantity 1. The item's own Quantity field is ignored.
func (s *Store) AddItem(ctx context.Context, item CartItem) {
	if idx := s.cart.find(item.Key()); idx >= 0 {
		s.cart.Items[idx].Quantity++
	} else {
		item.Quantity = 1
		s.cart.Items = append(s.cart.Items, item)
	}
	s.persist(ctx)
}

// RemoveItem deletes the line with the given identity. Removing an absent
// line is a no-op, not an error.
func (s *Store) RemoveItem(ctx context.Context, key LineKey) {
	idx := s.cart.find(key)
	if idx < 0 {
		return
	}
	s.cart.Items = append(s.cart.Items[:idx], s.cart.Items[idx+1:]...)
	s.persist(ctx)
}

// UpdateQuantity replaces the line's quantity. A quantity of zero or less
// removes the line instead of storing a non-positive quantity. No-op when
// the identity is absent.
func (s *Store) UpdateQuantity(ctx context.Context, key LineKey, quantity int) {
	if quantity <= 0 {
		s.RemoveItem(ctx, key)
		return
	}
	idx := s.cart.find(key)
	if idx < 0 {
		return
	}
	s.cart.Items[idx].Quantity = quantity
	s.persist(ctx)
}

// Clear empties the cart unconditionally.
func (s *Store) Clear(ctx context.Context) {
	s.cart.Items = nil
	if err := s.storage.Delete(ctx, s.slot); err != nil {
		log.Printf("cart delete error for slot %s: %v", s.slot, err)
	}
}

// Items returns a point-in-time copy of the cart lines.
func (s *Store) Items() []CartItem {
	items := make([]CartItem, len(s.cart.Items))
	copy(items, s.cart.Items)
	return items
}

func (s *Store) TotalItems() int {
	return s.cart.TotalItems()
}

func (s *Store) TotalPrice() decimal.Decimal {
	return s.cart.TotalPrice()
}

func (s *Store) persist(ctx context.Context) {
	if err := s.storage.Save(ctx, s.slot, s.cart.Items); err != nil {
		log.Printf("cart save error for slot %s: %v", s.slot, err)
	}
}
