package cart

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/AdY21850/sweet-shop-manager/internal/domain"
)

var ErrInvalidItem = errors.New("invalid cart item")

// Store holds the authoritative client-side cart: an ordered sequence of
// line items, at most one per sweet id, each with quantity >= 1. Every
// mutation is written through to the durable mirror before returning.
type Store struct {
	mu     sync.Mutex
	items  []domain.LineItem
	mirror Mirror
	log    logrus.FieldLogger
}

// NewStore restores the cart from the mirror. An absent or corrupt record
// yields an empty cart; corruption is logged, never fatal.
func NewStore(mirror Mirror, log logrus.FieldLogger) (*Store, error) {
	items, err := mirror.Load()
	if err != nil {
		if !errors.Is(err, ErrCorruptMirror) {
			return nil, fmt.Errorf("restore cart: %w", err)
		}
		log.WithError(err).Warn("discarding corrupt cart mirror")
		items = nil
	}
	return &Store{items: items, mirror: mirror, log: log}, nil
}

// Add puts one unit of the sweet into the cart. An existing line item for
// the same id is incremented; otherwise a new line item is appended with
// quantity 1, preserving insertion order.
func (s *Store) Add(sweet domain.Sweet) error {
	if sweet.ID <= 0 {
		return fmt.Errorf("%w: missing sweet id", ErrInvalidItem)
	}
	if sweet.Price < 0 {
		return fmt.Errorf("%w: negative price", ErrInvalidItem)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == sweet.ID {
			s.items[i].Quantity++
			return s.persist()
		}
	}
	s.items = append(s.items, domain.LineItem{
		ID:       sweet.ID,
		Name:     sweet.Name,
		Price:    sweet.Price,
		ImageURL: sweet.ImageURL,
		Quantity: 1,
	})
	return s.persist()
}

// UpdateQuantity adjusts the matching line item's quantity by delta. A
// resulting quantity <= 0 removes the line item entirely; an unknown id is
// a no-op.
func (s *Store) UpdateQuantity(id int64, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID != id {
			continue
		}
		s.items[i].Quantity += delta
		if s.items[i].Quantity <= 0 {
			s.items = append(s.items[:i], s.items[i+1:]...)
		}
		return s.persist()
	}
	return nil
}

// Remove drops the line item with the given id; removing an absent id
// leaves the cart unchanged.
func (s *Store) Remove(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, item := range s.items {
		if item.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return s.persist()
		}
	}
	return nil
}

// Clear empties the cart and deletes the durable mirror. The mirror is
// deleted first: if that fails the in-memory cart is kept, so memory and
// the durable record never disagree.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.mirror.Clear(); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	s.items = nil
	return nil
}

// Items returns a copy of the cart in insertion order.
func (s *Store) Items() []domain.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]domain.LineItem, len(s.items))
	copy(items, s.items)
	return items
}

// Count returns the number of units across all line items.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, item := range s.items {
		total += item.Quantity
	}
	return total
}

// Subtotal returns the sum of price * quantity across all line items,
// recomputed fresh on every call.
func (s *Store) Subtotal() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0.0
	for _, item := range s.items {
		total += item.LineTotal()
	}
	return total
}

// persist writes the current items through to the mirror. Callers hold the
// lock.
func (s *Store) persist() error {
	if err := s.mirror.Save(s.items); err != nil {
		return fmt.Errorf("persist cart: %w", err)
	}
	return nil
}
