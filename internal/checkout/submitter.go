// Package checkout converts the current cart into inventory decrements
// against the backend and clears the cart once everything went through.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/AdY21850/sweet-shop-manager/internal/domain"
	"github.com/AdY21850/sweet-shop-manager/internal/pricing"
)

var (
	ErrEmptyCart          = errors.New("cart is empty, nothing to checkout")
	ErrCheckoutInProgress = errors.New("checkout already in progress")
)

// Inventory is the slice of the API client the submitter needs: one call
// decrements stock by exactly one unit.
type Inventory interface {
	PurchaseSweet(ctx context.Context, id int64) (*domain.Sweet, error)
}

// Cart is the slice of the cart store the submitter needs.
type Cart interface {
	Items() []domain.LineItem
	Clear() error
}

// Receipt summarizes a fully submitted order.
type Receipt struct {
	OrderID  string
	Lines    []domain.LineItem
	Quote    pricing.Quote
	PlacedAt time.Time
}

// Submitter walks the cart in order and issues one purchase request per
// unit, sequentially. The backend only exposes a single-unit decrement,
// so a cart line of quantity N becomes N requests; a failure partway
// leaves earlier decrements in place with no compensating action, and the
// cart untouched.
type Submitter struct {
	inventory Inventory
	cart      Cart
	pricing   pricing.Calculator
	log       logrus.FieldLogger

	mu     sync.Mutex
	status Status
}

func NewSubmitter(inventory Inventory, cart Cart, calc pricing.Calculator, log logrus.FieldLogger) *Submitter {
	return &Submitter{
		inventory: inventory,
		cart:      cart,
		pricing:   calc,
		log:       log,
		status:    StatusIdle,
	}
}

// Status returns the state of the most recent checkout attempt.
func (s *Submitter) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// begin moves Idle (or a terminal state) to Submitting; a second caller
// while a checkout is running is rejected.
func (s *Submitter) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == StatusSubmitting {
		return ErrCheckoutInProgress
	}
	s.status = StatusSubmitting
	return nil
}

func (s *Submitter) finish(status Status) {
	s.mu.Lock()
	s.status = status
	s.mu.Unlock()
}

// PlaceOrder submits the current cart. On full success the cart is
// cleared and a receipt returned; on any failure the loop stops at the
// failing request, the error propagates, and no retry or rollback is
// attempted.
func (s *Submitter) PlaceOrder(ctx context.Context) (*Receipt, error) {
	lines := s.cart.Items()
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}
	if err := s.begin(); err != nil {
		return nil, err
	}

	orderID := uuid.NewString()
	log := s.log.WithField("order_id", orderID)

	for _, line := range lines {
		for unit := 1; unit <= line.Quantity; unit++ {
			if _, err := s.inventory.PurchaseSweet(ctx, line.ID); err != nil {
				s.finish(StatusFailed)
				log.WithError(err).WithFields(logrus.Fields{
					"sweet_id": line.ID,
					"unit":     unit,
				}).Error("purchase request failed, aborting checkout")
				return nil, fmt.Errorf("purchase sweet %d (unit %d of %d): %w", line.ID, unit, line.Quantity, err)
			}
		}
	}

	if err := s.cart.Clear(); err != nil {
		s.finish(StatusFailed)
		return nil, fmt.Errorf("clear cart after checkout: %w", err)
	}
	s.finish(StatusSucceeded)

	receipt := &Receipt{
		OrderID:  orderID,
		Lines:    lines,
		Quote:    s.pricing.Quote(lines),
		PlacedAt: time.Now(),
	}
	log.WithField("total", receipt.Quote.Total.String()).Info("order placed")
	return receipt, nil
}
