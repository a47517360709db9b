// Package catalog holds the client's view of the sweet catalog and the
// admin mutations against it. Mutation errors always propagate to the
// caller; the local list is only refreshed after the backend accepted the
// change.
package catalog

import (
	"context"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/AdY21850/sweet-shop-manager/internal/api"
	"github.com/AdY21850/sweet-shop-manager/internal/domain"
)

// API is the slice of the backend client the catalog needs.
type API interface {
	ListSweets(ctx context.Context) ([]domain.Sweet, error)
	SearchSweets(ctx context.Context, q api.SearchQuery) ([]domain.Sweet, error)
	AddSweet(ctx context.Context, input domain.SweetInput) (*domain.Sweet, error)
	UpdateSweet(ctx context.Context, id int64, input domain.SweetInput) (*domain.Sweet, error)
	DeleteSweet(ctx context.Context, id int64) error
}

type Service struct {
	api API
	log logrus.FieldLogger
	sfg singleflight.Group // collapses concurrent reloads

	mu     sync.RWMutex
	sweets []domain.Sweet
}

func NewService(backend API, log logrus.FieldLogger) *Service {
	return &Service{api: backend, log: log}
}

// Load fetches the catalog from the backend and replaces the local list.
// Concurrent calls share one in-flight request.
func (s *Service) Load(ctx context.Context) ([]domain.Sweet, error) {
	v, err, _ := s.sfg.Do("load", func() (interface{}, error) {
		sweets, err := s.api.ListSweets(ctx)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.sweets = sweets
		s.mu.Unlock()
		return sweets, nil
	})
	if err != nil {
		s.log.WithError(err).Debug("catalog load failed")
		return nil, err
	}
	return v.([]domain.Sweet), nil
}

// Sweets returns the last loaded catalog.
func (s *Service) Sweets() []domain.Sweet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sweets := make([]domain.Sweet, len(s.sweets))
	copy(sweets, s.sweets)
	return sweets
}

// Filter narrows the loaded catalog by a case-insensitive name match,
// the storefront search box behavior.
func (s *Service) Filter(query string) []domain.Sweet {
	query = strings.ToLower(strings.TrimSpace(query))

	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []domain.Sweet
	for _, sweet := range s.sweets {
		if query == "" || strings.Contains(strings.ToLower(sweet.Name), query) {
			matched = append(matched, sweet)
		}
	}
	return matched
}

// Search queries the backend's search endpoint directly, bypassing the
// local list.
func (s *Service) Search(ctx context.Context, q api.SearchQuery) ([]domain.Sweet, error) {
	return s.api.SearchSweets(ctx, q)
}

// AddSweet validates and creates a catalog entry, then reloads.
func (s *Service) AddSweet(ctx context.Context, input domain.SweetInput) error {
	input.Normalize()
	if err := input.Validate(); err != nil {
		return err
	}
	if _, err := s.api.AddSweet(ctx, input); err != nil {
		return err
	}
	_, err := s.Load(ctx)
	return err
}

// UpdateSweet validates and replaces a catalog entry, then reloads.
func (s *Service) UpdateSweet(ctx context.Context, id int64, input domain.SweetInput) error {
	input.Normalize()
	if err := input.Validate(); err != nil {
		return err
	}
	if _, err := s.api.UpdateSweet(ctx, id, input); err != nil {
		return err
	}
	_, err := s.Load(ctx)
	return err
}

// DeleteSweet removes a catalog entry, then reloads.
func (s *Service) DeleteSweet(ctx context.Context, id int64) error {
	if err := s.api.DeleteSweet(ctx, id); err != nil {
		return err
	}
	_, err := s.Load(ctx)
	return err
}
