package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pkg/errors"

	"github.com/AdY21850/sweet-shop-manager/internal/domain"
)

// SearchQuery filters the catalog server-side. Nil fields are omitted from
// the query string; the backend applies the first non-empty filter.
type SearchQuery struct {
	Name     string
	Category string
	MinPrice *float64
	MaxPrice *float64
}

// ListSweets fetches the full catalog. Public, no token required.
func (c *Client) ListSweets(ctx context.Context) ([]domain.Sweet, error) {
	var sweets []domain.Sweet
	if err := c.do(ctx, http.MethodGet, "/sweets", nil, &sweets); err != nil {
		return nil, err
	}
	return sweets, nil
}

// SearchSweets queries the catalog search endpoint.
func (c *Client) SearchSweets(ctx context.Context, q SearchQuery) ([]domain.Sweet, error) {
	params := url.Values{}
	if q.Name != "" {
		params.Set("name", q.Name)
	}
	if q.Category != "" {
		params.Set("category", q.Category)
	}
	if q.MinPrice != nil {
		params.Set("minPrice", strconv.FormatFloat(*q.MinPrice, 'f', -1, 64))
	}
	if q.MaxPrice != nil {
		params.Set("maxPrice", strconv.FormatFloat(*q.MaxPrice, 'f', -1, 64))
	}

	path := "/sweets/search"
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var sweets []domain.Sweet
	if err := c.do(ctx, http.MethodGet, path, nil, &sweets); err != nil {
		return nil, err
	}
	return sweets, nil
}

// AddSweet creates a catalog entry. Admin-only server-side.
func (c *Client) AddSweet(ctx context.Context, input domain.SweetInput) (*domain.Sweet, error) {
	var sweet domain.Sweet
	if err := c.do(ctx, http.MethodPost, "/sweets", input, &sweet); err != nil {
		return nil, err
	}
	return &sweet, nil
}

// UpdateSweet replaces the catalog entry with the given id.
func (c *Client) UpdateSweet(ctx context.Context, id int64, input domain.SweetInput) (*domain.Sweet, error) {
	var sweet domain.Sweet
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/sweets/%d", id), input, &sweet); err != nil {
		return nil, err
	}
	return &sweet, nil
}

// DeleteSweet removes the catalog entry with the given id.
func (c *Client) DeleteSweet(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/sweets/%d", id), nil, nil)
}

// PurchaseSweet decrements the sweet's stock by exactly one unit and
// returns the updated entry. A conflict reply maps to ErrOutOfStock.
func (c *Client) PurchaseSweet(ctx context.Context, id int64) (*domain.Sweet, error) {
	var sweet domain.Sweet
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/sweets/%d/purchase", id), nil, &sweet)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusConflict {
			return nil, errors.Wrap(ErrOutOfStock, apiErr.Message)
		}
		return nil, err
	}
	return &sweet, nil
}

// ActiveHero fetches the current storefront banner, nil when none is
// configured.
func (c *Client) ActiveHero(ctx context.Context) (*domain.Hero, error) {
	var hero domain.Hero
	err := c.do(ctx, http.MethodGet, "/hero/active", nil, &hero)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &hero, nil
}
