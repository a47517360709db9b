package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sweet is a catalog entry as served by the backend. The cart only ever
// holds snapshots of it; stock (Quantity) is owned server-side.
type Sweet struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	ImageURL    string  `json:"imageUrl"`
	Description string  `json:"description"`
}

// SweetInput is the payload for creating or updating a sweet. Fields are
// normalized and validated before they leave the client.
type SweetInput struct {
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	ImageURL    string  `json:"imageUrl"`
	Description string  `json:"description"`
}

const maxDescriptionLen = 1000

var ErrInvalidSweetInput = errors.New("invalid sweet input")

// Normalize trims surrounding whitespace from the free-text fields.
func (in *SweetInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	in.Description = strings.TrimSpace(in.Description)
}

// Validate checks the input against the backend's constraints so bad
// payloads are rejected before a request is issued.
func (in SweetInput) Validate() error {
	if in.Name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidSweetInput)
	}
	if in.Category == "" {
		return fmt.Errorf("%w: category cannot be empty", ErrInvalidSweetInput)
	}
	if in.Price <= 0 {
		return fmt.Errorf("%w: price must be greater than 0", ErrInvalidSweetInput)
	}
	if in.Quantity < 0 {
		return fmt.Errorf("%w: quantity cannot be negative", ErrInvalidSweetInput)
	}
	if in.ImageURL == "" {
		return fmt.Errorf("%w: image URL cannot be empty", ErrInvalidSweetInput)
	}
	if len(in.Description) > maxDescriptionLen {
		return fmt.Errorf("%w: description can be max %d characters", ErrInvalidSweetInput, maxDescriptionLen)
	}
	return nil
}
