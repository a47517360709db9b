package cart

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/AdY21850/sweet-shop-manager/internal/domain"
)

// ErrCorruptMirror reports that the persisted cart record could not be
// decoded. Callers treat it as an absent record, never a fatal error.
var ErrCorruptMirror = errors.New("cart mirror record is corrupt")

// Mirror is the durable copy of the in-memory cart, written after every
// mutation so a fresh session reconstructs the identical cart.
type Mirror interface {
	// Load returns the persisted line items, nil when no record exists.
	Load() ([]domain.LineItem, error)
	Save(items []domain.LineItem) error
	Clear() error
}

const mirrorFileName = "cart.json"

// FileMirror persists the cart as a JSON file under the state directory.
type FileMirror struct {
	path string
}

func NewFileMirror(stateDir string) (*FileMirror, error) {
	if err := os.MkdirAll(stateDir, 0o700); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	return &FileMirror{path: filepath.Join(stateDir, mirrorFileName)}, nil
}

func (m *FileMirror) Load() ([]domain.LineItem, error) {
	data, err := os.ReadFile(m.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cart mirror: %w", err)
	}

	var items []domain.LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptMirror, err)
	}
	return items, nil
}

func (m *FileMirror) Save(items []domain.LineItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode cart mirror: %w", err)
	}
	if err := os.WriteFile(m.path, data, 0o600); err != nil {
		return fmt.Errorf("write cart mirror: %w", err)
	}
	return nil
}

func (m *FileMirror) Clear() error {
	err := os.Remove(m.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove cart mirror: %w", err)
	}
	return nil
}
