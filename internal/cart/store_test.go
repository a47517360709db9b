package cart

import (
	"errors"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AdY21850/sweet-shop-manager/internal/domain"
)

type mockMirror struct {
	m       sync.Mutex
	items   []domain.LineItem
	loadErr  error
	saveErr  error
	clearErr error
	saves    int
}

func (m *mockMirror) Load() ([]domain.LineItem, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.items, nil
}

func (m *mockMirror) Save(items []domain.LineItem) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.items = append([]domain.LineItem(nil), items...)
	m.saves++
	return nil
}

func (m *mockMirror) Clear() error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.clearErr != nil {
		return m.clearErr
	}
	m.items = nil
	return nil
}

func testLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func newTestStore(t *testing.T) (*Store, *mockMirror) {
	t.Helper()
	mirror := &mockMirror{}
	store, err := NewStore(mirror, testLogger())
	require.NoError(t, err)
	return store, mirror
}

func sampleSweet() domain.Sweet {
	return domain.Sweet{
		ID:       1,
		Name:     "Kaju Katli",
		Category: "Barfi",
		Price:    250,
		Quantity: 10,
		ImageURL: "https://example.com/kaju.jpg",
	}
}

func TestAdd_NewItem(t *testing.T) {
	store, _ := newTestStore(t)

	require.NoError(t, store.Add(sampleSweet()))

	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, int64(1), items[0].ID)
	assert.Equal(t, 1, items[0].Quantity)
	assert.Equal(t, "Kaju Katli", items[0].Name)
	assert.Equal(t, 250.0, items[0].Price)
}

func TestAdd_MergesSameID(t *testing.T) {
	store, _ := newTestStore(t)

	require.NoError(t, store.Add(sampleSweet()))
	require.NoError(t, store.Add(sampleSweet()))

	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestAdd_InvalidSnapshot(t *testing.T) {
	store, mirror := newTestStore(t)

	err := store.Add(domain.Sweet{ID: 0, Name: "ghost"})
	assert.ErrorIs(t, err, ErrInvalidItem)

	err = store.Add(domain.Sweet{ID: 2, Price: -1})
	assert.ErrorIs(t, err, ErrInvalidItem)

	assert.Empty(t, store.Items())
	assert.Zero(t, mirror.saves)
}

func TestAdd_PreservesInsertionOrder(t *testing.T) {
	store, _ := newTestStore(t)

	require.NoError(t, store.Add(domain.Sweet{ID: 3, Name: "Ladoo", Price: 100}))
	require.NoError(t, store.Add(domain.Sweet{ID: 1, Name: "Jalebi", Price: 80}))
	require.NoError(t, store.Add(domain.Sweet{ID: 2, Name: "Barfi", Price: 120}))
	require.NoError(t, store.Add(domain.Sweet{ID: 1, Name: "Jalebi", Price: 80}))

	items := store.Items()
	require.Len(t, items, 3)
	assert.Equal(t, int64(3), items[0].ID)
	assert.Equal(t, int64(1), items[1].ID)
	assert.Equal(t, int64(2), items[2].ID)
}

func TestUpdateQuantity_Increment(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.Add(sampleSweet()))

	require.NoError(t, store.UpdateQuantity(1, 2))

	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
}

func TestUpdateQuantity_RemovesAtZero(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.Add(sampleSweet()))
	require.NoError(t, store.Add(sampleSweet()))

	require.NoError(t, store.UpdateQuantity(1, -1))
	require.Len(t, store.Items(), 1)
	assert.Equal(t, 1, store.Items()[0].Quantity)

	require.NoError(t, store.UpdateQuantity(1, -1))
	assert.Empty(t, store.Items())
}

func TestUpdateQuantity_NeverObservableBelowOne(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.Add(sampleSweet()))

	require.NoError(t, store.UpdateQuantity(1, -5))

	assert.Empty(t, store.Items())
}

func TestUpdateQuantity_UnknownIDIsNoop(t *testing.T) {
	store, mirror := newTestStore(t)
	require.NoError(t, store.Add(sampleSweet()))
	savesBefore := mirror.saves

	require.NoError(t, store.UpdateQuantity(42, 1))

	require.Len(t, store.Items(), 1)
	assert.Equal(t, 1, store.Items()[0].Quantity)
	assert.Equal(t, savesBefore, mirror.saves)
}

func TestRemove_Idempotent(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.Add(sampleSweet()))

	require.NoError(t, store.Remove(42))
	require.Len(t, store.Items(), 1)

	require.NoError(t, store.Remove(1))
	assert.Empty(t, store.Items())

	require.NoError(t, store.Remove(1))
	assert.Empty(t, store.Items())
}

func TestClear(t *testing.T) {
	store, mirror := newTestStore(t)
	require.NoError(t, store.Add(sampleSweet()))

	require.NoError(t, store.Clear())

	assert.Empty(t, store.Items())
	assert.Empty(t, mirror.items)
}

func TestClear_MirrorFailureKeepsItems(t *testing.T) {
	mirror := &mockMirror{clearErr: errors.New("mirror delete failed")}
	store, err := NewStore(mirror, testLogger())
	require.NoError(t, err)
	require.NoError(t, store.Add(sampleSweet()))

	err = store.Clear()

	assert.Error(t, err)
	// memory still matches the durable record, so a reload would not
	// resurrect a cart the user believed was cleared
	require.Len(t, store.Items(), 1)
	assert.Equal(t, store.Items(), mirror.items)
}

func TestCountAndSubtotal(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.Add(domain.Sweet{ID: 1, Name: "Ladoo", Price: 100}))
	require.NoError(t, store.Add(domain.Sweet{ID: 1, Name: "Ladoo", Price: 100}))
	require.NoError(t, store.Add(domain.Sweet{ID: 2, Name: "Barfi", Price: 120}))

	assert.Equal(t, 3, store.Count())
	assert.Equal(t, 320.0, store.Subtotal())

	require.NoError(t, store.UpdateQuantity(2, 3))
	assert.Equal(t, 6, store.Count())
	assert.Equal(t, 680.0, store.Subtotal())
}

func TestEveryMutationPersists(t *testing.T) {
	store, mirror := newTestStore(t)

	require.NoError(t, store.Add(sampleSweet()))
	assert.Equal(t, store.Items(), mirror.items)

	require.NoError(t, store.UpdateQuantity(1, 2))
	assert.Equal(t, store.Items(), mirror.items)

	require.NoError(t, store.Remove(1))
	assert.Empty(t, mirror.items)
}

func TestAdd_PersistFailurePropagates(t *testing.T) {
	mirror := &mockMirror{saveErr: errors.New("disk full")}
	store, err := NewStore(mirror, testLogger())
	require.NoError(t, err)

	err = store.Add(sampleSweet())
	assert.Error(t, err)
}

func TestNewStore_RestoresFromMirror(t *testing.T) {
	mirror := &mockMirror{items: []domain.LineItem{
		{ID: 1, Name: "Ladoo", Price: 100, Quantity: 2},
		{ID: 2, Name: "Barfi", Price: 120, Quantity: 1},
	}}

	store, err := NewStore(mirror, testLogger())
	require.NoError(t, err)

	items := store.Items()
	require.Len(t, items, 2)
	assert.Equal(t, int64(1), items[0].ID)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 320.0, store.Subtotal())
}

func TestNewStore_CorruptMirrorFailsOpen(t *testing.T) {
	mirror := &mockMirror{loadErr: ErrCorruptMirror}

	store, err := NewStore(mirror, testLogger())
	require.NoError(t, err)

	assert.Empty(t, store.Items())
}

func TestNewStore_IOFailurePropagates(t *testing.T) {
	mirror := &mockMirror{loadErr: errors.New("permission denied")}

	_, err := NewStore(mirror, testLogger())
	assert.Error(t, err)
}
