// Package apitest provides an in-process stand-in for the sweet shop
// backend, used by client and checkout tests. It mirrors the real REST
// surface closely enough to exercise the full request path.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/AdY21850/sweet-shop-manager/internal/domain"
)

type account struct {
	user     domain.User
	password string
}

// Backend is the mutable state behind the fake server. Tests may inspect
// and adjust it directly between requests.
type Backend struct {
	mu     sync.Mutex
	sweets map[int64]*domain.Sweet
	order  []int64
	nextID int64

	accounts map[string]*account

	Hero *domain.Hero

	// PurchaseCalls records sweet ids in the order purchase requests
	// arrived, one entry per unit.
	PurchaseCalls []int64
	// FailPurchaseAt makes the Nth purchase call (1-based) reply 500;
	// zero disables the fault.
	FailPurchaseAt int

	LastAuthHeader string
}

func NewBackend() *Backend {
	return &Backend{
		sweets:   make(map[int64]*domain.Sweet),
		nextID:   1,
		accounts: make(map[string]*account),
	}
}

// Seed inserts a sweet with a fixed id, replacing any previous entry.
func (b *Backend) Seed(sweet domain.Sweet) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.sweets[sweet.ID]; !exists {
		b.order = append(b.order, sweet.ID)
	}
	copied := sweet
	b.sweets[sweet.ID] = &copied
	if sweet.ID >= b.nextID {
		b.nextID = sweet.ID + 1
	}
}

// SeedAccount registers a user with a known password and returns a token
// the real login endpoint would also hand out for it.
func (b *Backend) SeedAccount(user domain.User, password string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.accounts[user.Email] = &account{user: user, password: password}
	return "test-token-" + user.Email
}

// Sweet returns a copy of the stored sweet, nil when absent.
func (b *Backend) Sweet(id int64) *domain.Sweet {
	b.mu.Lock()
	defer b.mu.Unlock()
	sweet, ok := b.sweets[id]
	if !ok {
		return nil
	}
	copied := *sweet
	return &copied
}

// NewServer starts an httptest server over the backend. The caller owns
// the server and must Close it.
func NewServer(b *Backend) *httptest.Server {
	r := chi.NewRouter()

	r.Route("/sweets", func(r chi.Router) {
		r.Get("/", b.listSweets)
		r.Post("/", b.addSweet)
		r.Get("/search", b.searchSweets)
		r.Put("/{id}", b.updateSweet)
		r.Delete("/{id}", b.deleteSweet)
		r.Put("/{id}/purchase", b.purchaseSweet)
	})
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", b.login)
		r.Post("/register", b.register)
	})
	r.Get("/hero/active", b.activeHero)

	return httptest.NewServer(r)
}

func (b *Backend) listSweets(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.LastAuthHeader = r.Header.Get("Authorization")

	respondJSON(w, http.StatusOK, b.sweetsLocked())
}

// searchSweets applies the first present filter, the way the real search
// endpoint does: name, then category, then the minPrice/maxPrice pair.
func (b *Backend) searchSweets(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	query := r.URL.Query()
	name := query.Get("name")
	category := query.Get("category")
	minPrice, hasMin := parsePrice(query.Get("minPrice"))
	maxPrice, hasMax := parsePrice(query.Get("maxPrice"))

	matches := func(sweet domain.Sweet) bool {
		switch {
		case name != "":
			return containsFold(sweet.Name, name)
		case category != "":
			return equalsFold(sweet.Category, category)
		case hasMin && hasMax:
			return sweet.Price >= minPrice && sweet.Price <= maxPrice
		default:
			return true
		}
	}

	matched := []domain.Sweet{}
	for _, sweet := range b.sweetsLocked() {
		if matches(sweet) {
			matched = append(matched, sweet)
		}
	}
	respondJSON(w, http.StatusOK, matched)
}

func parsePrice(raw string) (float64, bool) {
	if raw == "" {
		return 0, false
	}
	price, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return price, true
}

func (b *Backend) addSweet(w http.ResponseWriter, r *http.Request) {
	var input domain.SweetInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.LastAuthHeader = r.Header.Get("Authorization")

	sweet := &domain.Sweet{
		ID:          b.nextID,
		Name:        input.Name,
		Category:    input.Category,
		Price:       input.Price,
		Quantity:    input.Quantity,
		ImageURL:    input.ImageURL,
		Description: input.Description,
	}
	b.nextID++
	b.sweets[sweet.ID] = sweet
	b.order = append(b.order, sweet.ID)

	respondJSON(w, http.StatusOK, sweet)
}

func (b *Backend) updateSweet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var input domain.SweetInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	sweet, ok := b.sweets[id]
	if !ok {
		respondError(w, http.StatusNotFound, "Sweet not found with id "+strconv.FormatInt(id, 10))
		return
	}
	sweet.Name = input.Name
	sweet.Category = input.Category
	sweet.Price = input.Price
	sweet.Quantity = input.Quantity
	sweet.ImageURL = input.ImageURL
	sweet.Description = input.Description

	respondJSON(w, http.StatusOK, sweet)
}

func (b *Backend) deleteSweet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.sweets[id]; !ok {
		respondError(w, http.StatusNotFound, "Sweet not found with id "+strconv.FormatInt(id, 10))
		return
	}
	delete(b.sweets, id)
	for i, sid := range b.order {
		if sid == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (b *Backend) purchaseSweet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.LastAuthHeader = r.Header.Get("Authorization")

	call := len(b.PurchaseCalls) + 1
	if b.FailPurchaseAt != 0 && call == b.FailPurchaseAt {
		respondError(w, http.StatusInternalServerError, "injected purchase failure")
		return
	}

	sweet, ok := b.sweets[id]
	if !ok {
		respondError(w, http.StatusNotFound, "Sweet not found with id "+strconv.FormatInt(id, 10))
		return
	}
	if sweet.Quantity <= 0 {
		respondError(w, http.StatusConflict, "Sweet out of stock")
		return
	}
	sweet.Quantity--
	b.PurchaseCalls = append(b.PurchaseCalls, id)

	respondJSON(w, http.StatusOK, sweet)
}

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	acct, ok := b.accounts[req.Email]
	if !ok || acct.password != req.Password {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	token := "test-token-" + req.Email

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  acct.user,
	})
}

func (b *Backend) register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.accounts[req.Email]; exists {
		respondError(w, http.StatusConflict, "Email already registered")
		return
	}
	b.accounts[req.Email] = &account{
		user: domain.User{
			ID:       int64(len(b.accounts) + 1),
			Username: req.Username,
			Email:    req.Email,
			Role:     domain.RoleUser,
		},
		password: req.Password,
	}
	w.WriteHeader(http.StatusCreated)
}

func (b *Backend) activeHero(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.Hero == nil {
		respondError(w, http.StatusNotFound, "no active hero")
		return
	}
	respondJSON(w, http.StatusOK, b.Hero)
}

// sweetsLocked returns the catalog in insertion order. Callers hold the
// lock.
func (b *Backend) sweetsLocked() []domain.Sweet {
	sweets := make([]domain.Sweet, 0, len(b.order))
	for _, id := range b.order {
		if sweet, ok := b.sweets[id]; ok {
			sweets = append(sweets, *sweet)
		}
	}
	return sweets
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func equalsFold(a, b string) bool {
	return strings.EqualFold(a, b)
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"message": message})
}
