// Package auth keeps the client-side session: the bearer token and user
// record handed out by the auth backend, mirrored to the state directory
// so a new process resumes logged in.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/AdY21850/sweet-shop-manager/internal/domain"
)

// Token and user live under separate keys, matching the backend contract.
const (
	tokenFileName = "token"
	userFileName  = "user.json"
)

type Session struct {
	mu    sync.RWMutex
	dir   string
	token string
	user  *domain.User
	log   logrus.FieldLogger
}

// LoadSession restores the persisted session. Missing or unreadable
// records yield a logged-out session; they are never fatal.
func LoadSession(stateDir string, log logrus.FieldLogger) (*Session, error) {
	if err := os.MkdirAll(stateDir, 0o700); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	s := &Session{dir: stateDir, log: log}

	data, err := os.ReadFile(filepath.Join(stateDir, tokenFileName))
	if err == nil {
		s.token = strings.TrimSpace(string(data))
	}

	data, err = os.ReadFile(filepath.Join(stateDir, userFileName))
	if err == nil {
		var user domain.User
		if jsonErr := json.Unmarshal(data, &user); jsonErr != nil {
			log.WithError(jsonErr).Warn("discarding corrupt user record")
		} else {
			s.user = &user
		}
	}
	return s, nil
}

// Token returns the current bearer token, empty when logged out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the logged-in user record, nil when logged out.
func (s *Session) User() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	copied := *s.user
	return &copied
}

func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

func (s *Session) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && s.user.Role == domain.RoleAdmin
}

// Set stores the token and user and writes both records through.
func (s *Session) Set(token string, user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.WriteFile(filepath.Join(s.dir, tokenFileName), []byte(token), 0o600); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user record: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, userFileName), data, 0o600); err != nil {
		return fmt.Errorf("persist user record: %w", err)
	}

	s.token = token
	s.user = &user
	return nil
}

// Clear logs out: both persisted records are removed and in-memory state
// is dropped.
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, name := range []string{tokenFileName, userFileName} {
		err := os.Remove(filepath.Join(s.dir, name))
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove %s: %w", name, err)
		}
	}
	s.token = ""
	s.user = nil
	return nil
}
