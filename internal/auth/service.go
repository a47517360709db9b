package auth

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/AdY21850/sweet-shop-manager/internal/api"
)

// Authenticator is the slice of the API client the auth service needs.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*api.LoginResult, error)
	Register(ctx context.Context, username, email, password string) error
}

// Service drives login and registration against the auth backend and
// keeps the session in step with the results.
type Service struct {
	api     Authenticator
	session *Session
	log     logrus.FieldLogger
}

func NewService(authAPI Authenticator, session *Session, log logrus.FieldLogger) *Service {
	return &Service{api: authAPI, session: session, log: log}
}

func (s *Service) Login(ctx context.Context, email, password string) error {
	result, err := s.api.Login(ctx, email, password)
	if err != nil {
		return err
	}
	if err := s.session.Set(result.Token, result.User); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	s.log.WithField("user", result.User.Email).Info("logged in")
	return nil
}

// Register creates the account and then logs in with the same
// credentials.
func (s *Service) Register(ctx context.Context, username, email, password string) error {
	if err := s.api.Register(ctx, username, email, password); err != nil {
		return err
	}
	return s.Login(ctx, email, password)
}

func (s *Service) Logout() error {
	if err := s.session.Clear(); err != nil {
		return err
	}
	s.log.Info("logged out")
	return nil
}
