package memory

import (
	"context"
	"sync"

	"quizmania-service/internal/domain"
)

// TokenStore is an in-memory implementation of app.TokenRepository.
// Expired tokens stay until consumed; the service checks expiry.
type TokenStore struct {
	mu     sync.RWMutex
	tokens map[string]domain.ConfirmationToken
}

func NewTokenStore() *TokenStore {
	return &TokenStore{
		tokens: make(map[string]domain.ConfirmationToken),
	}
}

func (s *TokenStore) SaveToken(_ context.Context, token domain.ConfirmationToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token.Token] = token
	return nil
}

func (s *TokenStore) GetToken(_ context.Context, token string) (domain.ConfirmationToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tokens[token]
	if !ok {
		return domain.ConfirmationToken{}, domain.ErrTokenNotFound
	}
	return t, nil
}

func (s *TokenStore) DeleteToken(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
	return nil
}
