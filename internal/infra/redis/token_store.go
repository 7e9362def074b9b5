package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"quizmania-service/internal/domain"
)

// TokenStore keeps confirmation tokens in Redis. Keys expire together with the token,
// so an expired token reads as unknown once Redis evicts it.
type TokenStore struct {
	client *redis.Client
	now    func() time.Time
}

func NewTokenStore(client *redis.Client) *TokenStore {
	return &TokenStore{client: client, now: time.Now}
}

func (s *TokenStore) SaveToken(ctx context.Context, token domain.ConfirmationToken) error {
	ttl := token.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return domain.ErrTokenExpired
	}
	payload, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("encode token: %w", err)
	}
	if err := s.client.Set(ctx, tokenKey(token.Token), payload, ttl).Err(); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

func (s *TokenStore) GetToken(ctx context.Context, token string) (domain.ConfirmationToken, error) {
	payload, err := s.client.Get(ctx, tokenKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.ConfirmationToken{}, domain.ErrTokenNotFound
	}
	if err != nil {
		return domain.ConfirmationToken{}, fmt.Errorf("get token: %w", err)
	}
	var t domain.ConfirmationToken
	if err := json.Unmarshal(payload, &t); err != nil {
		return domain.ConfirmationToken{}, fmt.Errorf("decode token: %w", err)
	}
	return t, nil
}

func (s *TokenStore) DeleteToken(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, tokenKey(token)).Err(); err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}

func tokenKey(token string) string {
	return "token:" + token
}
