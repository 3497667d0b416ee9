package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/AnshRaj112/promisu-backend/internal/models"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// SessionDuration is 7 days
	SessionDuration = 7 * 24 * time.Hour
	// SessionKeyPrefix is the Redis key prefix for sessions
	SessionKeyPrefix = "session:"
	// UserSessionKeyPrefix is the Redis key prefix for user->session mapping
	UserSessionKeyPrefix = "user_session:"
)

// SessionStore issues and resolves opaque session tokens.
type SessionStore interface {
	Create(ctx context.Context, userID uuid.UUID) (string, error)
	Resolve(ctx context.Context, token string) (uuid.UUID, error)
	Invalidate(ctx context.Context, token string) error
}

// RedisSessionStore keeps one live session per user in Redis.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client, ttl: SessionDuration}
}

// Create invalidates the user's previous session, so the 7-day timer resets
// from the current sign-in, and returns a new token.
func (s *RedisSessionStore) Create(ctx context.Context, userID uuid.UUID) (string, error) {
	if err := s.invalidateUser(ctx, userID); err != nil {
		return "", err
	}

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	token := base64.URLEncoding.EncodeToString(tokenBytes)

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, SessionKeyPrefix+token, userID.String(), s.ttl)
		pipe.Set(ctx, UserSessionKeyPrefix+userID.String(), token, s.ttl)
		return nil
	})
	if err != nil {
		return "", err
	}
	return token, nil
}

// Resolve returns the user of a live token, or ErrNotAuthenticated.
func (s *RedisSessionStore) Resolve(ctx context.Context, token string) (uuid.UUID, error) {
	if token == "" {
		return uuid.Nil, models.ErrNotAuthenticated
	}

	userIDStr, err := s.client.Get(ctx, SessionKeyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, models.ErrNotAuthenticated
	}
	if err != nil {
		return uuid.Nil, err
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, models.ErrNotAuthenticated
	}
	return userID, nil
}

// Invalidate removes a session and its user mapping.
func (s *RedisSessionStore) Invalidate(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	sessionKey := SessionKeyPrefix + token
	userIDStr, err := s.client.Get(ctx, sessionKey).Result()
	if err == nil && userIDStr != "" {
		userSessionKey := UserSessionKeyPrefix + userIDStr
		// Only drop the mapping when it still points at this token.
		if current, _ := s.client.Get(ctx, userSessionKey).Result(); current == token {
			s.client.Del(ctx, userSessionKey)
		}
	}
	return s.client.Del(ctx, sessionKey).Err()
}

func (s *RedisSessionStore) invalidateUser(ctx context.Context, userID uuid.UUID) error {
	userSessionKey := UserSessionKeyPrefix + userID.String()

	token, err := s.client.Get(ctx, userSessionKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	if token != "" {
		s.client.Del(ctx, SessionKeyPrefix+token)
	}
	return s.client.Del(ctx, userSessionKey).Err()
}
