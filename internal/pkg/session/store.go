// Package session keeps server-side login sessions in Redis.
//
// The cookie carries a signed token over an opaque session id; the id maps
// to a user id under session:<id> with a TTL equal to the session max age.
// Destroying the key invalidates the cookie even before its token expires.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/qs3c/sports_content_server/internal/pkg/jwt"
)

const keyPrefix = "session:"

var ErrNotFound = errors.New("session not found or expired")

// Session is the record stored for each login.
type Session struct {
	ID        string    `json:"-"`
	UserID    int64     `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

type Store struct {
	rdb    *redis.Client
	secret string
	ttl    time.Duration
}

func NewStore(rdb *redis.Client, secret string, ttl time.Duration) *Store {
	return &Store{rdb: rdb, secret: secret, ttl: ttl}
}

// Create stores a new session for userID and returns the signed cookie value.
func (s *Store) Create(ctx context.Context, userID int64) (string, error) {
	sess := Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return "", fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := s.rdb.Set(ctx, keyPrefix+sess.ID, data, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}

	token, err := jwt.GenerateToken(sess.ID, s.secret, s.ttl)
	if err != nil {
		s.rdb.Del(ctx, keyPrefix+sess.ID)
		return "", fmt.Errorf("failed to sign session: %w", err)
	}
	return token, nil
}

// Resolve returns the session behind a cookie value.
func (s *Store) Resolve(ctx context.Context, token string) (*Session, error) {
	claims, err := jwt.ParseToken(token, s.secret)
	if err != nil {
		return nil, ErrNotFound
	}

	data, err := s.rdb.Get(ctx, keyPrefix+claims.SessionID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	sess.ID = claims.SessionID
	return &sess, nil
}

// Destroy removes the session behind a cookie value. Unknown or malformed
// tokens are not an error.
func (s *Store) Destroy(ctx context.Context, token string) error {
	claims, err := jwt.ParseToken(token, s.secret)
	if err != nil {
		return nil
	}

	if err := s.rdb.Del(ctx, keyPrefix+claims.SessionID).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
