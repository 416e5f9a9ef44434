package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	sessionTTL     = 24 * time.Hour
	checkoutLockTTL = 30 * time.Second
)

// Store persists the transient checkout state (applied coupon, recorded
// usage) between requests and owns the checkout in-flight guard. Cart items
// are not stored here; the cart record in Postgres is their home.
type Store struct {
	client *redis.Client
}

func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

func sessionKey(userID uuid.UUID) string {
	return "session:" + userID.String()
}

func checkoutLockKey(userID uuid.UUID) string {
	return "checkout:inflight:" + userID.String()
}

// Get loads the session for the identity, or returns a fresh one. Anonymous
// identities never touch Redis.
func (s *Store) Get(ctx context.Context, userID uuid.UUID, userName string) (*Session, error) {
	sess := New(userID, userName)
	if userID == uuid.Nil {
		return sess, nil
	}

	data, err := s.client.Get(ctx, sessionKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return sess, nil
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	var stored Session
	if err := json.Unmarshal(data, &stored); err != nil {
		// Corrupt session state is dropped rather than propagated.
		return sess, nil
	}

	sess.AppliedCoupon = stored.AppliedCoupon
	sess.RecordedUsage = stored.RecordedUsage
	return sess, nil
}

// Save writes the session's transient checkout state back.
func (s *Store) Save(ctx context.Context, sess *Session) error {
	if !sess.IsAuthenticated() {
		return nil
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	if err := s.client.Set(ctx, sessionKey(sess.UserID), data, sessionTTL).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// AcquireCheckoutLock takes the per-user in-flight guard. Returns false when
// a checkout for this identity is already running; double submission must be
// rejected, not queued.
func (s *Store) AcquireCheckoutLock(ctx context.Context, userID uuid.UUID) (bool, error) {
	ok, err := s.client.SetNX(ctx, checkoutLockKey(userID), "1", checkoutLockTTL).Result()
	if err != nil {
		return false, fmt.Errorf("acquire checkout lock: %w", err)
	}
	return ok, nil
}

// ReleaseCheckoutLock frees the in-flight guard.
func (s *Store) ReleaseCheckoutLock(ctx context.Context, userID uuid.UUID) error {
	if err := s.client.Del(ctx, checkoutLockKey(userID)).Err(); err != nil {
		return fmt.Errorf("release checkout lock: %w", err)
	}
	return nil
}
