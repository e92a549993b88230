// Package session keeps the per-session checkout state that does not belong
// in the cart row: the id of the cart that was deactivated by the last order,
// the flashed id of the order just placed, and the order placement lock.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/obuzietter/Messah-Enterprise/pkg/errors"
)

const (
	prevCartKeyPrefix  = "checkout:prev_cart:"
	orderFlashPrefix   = "checkout:order:"
	orderLockKeyPrefix = "checkout:order_lock:"

	// Flash entries survive long enough for the success page to load.
	flashTTL    = 30 * time.Minute
	prevCartTTL = 24 * time.Hour
)

// Store is a Redis-backed checkout session store.
type Store struct {
	client *redis.Client
}

// NewStore creates a session store on top of an existing Redis client.
func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

// SetPreviousCartID remembers the cart that was deactivated for this session
// so a later checkout can reactivate it.
func (s *Store) SetPreviousCartID(ctx context.Context, sessionID, cartID string) error {
	if err := s.client.Set(ctx, prevCartKeyPrefix+sessionID, cartID, prevCartTTL).Err(); err != nil {
		return fmt.Errorf("set previous cart id: %w", err)
	}
	return nil
}

// TakePreviousCartID returns and clears the previously deactivated cart id
// for this session. Returns a not-found error when none is stored.
func (s *Store) TakePreviousCartID(ctx context.Context, sessionID string) (string, error) {
	cartID, err := s.client.GetDel(ctx, prevCartKeyPrefix+sessionID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperrors.ErrNotFound
		}
		return "", fmt.Errorf("get previous cart id: %w", err)
	}
	return cartID, nil
}

// FlashOrder stores the id of the order just placed for this session.
func (s *Store) FlashOrder(ctx context.Context, sessionID, orderID string) error {
	if err := s.client.Set(ctx, orderFlashPrefix+sessionID, orderID, flashTTL).Err(); err != nil {
		return fmt.Errorf("flash order id: %w", err)
	}
	return nil
}

// TakeOrder returns and clears the flashed order id for this session.
// Returns a not-found error when no order was flashed.
func (s *Store) TakeOrder(ctx context.Context, sessionID string) (string, error) {
	orderID, err := s.client.GetDel(ctx, orderFlashPrefix+sessionID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperrors.ErrNotFound
		}
		return "", fmt.Errorf("get flashed order id: %w", err)
	}
	return orderID, nil
}

// AcquireOrderLock takes the per-cart order placement lock. It returns false
// when another placement already holds the lock.
func (s *Store) AcquireOrderLock(ctx context.Context, cartID string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, orderLockKeyPrefix+cartID, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire order lock: %w", err)
	}
	return ok, nil
}

// ReleaseOrderLock releases the per-cart order placement lock.
func (s *Store) ReleaseOrderLock(ctx context.Context, cartID string) error {
	if err := s.client.Del(ctx, orderLockKeyPrefix+cartID).Err(); err != nil {
		return fmt.Errorf("release order lock: %w", err)
	}
	return nil
}
