// Package otp keeps short-lived one-time codes in Redis.
package otp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shiftboard/shift-scheduler/backend/internal/utils"
)

const PurposeResetPassword = "reset_password"

var ErrInvalidCode = errors.New("invalid or expired code")

type Store struct {
	rdb       *redis.Client
	ttl       time.Duration
	opTimeout time.Duration
}

func NewStore(rdb *redis.Client, ttl, opTimeout time.Duration) *Store {
	return &Store{
		rdb:       rdb,
		ttl:       ttl,
		opTimeout: opTimeout,
	}
}

func key(purpose, subject string) string {
	return fmt.Sprintf("otp:%s:%s", purpose, subject)
}

// Issue stores a fresh code for subject, replacing any earlier one.
func (s *Store) Issue(purpose, subject string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.opTimeout)
	defer cancel()

	code := utils.GenerateRandomOTP()
	if err := s.rdb.Set(ctx, key(purpose, subject), code, s.ttl).Err(); err != nil {
		return "", err
	}
	return code, nil
}

// Verify returns ErrInvalidCode when no code is stored or it does not match.
func (s *Store) Verify(purpose, subject, code string) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.opTimeout)
	defer cancel()

	stored, err := s.rdb.Get(ctx, key(purpose, subject)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrInvalidCode
		}
		return err
	}

	if stored != code {
		return ErrInvalidCode
	}
	return nil
}

func (s *Store) Revoke(purpose, subject string) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.opTimeout)
	defer cancel()

	return s.rdb.Del(ctx, key(purpose, subject)).Err()
}
