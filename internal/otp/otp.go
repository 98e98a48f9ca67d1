// Package otp implements the one-time-password lifecycle for phone login.
//
// Codes live in an injected Redis store with a TTL, so expiry survives
// process restarts and horizontal scaling; there is no process-global state.
package otp

import (
	"context"
	"crypto/rand"
	"math/big"
	"time"

	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"
)

// Verification failures, surfaced to the caller with a specific reason.
var (
	// ErrExpired is returned when no code is on file for the phone number.
	ErrExpired = errors.New("OTP expired or not requested")
	// ErrMismatch is returned when the submitted code does not match.
	ErrMismatch = errors.New("incorrect OTP")
	// ErrTooManyAttempts is returned once the attempt budget is spent; the
	// code is destroyed and a fresh one must be requested.
	ErrTooManyAttempts = errors.New("too many incorrect attempts, request a new OTP")
)

const (
	codeDigits  = 6
	maxAttempts = 5
)

// Store issues and verifies one-time passwords keyed by phone number.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewStore creates a Store. ttl bounds how long an issued code stays valid.
func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

// Issue generates a fresh 6-digit code for the phone number, replacing any
// previous code and resetting the attempt counter.
func (s *Store) Issue(ctx context.Context, phone string) (string, error) {
	code, err := randomCode()
	if err != nil {
		return "", errors.Wrap(err, "generate code")
	}

	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, codeKey(phone), code, s.ttl)
	pipe.Del(ctx, attemptsKey(phone))
	if _, err := pipe.Exec(ctx); err != nil {
		return "", errors.Wrap(err, "store code")
	}

	return code, nil
}

// Verify checks the submitted code. A correct code is single-use: it is
// deleted on success. Incorrect codes burn one attempt each; exhausting the
// attempt budget destroys the code.
func (s *Store) Verify(ctx context.Context, phone, code string) error {
	stored, err := s.rdb.Get(ctx, codeKey(phone)).Result()
	if errors.Is(err, redis.Nil) {
		return ErrExpired
	}
	if err != nil {
		return errors.Wrap(err, "lookup code")
	}

	if stored != code {
		attempts, err := s.rdb.Incr(ctx, attemptsKey(phone)).Result()
		if err != nil {
			return errors.Wrap(err, "count attempt")
		}
		// Attempt counter expires alongside the code.
		s.rdb.Expire(ctx, attemptsKey(phone), s.ttl)

		if attempts >= maxAttempts {
			s.rdb.Del(ctx, codeKey(phone), attemptsKey(phone))
			return ErrTooManyAttempts
		}
		return ErrMismatch
	}

	if err := s.rdb.Del(ctx, codeKey(phone), attemptsKey(phone)).Err(); err != nil {
		return errors.Wrap(err, "consume code")
	}
	return nil
}

func codeKey(phone string) string     { return "otp:code:" + phone }
func attemptsKey(phone string) string { return "otp:attempts:" + phone }

func randomCode() (string, error) {
	max := big.NewInt(1)
	for range codeDigits {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}

	// Left-pad to the fixed digit count.
	buf := make([]byte, codeDigits)
	for i := codeDigits - 1; i >= 0; i-- {
		buf[i] = byte('0' + n.Int64()%10)
		n.Div(n, big.NewInt(10))
	}
	return string(buf), nil
}
