package otp

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewStore(rdb, 5*time.Minute), mr
}

func TestIssueAndVerify(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	code, err := store.Issue(ctx, "9876543210")
	require.NoError(t, err)
	require.Len(t, code, 6)

	require.NoError(t, store.Verify(ctx, "9876543210", code))
}

func TestVerify_SingleUse(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	code, err := store.Issue(ctx, "9876543210")
	require.NoError(t, err)

	require.NoError(t, store.Verify(ctx, "9876543210", code))
	assert.ErrorIs(t, store.Verify(ctx, "9876543210", code), ErrExpired)
}

func TestVerify_NeverIssued(t *testing.T) {
	store, _ := newTestStore(t)

	err := store.Verify(context.Background(), "9999999999", "123456")
	assert.ErrorIs(t, err, ErrExpired)
}

func TestVerify_ExpiredByTTL(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	code, err := store.Issue(ctx, "9876543210")
	require.NoError(t, err)

	mr.FastForward(6 * time.Minute)

	assert.ErrorIs(t, store.Verify(ctx, "9876543210", code), ErrExpired)
}

func TestVerify_WrongCode(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	code, err := store.Issue(ctx, "9876543210")
	require.NoError(t, err)

	assert.ErrorIs(t, store.Verify(ctx, "9876543210", "000000"), ErrMismatch)
	// The real code still works after a single miss.
	assert.NoError(t, store.Verify(ctx, "9876543210", code))
}

func TestVerify_AttemptBudget(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	code, err := store.Issue(ctx, "9876543210")
	require.NoError(t, err)

	for i := range maxAttempts - 1 {
		assert.ErrorIs(t, store.Verify(ctx, "9876543210", "000000"), ErrMismatch, "attempt %d", i+1)
	}
	assert.ErrorIs(t, store.Verify(ctx, "9876543210", "000000"), ErrTooManyAttempts)

	// Budget spent: even the correct code is gone.
	assert.ErrorIs(t, store.Verify(ctx, "9876543210", code), ErrExpired)
}

func TestIssue_ReplacesPreviousCode(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	first, err := store.Issue(ctx, "9876543210")
	require.NoError(t, err)
	second, err := store.Issue(ctx, "9876543210")
	require.NoError(t, err)

	if first != second {
		assert.ErrorIs(t, store.Verify(ctx, "9876543210", first), ErrMismatch)
	}
	assert.NoError(t, store.Verify(ctx, "9876543210", second))
}
