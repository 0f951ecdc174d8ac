package otp

import (
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

	return NewStore(rdb, 15*time.Minute, time.Second), mr
}

func TestIssueAndVerify(t *testing.T) {
	store, mr := newTestStore(t)

	code, err := store.Issue(PurposeResetPassword, "ava@example.com")
	require.NoError(t, err)
	assert.Len(t, code, 6)

	stored, err := mr.Get("otp:reset_password:ava@example.com")
	require.NoError(t, err)
	assert.Equal(t, code, stored)
	assert.Equal(t, 15*time.Minute, mr.TTL("otp:reset_password:ava@example.com"))

	assert.NoError(t, store.Verify(PurposeResetPassword, "ava@example.com", code))
	assert.ErrorIs(t, store.Verify(PurposeResetPassword, "ava@example.com", "000000x"), ErrInvalidCode)
	assert.ErrorIs(t, store.Verify(PurposeResetPassword, "ben@example.com", code), ErrInvalidCode)
}

func TestExpiredCode(t *testing.T) {
	store, mr := newTestStore(t)

	code, err := store.Issue(PurposeResetPassword, "ava@example.com")
	require.NoError(t, err)

	mr.FastForward(16 * time.Minute)
	assert.ErrorIs(t, store.Verify(PurposeResetPassword, "ava@example.com", code), ErrInvalidCode)
}

func TestRevoke(t *testing.T) {
	store, _ := newTestStore(t)

	code, err := store.Issue(PurposeResetPassword, "ava@example.com")
	require.NoError(t, err)
	require.NoError(t, store.Revoke(PurposeResetPassword, "ava@example.com"))

	assert.ErrorIs(t, store.Verify(PurposeResetPassword, "ava@example.com", code), ErrInvalidCode)
}

func TestIssueReplacesEarlierCode(t *testing.T) {
	store, mr := newTestStore(t)

	_, err := store.Issue(PurposeResetPassword, "ava@example.com")
	require.NoError(t, err)
	second, err := store.Issue(PurposeResetPassword, "ava@example.com")
	require.NoError(t, err)

	stored, err := mr.Get("otp:reset_password:ava@example.com")
	require.NoError(t, err)
	assert.Equal(t, second, stored)
}
