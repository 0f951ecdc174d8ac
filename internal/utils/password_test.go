package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndComparePassword(t *testing.T) {
	hash, err := HashPassword("longenough1")
	require.NoError(t, err)
	assert.NotEqual(t, "longenough1", hash)

	ok, err := ComparePassword(hash, "longenough1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = ComparePassword(hash, "longenough2")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestComparePasswordWithoutHash(t *testing.T) {
	ok, err := ComparePassword("", "anything")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestComparePasswordMalformedHash(t *testing.T) {
	_, err := ComparePassword("not-a-bcrypt-hash", "anything")
	assert.Error(t, err)
}
