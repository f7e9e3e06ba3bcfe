package credential

import (
	"errors"
	"strings"
	"testing"

	"github.com/classroom-accounts/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHash_NeverEqualsPlaintext(t *testing.T) {
	h := NewBcrypt(bcrypt.MinCost)
	digest, err := h.Hash("password123")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", digest)
	assert.True(t, strings.HasPrefix(digest, "$2a$"))
}

func TestHash_UniqueSalts(t *testing.T) {
	h := NewBcrypt(bcrypt.MinCost)
	a, err := h.Hash("same")
	require.NoError(t, err)
	b, err := h.Hash("same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestVerify(t *testing.T) {
	h := NewBcrypt(bcrypt.MinCost)
	digest, err := h.Hash("042917")
	require.NoError(t, err)

	assert.True(t, h.Verify("042917", digest))
	assert.False(t, h.Verify("042918", digest))
	assert.False(t, h.Verify("042917", ""))
	assert.False(t, h.Verify("042917", "not-a-bcrypt-hash"))
}

func TestNewBcrypt_OutOfRangeCostFallsBack(t *testing.T) {
	h := NewBcrypt(99).(*bcryptHasher)
	assert.Equal(t, bcrypt.DefaultCost, h.cost)
}

func TestHash_TooLong(t *testing.T) {
	h := NewBcrypt(bcrypt.MinCost)
	_, err := h.Hash(strings.Repeat("x", 73))
	assert.Error(t, err)
}

func TestHash_TooLongIsBadRequest(t *testing.T) {
	h := NewBcrypt(bcrypt.MinCost)
	_, err := h.Hash(strings.Repeat("é", 40))

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}
