package validate

import (
	"errors"
	"strings"
	"testing"

	"github.com/classroom-accounts/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRegister() domain.RegisterRequest {
	return domain.RegisterRequest{
		Username: "alice",
		Email:    "alice@school.edu",
		Password: "correct-horse",
		Role:     domain.RoleStudent,
	}
}

func TestStruct_Valid(t *testing.T) {
	assert.NoError(t, Struct(validRegister()))
}

func TestStruct_UsernameBounds(t *testing.T) {
	req := validRegister()
	req.Username = "abc"
	err := Struct(req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
	assert.Contains(t, err.Error(), "field 'Username' failed 'min'")

	req.Username = strings.Repeat("a", 51)
	err = Struct(req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed 'max'")

	req.Username = strings.Repeat("a", 50)
	assert.NoError(t, Struct(req))
}

func TestStruct_UnknownRole(t *testing.T) {
	req := validRegister()
	req.Role = "JANITOR"
	err := Struct(req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed 'oneof'")
}

func TestStruct_ResetRequiresSixDigitOTP(t *testing.T) {
	req := domain.ResetPasswordRequest{Email: "a@b.co", OTP: "12a456", NewPassword: "new-password"}
	err := Struct(req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "field 'OTP' failed 'numeric'")

	req.OTP = "012345"
	assert.NoError(t, Struct(req))
}

func TestStruct_ApprovalNeedsDecision(t *testing.T) {
	err := Struct(domain.ApprovalRequest{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestStruct_PasswordLimitCountsBytes(t *testing.T) {
	req := validRegister()
	req.Password = strings.Repeat("é", 36) // 72 bytes
	assert.NoError(t, Struct(req))

	req.Password = strings.Repeat("é", 40) // 40 runes, 80 bytes
	err := Struct(req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
	assert.Contains(t, err.Error(), "maxbytes")
}
