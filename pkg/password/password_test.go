package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("S3cure!pass")
	require.NoError(t, err)
	assert.NotEqual(t, "S3cure!pass", hash)

	ok, err := h.Verify("S3cure!pass", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify("wrong", hash)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = h.Verify("", hash)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = h.Verify("S3cure!pass", "not-a-bcrypt-hash")
	assert.Error(t, err)

	_, err = h.Hash("")
	assert.Error(t, err)
}

func TestNewBcryptHasherClampsCost(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(0).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(99).cost)
	assert.Equal(t, 12, NewBcryptHasher(12).cost)
}

func TestChecker(t *testing.T) {
	c := NewChecker(DefaultPolicy())

	tests := []struct {
		name     string
		password string
		reasons  []string
	}{
		{"valid", "Str0ng!Pass", nil},
		{"too short", "Ab1!", []string{"must be at least 8 characters long"}},
		{"no uppercase", "str0ng!pass", []string{"must contain at least one uppercase letter"}},
		{"no digit", "Strong!Pass", []string{"must contain at least one digit"}},
		{"no special", "Str0ngPass", []string{"must contain at least one special character"}},
		{"common", "P@ssw0rd", []string{"is too common"}},
		{"repeated", "Str0ng!Passsss", []string{"must not repeat a character 3 or more times in a row"}},
		{"several", "abc", []string{
			"must be at least 8 characters long",
			"must contain at least one uppercase letter",
			"must contain at least one digit",
			"must contain at least one special character",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.reasons, c.Check(tt.password))
		})
	}
}

func TestDisabledPolicyAcceptsAnything(t *testing.T) {
	c := NewChecker(Policy{Enabled: false, RequiredLength: 50})
	assert.Nil(t, c.Check("x"))
}
