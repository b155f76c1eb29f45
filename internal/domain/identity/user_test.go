package identity

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Run("creates customer with normalized email", func(t *testing.T) {
		u, err := NewUser(" Ana ", "  Ana@Example.COM ", "secret1", RoleCustomer)
		require.NoError(t, err)

		assert.Equal(t, "Ana", u.Name)
		assert.Equal(t, "ana@example.com", u.Email)
		assert.Equal(t, RoleCustomer, u.Role)
		assert.True(t, u.Active)
		assert.False(t, u.IsAdmin())
		assert.NotEqual(t, "secret1", u.PasswordHash)
		assert.True(t, u.VerifyPassword("secret1"))
		assert.False(t, u.VerifyPassword("secret2"))
	})

	tests := []struct {
		name     string
		userName string
		email    string
		password string
		role     Role
	}{
		{"missing name", "", "a@b.co", "secret1", RoleCustomer},
		{"long name", strings.Repeat("n", MaxNameLength+1), "a@b.co", "secret1", RoleCustomer},
		{"missing email", "Ana", "", "secret1", RoleCustomer},
		{"bad email", "Ana", "not-an-email", "secret1", RoleCustomer},
		{"short password", "Ana", "a@b.co", "12345", RoleCustomer},
		{"unknown role", "Ana", "a@b.co", "secret1", Role("owner")},
	}
	for _, tt := range tests {
		t.Run("rejects "+tt.name, func(t *testing.T) {
			_, err := NewUser(tt.userName, tt.email, tt.password, tt.role)
			require.Error(t, err)
			assert.True(t, errors.Is(err, shared.ErrValidation))
		})
	}
}

func TestUser_CanBeManagedBy(t *testing.T) {
	admin, err := NewUser("Root", "root@example.com", "secret1", RoleAdmin)
	require.NoError(t, err)

	assert.True(t, errors.Is(admin.CanBeManagedBy(admin.ID), shared.ErrForbidden))
	assert.NoError(t, admin.CanBeManagedBy(uuid.New()))
}

func TestUser_ChangePassword(t *testing.T) {
	u, err := NewUser("Ana", "ana@example.com", "secret1", RoleCustomer)
	require.NoError(t, err)

	require.Error(t, u.ChangePassword("123"))
	assert.True(t, u.VerifyPassword("secret1"))

	require.NoError(t, u.ChangePassword("another1"))
	assert.True(t, u.VerifyPassword("another1"))
}

func TestUser_ActivateDeactivate(t *testing.T) {
	u, err := NewUser("Ana", "ana@example.com", "secret1", RoleCustomer)
	require.NoError(t, err)

	u.Deactivate()
	assert.False(t, u.Active)
	u.Activate()
	assert.True(t, u.Active)
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "bob@shop.io", NormalizeEmail(" BOB@Shop.IO "))
}
