package handler_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	appidentity "github.com/storefront/backend/internal/application/identity"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/storefront/backend/tests/testutil"
	"github.com/storefront/backend/tests/testutil/apitest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthHandler_RegisterLoginLogout(t *testing.T) {
	api := apitest.New(t)

	w := testutil.Do(t, api.Engine, testutil.Request{
		Method: http.MethodPost,
		Path:   "/api/v1/auth/register",
		Body:   map[string]string{"name": "Ana", "email": "Ana@Example.com", "password": "secret123"},
	})
	registered := testutil.DataAs[appidentity.LoginResult](t, w, http.StatusCreated)
	assert.Equal(t, "ana@example.com", registered.User.Email)
	assert.Equal(t, string(identity.RoleCustomer), registered.User.Role)
	assert.NotEmpty(t, registered.AccessToken)

	t.Run("duplicate email", func(t *testing.T) {
		w := testutil.Do(t, api.Engine, testutil.Request{
			Method: http.MethodPost,
			Path:   "/api/v1/auth/register",
			Body:   map[string]string{"name": "Ana", "email": "ana@example.com", "password": "secret123"},
		})
		testutil.AssertError(t, w, http.StatusConflict, shared.CodeAlreadyExists)
	})

	t.Run("invalid payload lists fields", func(t *testing.T) {
		w := testutil.Do(t, api.Engine, testutil.Request{
			Method: http.MethodPost,
			Path:   "/api/v1/auth/register",
			Body:   map[string]string{"name": "", "email": "nope", "password": "1"},
		})
		env := testutil.AssertError(t, w, http.StatusBadRequest, dto.ErrCodeValidation)
		fields := make([]string, 0, len(env.Error.Details))
		for _, d := range env.Error.Details {
			fields = append(fields, d.Field)
		}
		assert.ElementsMatch(t, []string{"name", "email", "password"}, fields)
	})

	w = testutil.Do(t, api.Engine, testutil.Request{
		Method: http.MethodPost,
		Path:   "/api/v1/auth/login",
		Body:   map[string]string{"email": "ana@example.com", "password": "secret123"},
	})
	login := testutil.DataAs[appidentity.LoginResult](t, w, http.StatusOK)

	t.Run("wrong password", func(t *testing.T) {
		w := testutil.Do(t, api.Engine, testutil.Request{
			Method: http.MethodPost,
			Path:   "/api/v1/auth/login",
			Body:   map[string]string{"email": "ana@example.com", "password": "wrong-password"},
		})
		testutil.AssertError(t, w, http.StatusUnauthorized, shared.CodeUnauthorized)
	})

	w = testutil.Do(t, api.Engine, testutil.Request{Path: "/api/v1/auth/me", Token: login.AccessToken})
	me := testutil.DataAs[appidentity.UserResponse](t, w, http.StatusOK)
	assert.Equal(t, registered.User.ID, me.ID)

	w = testutil.Do(t, api.Engine, testutil.Request{Method: http.MethodPost, Path: "/api/v1/auth/logout", Token: login.AccessToken})
	require.Equal(t, http.StatusNoContent, w.Code)

	w = testutil.Do(t, api.Engine, testutil.Request{Path: "/api/v1/auth/me", Token: login.AccessToken})
	env := testutil.AssertError(t, w, http.StatusUnauthorized, dto.ErrCodeTokenInvalid)
	assert.Equal(t, "Token has been revoked", env.Error.Message)

	t.Run("other sessions stay valid", func(t *testing.T) {
		w := testutil.Do(t, api.Engine, testutil.Request{Path: "/api/v1/auth/me", Token: registered.AccessToken})
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestAuthHandler_DeactivatedAccountCannotLogin(t *testing.T) {
	api := apitest.New(t)
	user := testutil.SeedUser(t, api.DB, identity.RoleCustomer)
	user.Deactivate()
	require.NoError(t, persistence.NewGormUserRepository(api.DB).Save(context.Background(), user))

	w := testutil.Do(t, api.Engine, testutil.Request{
		Method: http.MethodPost,
		Path:   "/api/v1/auth/login",
		Body:   map[string]string{"email": user.Email, "password": "secret123"},
	})
	testutil.AssertError(t, w, http.StatusForbidden, shared.CodeForbidden)
}

func TestAuthHandler_LoginRateLimited(t *testing.T) {
	api := apitest.New(t, apitest.WithAuthRateLimit(2, time.Minute))
	body := map[string]string{"email": "nobody@example.com", "password": "whatever"}

	for range 2 {
		w := testutil.Do(t, api.Engine, testutil.Request{Method: http.MethodPost, Path: "/api/v1/auth/login", Body: body})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}
	w := testutil.Do(t, api.Engine, testutil.Request{Method: http.MethodPost, Path: "/api/v1/auth/login", Body: body})
	testutil.AssertError(t, w, http.StatusTooManyRequests, dto.ErrCodeRateLimited)
}
