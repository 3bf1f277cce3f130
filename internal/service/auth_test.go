package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/healthymeal/backend/internal/models"
	"github.com/healthymeal/backend/internal/testhelpers"
)

const testJWTSecret = "test-secret-key-0123456789abcdefghij"

func newAuthFixture(t *testing.T) *AuthService {
	db := testhelpers.NewTestDB(t)
	sessions := testhelpers.NewMemoryTokenStore()
	return NewAuthService(db, sessions, testJWTSecret, time.Hour, 10, zap.NewNop())
}

func TestRegisterCreatesUserAndProfile(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := NewAuthService(db, testhelpers.NewMemoryTokenStore(), testJWTSecret, time.Hour, 5, zap.NewNop())
	ctx := context.Background()

	token, user, err := svc.Register(ctx, "New.User@Example.COM", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "new.user@example.com", user.Email)

	var profile models.Profile
	require.NoError(t, db.First(&profile, "id = ?", user.ID).Error)
	assert.Equal(t, 5, profile.AIRequestsCount)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newAuthFixture(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "dup@example.com", "password123")
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, "DUP@example.com", "password456")
	assertServiceErrorCode(t, err, CodeEmailTaken)
}

func TestLogin(t *testing.T) {
	svc := newAuthFixture(t)
	ctx := context.Background()

	_, registered, err := svc.Register(ctx, "login@example.com", "password123")
	require.NoError(t, err)

	token, user, err := svc.Login(ctx, "login@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	claims, err := svc.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestLoginWrongCredentials(t *testing.T) {
	svc := newAuthFixture(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "victim@example.com", "password123")
	require.NoError(t, err)

	// Unknown email and wrong password are indistinguishable.
	_, _, err = svc.Login(ctx, "nobody@example.com", "password123")
	assertServiceErrorCode(t, err, CodeInvalidCredentials)

	_, _, err = svc.Login(ctx, "victim@example.com", "wrongpass")
	assertServiceErrorCode(t, err, CodeInvalidCredentials)
}

func TestLogoutRevokesToken(t *testing.T) {
	svc := newAuthFixture(t)
	ctx := context.Background()

	token, _, err := svc.Register(ctx, "leaver@example.com", "password123")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(ctx, token)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, claims))

	_, err = svc.ValidateToken(ctx, token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := newAuthFixture(t)

	_, err := svc.ValidateToken(context.Background(), "not.a.token")
	assert.Error(t, err)
}
