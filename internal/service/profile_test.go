package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/healthymeal/backend/internal/models"
	"github.com/healthymeal/backend/internal/testhelpers"
	"github.com/healthymeal/backend/internal/types"
)

func newProfileFixture(t *testing.T, quota int) (*ProfileService, *models.User) {
	db := testhelpers.NewTestDB(t)
	user, _ := testhelpers.CreateTestUser(t, db, "eater@example.com", quota)
	return NewProfileService(db, zap.NewNop()), user
}

func strPtr(s string) *string { return &s }

func TestProfileGet(t *testing.T) {
	svc, user := newProfileFixture(t, 7)

	profile, err := svc.Get(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, profile.ID)
	assert.Equal(t, 7, profile.AIRequestsCount)
	assert.Nil(t, profile.DislikedIngredientsNote)
	assert.Nil(t, profile.AllergensNote)
}

func TestProfileUpdateNotes(t *testing.T) {
	svc, user := newProfileFixture(t, 10)
	ctx := context.Background()

	updated, err := svc.Update(ctx, user.ID, &types.UpdateProfileRequest{
		DislikedIngredientsNote: strPtr("  cilantro, olives  "),
		AllergensNote:           strPtr("peanuts"),
	})
	require.NoError(t, err)
	require.NotNil(t, updated.DislikedIngredientsNote)
	assert.Equal(t, "cilantro, olives", *updated.DislikedIngredientsNote)
	require.NotNil(t, updated.AllergensNote)
	assert.Equal(t, "peanuts", *updated.AllergensNote)
}

func TestProfileUpdateBlankNoteClearsToNull(t *testing.T) {
	svc, user := newProfileFixture(t, 10)
	ctx := context.Background()

	_, err := svc.Update(ctx, user.ID, &types.UpdateProfileRequest{
		DislikedIngredientsNote: strPtr("mushrooms"),
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, user.ID, &types.UpdateProfileRequest{
		DislikedIngredientsNote: strPtr("   "),
	})
	require.NoError(t, err)
	assert.Nil(t, updated.DislikedIngredientsNote)
}

func TestProfileUpdateRequiresAField(t *testing.T) {
	svc, user := newProfileFixture(t, 10)

	_, err := svc.Update(context.Background(), user.ID, &types.UpdateProfileRequest{})
	assertServiceErrorCode(t, err, CodeInvalidPayload)
}

func TestProfileUpdateRejectsPastTimestamp(t *testing.T) {
	svc, user := newProfileFixture(t, 10)

	past := time.Now().Add(-time.Hour)
	_, err := svc.Update(context.Background(), user.ID, &types.UpdateProfileRequest{
		OnboardingNotificationHiddenUntil: &past,
	})
	assertServiceErrorCode(t, err, CodeTimestampInPast)
}

func TestDecrementAIRequests(t *testing.T) {
	svc, user := newProfileFixture(t, 2)
	ctx := context.Background()

	profile, err := svc.DecrementAIRequests(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, profile.AIRequestsCount)

	profile, err = svc.DecrementAIRequests(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, profile.AIRequestsCount)

	// The floor holds: a third decrement refuses and leaves zero.
	_, err = svc.DecrementAIRequests(ctx, user.ID)
	assertServiceErrorCode(t, err, CodeQuotaExhausted)

	current, err := svc.LoadProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, current.AIRequestsCount)
}

func TestOnboardingNoticeLifecycle(t *testing.T) {
	svc, user := newProfileFixture(t, 10)
	ctx := context.Background()

	// Fresh profile with empty notes shows the notice.
	notice, err := svc.OnboardingNotice(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, notice.Show)

	// Dismissal hides it for a week.
	dismissal, err := svc.DismissOnboardingNotice(ctx, user.ID)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), dismissal.HiddenUntil, time.Minute)

	notice, err = svc.OnboardingNotice(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, notice.Show)
}

func TestOnboardingNoticeHiddenOnceNotesFilled(t *testing.T) {
	svc, user := newProfileFixture(t, 10)
	ctx := context.Background()

	_, err := svc.Update(ctx, user.ID, &types.UpdateProfileRequest{
		AllergensNote: strPtr("shellfish"),
	})
	require.NoError(t, err)

	notice, err := svc.OnboardingNotice(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, notice.Show)
}

func TestProfileNotFound(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := NewProfileService(db, zap.NewNop())

	_, err := svc.Get(context.Background(), uuid.New())
	assertServiceErrorCode(t, err, CodeProfileNotFound)
}
