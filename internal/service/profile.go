package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/healthymeal/backend/internal/models"
	"github.com/healthymeal/backend/internal/types"
)

const (
	maxPreferenceNoteLength = 200

	// How long a dismissed onboarding notice stays hidden.
	onboardingDismissalWindow = 7 * 24 * time.Hour
)

// ProfileService manages the per-user profile row: preference notes,
// the onboarding dismissal timestamp and the AI-request quota.
type ProfileService struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewProfileService(db *gorm.DB, logger *zap.Logger) *ProfileService {
	return &ProfileService{db: db, logger: logger}
}

// Get returns the profile with like/dislike/allergen counters derived
// from the user_preferences table.
func (s *ProfileService) Get(ctx context.Context, userID uuid.UUID) (*types.ProfileResponse, error) {
	profile, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, profile)
}

// Update applies a partial update of the preference notes and the
// onboarding dismissal timestamp. Notes are trimmed and an empty
// string is normalized to NULL. updated_at is always refreshed.
func (s *ProfileService) Update(ctx context.Context, userID uuid.UUID, req *types.UpdateProfileRequest) (*types.ProfileResponse, error) {
	if req.DislikedIngredientsNote == nil && req.AllergensNote == nil && req.OnboardingNotificationHiddenUntil == nil {
		return nil, NewServiceError(CodeInvalidPayload, "At least one field must be provided.")
	}
	if req.OnboardingNotificationHiddenUntil != nil && req.OnboardingNotificationHiddenUntil.Before(time.Now()) {
		return nil, NewServiceError(CodeTimestampInPast, "Timestamp cannot be in the past.")
	}

	profile, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.DislikedIngredientsNote != nil {
		profile.DislikedIngredientsNote = normalizeNote(*req.DislikedIngredientsNote)
	}
	if req.AllergensNote != nil {
		profile.AllergensNote = normalizeNote(*req.AllergensNote)
	}
	if req.OnboardingNotificationHiddenUntil != nil {
		profile.OnboardingNotificationHiddenUntil = req.OnboardingNotificationHiddenUntil
	}
	profile.UpdatedAt = time.Now()

	if err := s.db.WithContext(ctx).Save(profile).Error; err != nil {
		return nil, WrapInternal("failed to update profile", err)
	}
	return s.toResponse(ctx, profile)
}

// DecrementAIRequests consumes one quota unit. The counter never goes
// negative: the conditional update refuses once another request has
// already taken the last unit. The read-check-update sequence is
// optimistic; two in-flight generations from one user can both pass
// the initial check, but the WHERE clause keeps the floor at zero.
func (s *ProfileService) DecrementAIRequests(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	profile, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile.AIRequestsCount <= 0 {
		return nil, NewServiceError(CodeQuotaExhausted, "AI generation limit reached.")
	}

	res := s.db.WithContext(ctx).Model(&models.Profile{}).
		Where("id = ? AND ai_requests_count > 0", userID).
		UpdateColumn("ai_requests_count", gorm.Expr("ai_requests_count - 1"))
	if res.Error != nil {
		return nil, WrapInternal("failed to decrement AI request count", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, NewServiceError(CodeQuotaExhausted, "AI generation limit reached.")
	}

	return s.load(ctx, userID)
}

// OnboardingNotice decides whether the onboarding reminder should
// show: both notes empty and no live dismissal window.
func (s *ProfileService) OnboardingNotice(ctx context.Context, userID uuid.UUID) (*types.OnboardingNoticeResponse, error) {
	profile, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	notesEmpty := profile.DislikedIngredientsNote == nil && profile.AllergensNote == nil
	dismissed := profile.OnboardingNotificationHiddenUntil != nil &&
		profile.OnboardingNotificationHiddenUntil.After(time.Now())

	return &types.OnboardingNoticeResponse{
		Show:             notesEmpty && !dismissed,
		DismissibleUntil: profile.OnboardingNotificationHiddenUntil,
	}, nil
}

// DismissOnboardingNotice pushes the dismissal horizon a week out.
func (s *ProfileService) DismissOnboardingNotice(ctx context.Context, userID uuid.UUID) (*types.OnboardingDismissResponse, error) {
	profile, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	hiddenUntil := time.Now().Add(onboardingDismissalWindow)
	profile.OnboardingNotificationHiddenUntil = &hiddenUntil
	profile.UpdatedAt = time.Now()

	if err := s.db.WithContext(ctx).Save(profile).Error; err != nil {
		return nil, WrapInternal("failed to dismiss onboarding notice", err)
	}
	return &types.OnboardingDismissResponse{HiddenUntil: hiddenUntil}, nil
}

// LoadProfile returns the raw profile row, without the derived
// preference counters.
func (s *ProfileService) LoadProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	return s.load(ctx, userID)
}

func (s *ProfileService) load(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	if err := s.db.WithContext(ctx).First(&profile, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewServiceError(CodeProfileNotFound, "User profile not found.")
		}
		return nil, WrapInternal("failed to load profile", err)
	}
	return &profile, nil
}

func (s *ProfileService) toResponse(ctx context.Context, profile *models.Profile) (*types.ProfileResponse, error) {
	var prefs []models.UserPreference
	if err := s.db.WithContext(ctx).Where("user_id = ?", profile.ID).Find(&prefs).Error; err != nil {
		s.logger.Warn("failed to count preferences", zap.Error(err))
	}

	resp := &types.ProfileResponse{
		ID:                                profile.ID,
		AIRequestsCount:                   profile.AIRequestsCount,
		DislikedIngredientsNote:           profile.DislikedIngredientsNote,
		AllergensNote:                     profile.AllergensNote,
		OnboardingNotificationHiddenUntil: profile.OnboardingNotificationHiddenUntil,
		CreatedAt:                         profile.CreatedAt,
		UpdatedAt:                         profile.UpdatedAt,
	}
	for _, p := range prefs {
		switch p.PreferenceType {
		case models.PreferenceTypeLike:
			resp.LikesCount++
		case models.PreferenceTypeDislike:
			resp.DislikesCount++
		case models.PreferenceTypeAllergen:
			resp.AllergensCount++
		}
	}
	return resp, nil
}

// normalizeNote trims whitespace and maps the empty result to NULL.
func normalizeNote(note string) *string {
	trimmed := strings.TrimSpace(note)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
