package types

import (
	"time"

	"github.com/google/uuid"
)

// ProfileResponse is the profile DTO with preference counters derived
// from the user_preferences table.
type ProfileResponse struct {
	ID                                uuid.UUID  `json:"id"`
	AIRequestsCount                   int        `json:"aiRequestsCount"`
	DislikedIngredientsNote           *string    `json:"dislikedIngredientsNote"`
	AllergensNote                     *string    `json:"allergensNote"`
	OnboardingNotificationHiddenUntil *time.Time `json:"onboardingNotificationHiddenUntil"`
	CreatedAt                         time.Time  `json:"createdAt"`
	UpdatedAt                         time.Time  `json:"updatedAt"`
	LikesCount                        int        `json:"likesCount"`
	DislikesCount                     int        `json:"dislikesCount"`
	AllergensCount                    int        `json:"allergensCount"`
}

// OnboardingNoticeResponse tells the client whether to render the
// onboarding reminder.
type OnboardingNoticeResponse struct {
	Show             bool       `json:"show"`
	DismissibleUntil *time.Time `json:"dismissibleUntil"`
}

// OnboardingDismissResponse returns the new dismissal horizon.
type OnboardingDismissResponse struct {
	HiddenUntil time.Time `json:"hiddenUntil"`
}
