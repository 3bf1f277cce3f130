package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile holds per-user dietary notes and the remaining AI-generation
// quota. The primary key equals the owning user's ID, one row per user.
type Profile struct {
	ID                                uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	AIRequestsCount                   int        `gorm:"not null;default:0" json:"ai_requests_count"`
	DislikedIngredientsNote           *string    `gorm:"size:200" json:"disliked_ingredients_note"`
	AllergensNote                     *string    `gorm:"size:200" json:"allergens_note"`
	OnboardingNotificationHiddenUntil *time.Time `json:"onboarding_notification_hidden_until"`
	CreatedAt                         time.Time  `json:"created_at"`
	UpdatedAt                         time.Time  `json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}
