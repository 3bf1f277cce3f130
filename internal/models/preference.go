package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PreferenceTypeLike     = "like"
	PreferenceTypeDislike  = "dislike"
	PreferenceTypeAllergen = "allergen"
)

// UserPreference tags a catalog product as liked, disliked or an
// allergen for one user. A user can hold at most one tag per product.
type UserPreference struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_product" json:"user_id"`
	ProductID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_product" json:"product_id"`
	PreferenceType string    `gorm:"size:20;not null" json:"preference_type"`
	CreatedAt      time.Time `json:"created_at"`

	Product Product `gorm:"foreignKey:ProductID" json:"product"`
}

func (UserPreference) TableName() string {
	return "user_preferences"
}

func (p *UserPreference) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
