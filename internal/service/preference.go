package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/healthymeal/backend/internal/models"
	"github.com/healthymeal/backend/internal/types"
)

// PreferenceService manages the user's like/dislike/allergen tags on
// catalog products.
type PreferenceService struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewPreferenceService(db *gorm.DB, logger *zap.Logger) *PreferenceService {
	return &PreferenceService{db: db, logger: logger}
}

// List returns the user's preferences with their products embedded,
// optionally filtered by type.
func (s *PreferenceService) List(ctx context.Context, userID uuid.UUID, prefType string) (*types.PreferenceListResponse, error) {
	query := s.db.WithContext(ctx).Preload("Product").Where("user_id = ?", userID)
	if prefType != "" {
		query = query.Where("preference_type = ?", prefType)
	}

	var prefs []models.UserPreference
	if err := query.Find(&prefs).Error; err != nil {
		return nil, WrapInternal("failed to fetch user preferences", err)
	}

	items := make([]types.PreferenceResponse, len(prefs))
	for i, p := range prefs {
		items[i] = types.PreferenceResponse{
			ID:             p.ID,
			PreferenceType: p.PreferenceType,
			CreatedAt:      p.CreatedAt,
			Product: types.ProductResponse{
				ID:   p.Product.ID,
				Name: p.Product.Name,
			},
		}
	}
	return &types.PreferenceListResponse{Items: items}, nil
}

// Create tags a product for the user. Each user holds at most one tag
// per product.
func (s *PreferenceService) Create(ctx context.Context, userID uuid.UUID, req *types.CreatePreferenceRequest) (*types.PreferenceResponse, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).First(&product, "id = ?", req.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewServiceError(CodeProductNotFound, "Referenced product was not found.")
		}
		return nil, WrapInternal("failed to load product", err)
	}

	var existing models.UserPreference
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, req.ProductID).
		First(&existing).Error
	if err == nil {
		return nil, NewServiceError(CodePreferenceExists, "A preference for this product already exists.")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, WrapInternal("failed to check existing preference", err)
	}

	pref := models.UserPreference{
		UserID:         userID,
		ProductID:      req.ProductID,
		PreferenceType: req.PreferenceType,
	}
	if err := s.db.WithContext(ctx).Create(&pref).Error; err != nil {
		return nil, WrapInternal("failed to create preference", err)
	}

	return &types.PreferenceResponse{
		ID:             pref.ID,
		PreferenceType: pref.PreferenceType,
		CreatedAt:      pref.CreatedAt,
		Product: types.ProductResponse{
			ID:   product.ID,
			Name: product.Name,
		},
	}, nil
}

// Delete removes an owned preference; unknown or foreign IDs read as
// not found.
func (s *PreferenceService) Delete(ctx context.Context, userID, preferenceID uuid.UUID) error {
	res := s.db.WithContext(ctx).Delete(&models.UserPreference{}, "id = ? AND user_id = ?", preferenceID, userID)
	if res.Error != nil {
		return WrapInternal("failed to delete preference", res.Error)
	}
	if res.RowsAffected == 0 {
		return NewServiceError(CodePreferenceNotFound, "Preference not found.")
	}
	return nil
}
