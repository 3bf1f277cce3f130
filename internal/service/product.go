package service

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/healthymeal/backend/internal/models"
	"github.com/healthymeal/backend/internal/types"
)

var productSortMap = map[string]string{
	"name.asc":  "name ASC",
	"name.desc": "name DESC",
}

// ProductListFilters carries normalized catalog list parameters.
type ProductListFilters struct {
	Search string
	Limit  int
	Offset int
	Sort   string
}

// ProductService reads the shared product catalog.
type ProductService struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewProductService(db *gorm.DB, logger *zap.Logger) *ProductService {
	return &ProductService{db: db, logger: logger}
}

// List returns a page of the catalog, optionally filtered by an
// escaped case-insensitive name search.
func (s *ProductService) List(ctx context.Context, filters ProductListFilters) (*types.ProductListResponse, error) {
	query := s.db.WithContext(ctx).Model(&models.Product{})

	if filters.Search != "" {
		like := "%" + escapeLikeTerm(strings.ToLower(filters.Search)) + "%"
		query = query.Where("LOWER(name) LIKE ? ESCAPE '\\'", like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, WrapInternal("failed to count products", err)
	}

	order, ok := productSortMap[filters.Sort]
	if !ok {
		order = productSortMap["name.asc"]
	}

	var products []models.Product
	if err := query.Order(order).Limit(filters.Limit).Offset(filters.Offset).Find(&products).Error; err != nil {
		return nil, WrapInternal("failed to list products", err)
	}

	items := make([]types.ProductResponse, len(products))
	for i, p := range products {
		items[i] = types.ProductResponse{ID: p.ID, Name: p.Name}
	}

	return &types.ProductListResponse{
		Items:  items,
		Total:  total,
		Limit:  filters.Limit,
		Offset: filters.Offset,
	}, nil
}
