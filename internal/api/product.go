package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/healthymeal/backend/internal/service"
	"github.com/healthymeal/backend/internal/types"
)

const defaultProductSort = "name.asc"

// ProductHandler exposes the read-only shared product catalog.
type ProductHandler struct {
	products *service.ProductService
	logger   *zap.Logger
}

func NewProductHandler(products *service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{products: products, logger: logger}
}

func (h *ProductHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/products", h.List)
}

func (h *ProductHandler) List(c *gin.Context) {
	var query types.ListProductsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBindingError(c, err)
		return
	}

	filters := service.ProductListFilters{
		Search: query.Search,
		Limit:  defaultListLimit,
		Sort:   defaultProductSort,
	}
	if query.Limit != nil {
		filters.Limit = *query.Limit
	}
	if query.Offset != nil {
		filters.Offset = *query.Offset
	}
	if query.Sort != "" {
		filters.Sort = query.Sort
	}

	page, err := h.products.List(c.Request.Context(), filters)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, page)
}
