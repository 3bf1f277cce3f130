package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/healthymeal/backend/internal/api"
	"github.com/healthymeal/backend/internal/middleware"
)

// Handlers bundles everything the router wires together.
type Handlers struct {
	Auth        *api.AuthHandler
	Recipes     *api.RecipeHandler
	Generate    *api.GenerateHandler
	Profile     *api.ProfileHandler
	Products    *api.ProductHandler
	Preferences *api.PreferenceHandler

	TokenValidator middleware.TokenValidator
	RateLimiter    *middleware.RateLimiter
	AllowedOrigins []string
}

// Setup configures all application routes under /api.
func Setup(h Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(h.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	root := router.Group("/api")

	// Register and login are public; logout is guarded inside the
	// auth handler itself.
	h.Auth.RegisterRoutes(root)

	protected := root.Group("")
	protected.Use(middleware.AuthMiddleware(h.TokenValidator))
	{
		h.Recipes.RegisterRoutes(protected)
		h.Generate.RegisterRoutes(protected, h.RateLimiter.Middleware())
		h.Profile.RegisterRoutes(protected)
		h.Products.RegisterRoutes(protected)
		h.Preferences.RegisterRoutes(protected)
	}

	return router
}
