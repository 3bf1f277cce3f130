package main

import (
	"flag"
	"log"

	"go.uber.org/zap"

	"github.com/healthymeal/backend/config"
	"github.com/healthymeal/backend/internal/api"
	"github.com/healthymeal/backend/internal/database"
	"github.com/healthymeal/backend/internal/logger"
	"github.com/healthymeal/backend/internal/middleware"
	"github.com/healthymeal/backend/internal/router"
	"github.com/healthymeal/backend/internal/server"
	"github.com/healthymeal/backend/internal/service"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	zlog, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	db, err := database.New(&cfg.Database)
	if err != nil {
		zlog.Fatal("database connection failed", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		zlog.Fatal("migration failed", zap.Error(err))
	}
	if err := database.SeedProducts(db); err != nil {
		zlog.Fatal("product seed failed", zap.Error(err))
	}

	redisClient, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		zlog.Fatal("redis connection failed", zap.Error(err))
	}

	sessions := service.NewRedisTokenStore(redisClient)
	authService := service.NewAuthService(db, sessions, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, cfg.Auth.DefaultAIQuota, zlog)
	recipeService := service.NewRecipeService(db, zlog)
	profileService := service.NewProfileService(db, zlog)
	productService := service.NewProductService(db, zlog)
	preferenceService := service.NewPreferenceService(db, zlog)

	generator, err := service.NewOpenRouterService(service.OpenRouterConfig{
		APIKey:  cfg.OpenRouter.APIKey,
		BaseURL: cfg.OpenRouter.BaseURL,
		Model:   cfg.OpenRouter.Model,
		SiteURL: cfg.OpenRouter.SiteURL,
		AppName: cfg.OpenRouter.AppName,
	}, zlog)
	if err != nil {
		zlog.Fatal("openrouter client setup failed", zap.Error(err))
	}

	engine := router.Setup(router.Handlers{
		Auth:        api.NewAuthHandler(authService, zlog),
		Recipes:     api.NewRecipeHandler(recipeService, zlog),
		Generate:    api.NewGenerateHandler(generator, profileService, zlog),
		Profile:     api.NewProfileHandler(profileService, zlog),
		Products:    api.NewProductHandler(productService, zlog),
		Preferences: api.NewPreferenceHandler(preferenceService, zlog),

		TokenValidator: authService,
		RateLimiter:    middleware.NewGenerationRateLimiter(redisClient),
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	srv := server.New(engine, &cfg.Server, zlog)
	if err := srv.Run(); err != nil {
		zlog.Fatal("server error", zap.Error(err))
	}
}
