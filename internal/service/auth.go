package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/healthymeal/backend/internal/models"
	"github.com/healthymeal/backend/internal/types"
)

const defaultTokenTTL = 24 * time.Hour

// AuthService handles registration, login and token validation.
type AuthService struct {
	db             *gorm.DB
	sessions       TokenStore
	jwtSecret      string
	tokenTTL       time.Duration
	defaultAIQuota int
	logger         *zap.Logger
}

func NewAuthService(db *gorm.DB, sessions TokenStore, jwtSecret string, tokenTTL time.Duration, defaultAIQuota int, logger *zap.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}
	return &AuthService{
		db:             db,
		sessions:       sessions,
		jwtSecret:      jwtSecret,
		tokenTTL:       tokenTTL,
		defaultAIQuota: defaultAIQuota,
		logger:         logger,
	}
}

// Register creates the user plus an empty profile seeded with the
// default AI-request quota, then issues a token.
func (s *AuthService) Register(ctx context.Context, email, password string) (string, *models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var existing models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		return "", nil, NewServiceError(CodeEmailTaken, "An account with this email already exists.")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, WrapInternal("failed to check existing user", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, WrapInternal("failed to hash password", err)
	}

	user := models.User{Email: email, PasswordHash: string(hash)}

	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		profile := models.Profile{
			ID:              user.ID,
			AIRequestsCount: s.defaultAIQuota,
		}
		return tx.Create(&profile).Error
	})
	if txErr != nil {
		return "", nil, WrapInternal("failed to create user", txErr)
	}

	token, err := s.issueToken(ctx, user.ID)
	if err != nil {
		return "", nil, err
	}
	return token, &user, nil
}

// Login verifies credentials and issues a fresh token. Both unknown
// email and wrong password surface the same invalid_credentials code.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, NewServiceError(CodeInvalidCredentials, "Invalid email or password.")
		}
		return "", nil, WrapInternal("failed to load user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, NewServiceError(CodeInvalidCredentials, "Invalid email or password.")
	}

	token, err := s.issueToken(ctx, user.ID)
	if err != nil {
		return "", nil, err
	}
	return token, &user, nil
}

// Logout revokes the session behind the given claims.
func (s *AuthService) Logout(ctx context.Context, claims *types.TokenClaims) error {
	if err := s.sessions.Delete(ctx, claims.ID); err != nil {
		return WrapInternal("failed to revoke session", err)
	}
	return nil
}

func (s *AuthService) issueToken(ctx context.Context, userID uuid.UUID) (string, error) {
	now := time.Now()
	claims := types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
		UserID: userID,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims).SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", WrapInternal("failed to sign token", err)
	}

	if err := s.sessions.Save(ctx, claims.ID, s.tokenTTL); err != nil {
		return "", WrapInternal("failed to store session", err)
	}
	return token, nil
}

// ValidateToken parses and verifies a bearer token and checks the
// session is still live.
func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (*types.TokenClaims, error) {
	var claims types.TokenClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}

	live, err := s.sessions.Exists(ctx, claims.ID)
	if err != nil {
		s.logger.Warn("session lookup failed", zap.Error(err))
		return nil, errors.New("invalid token")
	}
	if !live {
		return nil, errors.New("session expired")
	}
	return &claims, nil
}
