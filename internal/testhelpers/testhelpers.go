package testhelpers

import (
	"context"
	"fmt"
	"os/exec"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/healthymeal/backend/internal/models"
)

// NewTestDB opens an in-memory sqlite database with the full schema.
// Each call gets an isolated database.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=private"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Product{},
		&models.UserPreference{},
		&models.Recipe{},
		&models.RecipeIngredient{},
	))
	return db
}

// NewPostgresTestDB spins up a disposable postgres container. Skipped
// under -short and when docker is unavailable.
func NewPostgresTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping container-based test in short mode")
	}
	if _, err := exec.LookPath("docker"); err != nil {
		t.Skip("docker not installed, skipping container-based test")
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "testuser",
				"POSTGRES_PASSWORD": "testpass",
				"POSTGRES_DB":       "testdb",
			},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort("5432/tcp"),
				wait.ForLog("database system is ready to accept connections"),
			).WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	dsn := fmt.Sprintf("host=%s port=%s user=testuser password=testpass dbname=testdb sslmode=disable",
		host, port.Port())
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Product{},
		&models.UserPreference{},
		&models.Recipe{},
		&models.RecipeIngredient{},
	))
	return db
}

// CreateTestUser inserts a user plus profile and returns both.
func CreateTestUser(t *testing.T, db *gorm.DB, email string, aiQuota int) (*models.User, *models.Profile) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{Email: email, PasswordHash: string(hash)}
	require.NoError(t, db.Create(&user).Error)

	profile := models.Profile{ID: user.ID, AIRequestsCount: aiQuota}
	require.NoError(t, db.Create(&profile).Error)

	return &user, &profile
}

// CreateTestProduct inserts a catalog product.
func CreateTestProduct(t *testing.T, db *gorm.DB, name string) *models.Product {
	t.Helper()

	product := models.Product{Name: name}
	require.NoError(t, db.Create(&product).Error)
	return &product
}

// MemoryTokenStore is an in-process session store for tests.
type MemoryTokenStore struct {
	mu       sync.Mutex
	sessions map[string]time.Time
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{sessions: make(map[string]time.Time)}
}

func (s *MemoryTokenStore) Save(ctx context.Context, tokenID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[tokenID] = time.Now().Add(ttl)
	return nil
}

func (s *MemoryTokenStore) Exists(ctx context.Context, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.sessions[tokenID]
	if !ok || time.Now().After(exp) {
		return false, nil
	}
	return true, nil
}

func (s *MemoryTokenStore) Delete(ctx context.Context, tokenID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, tokenID)
	return nil
}
