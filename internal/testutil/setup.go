package testutil

import (
	"testing"
	"time"

	"github.com/conectados/social-service/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestJWTSecret is the signing key used by handler tests.
const TestJWTSecret = "test-secret"

// SetupTestDB opens an in-memory SQLite database with the full schema
// migrated. Each call returns an isolated database.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// An in-memory SQLite database exists per connection; keep the pool at
	// one so every query sees the migrated schema.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, models.AutoMigrate(db))

	return db
}

// SignToken mints an HS256 token for the given user, matching the claims
// shape issued by the auth service.
func SignToken(t *testing.T, userID uuid.UUID) string {
	t.Helper()

	claims := jwt.MapClaims{
		"sub": userID.String(),
		"exp": time.Now().Add(time.Hour).Unix(),
		"iat": time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(TestJWTSecret))
	require.NoError(t, err)

	return signed
}

// SeedProfile inserts a minimal user profile so friendship operations
// that check recipient existence can succeed.
func SeedProfile(t *testing.T, db *gorm.DB, userID uuid.UUID, username string) {
	t.Helper()

	require.NoError(t, db.Create(&models.UserProfile{
		UserID:   userID,
		Username: username,
	}).Error)
}
