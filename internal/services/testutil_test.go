// internal/services/testutil_test.go
package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/karigarh/marketplace-backend/internal/cache"
	"github.com/karigarh/marketplace-backend/internal/config"
	"github.com/karigarh/marketplace-backend/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// Named shared in-memory database: one per test so the connection pool
	// sees a single schema and tests stay isolated from each other.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Producer{},
		&models.Product{},
		&models.Order{},
		&models.Follow{},
		&models.LiveStream{},
		&models.AuditLog{},
	)
	require.NoError(t, err)

	return db
}

func testConfig() *config.Config {
	return &config.Config{
		Environment: "test",
		Payment: config.PaymentConfig{
			Currency:           "inr",
			PlatformFeePercent: 10.0,
			RequireUpfront:     true,
		},
		Cache: config.CacheConfig{TTLSeconds: 30},
		JWT: config.JWTConfig{
			SecretKey:       "test-secret",
			AccessTokenTTL:  1,
			RefreshTokenTTL: 24,
		},
	}
}

func newTestCache() *cache.Cache {
	return cache.New(time.Minute)
}

// fakeGateway is a controllable stand-in for the payment provider.
type fakeGateway struct {
	chargeErr error
	verifyErr error
	charged   []int64
	verified  []string
}

func (g *fakeGateway) Charge(_ context.Context, amount int64, _ map[string]string) (string, error) {
	if g.chargeErr != nil {
		return "", g.chargeErr
	}
	g.charged = append(g.charged, amount)
	return fmt.Sprintf("pay_test_%d", len(g.charged)), nil
}

func (g *fakeGateway) Verify(_ context.Context, paymentID string) error {
	if g.verifyErr != nil {
		return g.verifyErr
	}
	g.verified = append(g.verified, paymentID)
	return nil
}

func createTestUser(t *testing.T, db *gorm.DB, userType models.UserType) *models.User {
	t.Helper()

	user := &models.User{
		Username: "user_" + uuid.New().String()[:8],
		Email:    uuid.New().String()[:8] + "@test.local",
		UserType: userType,
		Status:   models.UserStatusActive,
	}
	require.NoError(t, user.SetPassword("Secret@123"))
	require.NoError(t, db.Create(user).Error)

	return user
}

func createTestProducer(t *testing.T, db *gorm.DB, status models.ApprovalStatus) (*models.User, *models.Producer) {
	t.Helper()

	user := createTestUser(t, db, models.UserTypeProducer)
	producer := &models.Producer{
		UserID:         user.ID,
		Name:           "Meera Devi",
		Region:         "Kutch",
		ApprovalStatus: status,
	}
	require.NoError(t, db.Create(producer).Error)

	return user, producer
}

func createTestProduct(t *testing.T, db *gorm.DB, producerUserID uuid.UUID, price int64, stock int) *models.Product {
	t.Helper()

	product := &models.Product{
		ProducerID: producerUserID,
		Title:      "Handwoven Shawl",
		Price:      price,
		Stock:      stock,
		Region:     "Kutch",
	}
	require.NoError(t, db.Create(product).Error)

	return product
}

func productStock(t *testing.T, db *gorm.DB, productID uuid.UUID) int {
	t.Helper()

	var product models.Product
	require.NoError(t, db.First(&product, "id = ?", productID).Error)
	return product.Stock
}

func orderCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	return count
}
