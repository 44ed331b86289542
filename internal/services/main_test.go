// internal/services/main_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/farmagate/pharmacy-backend/internal/database"
	"github.com/farmagate/pharmacy-backend/internal/models"
	"github.com/farmagate/pharmacy-backend/internal/utils"
)

// newTestDB opens a fresh in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, database.AutoMigrate(db))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string, role models.UserRole, epsID *uuid.UUID) *models.User {
	t.Helper()

	user := &models.User{
		Username: username,
		Role:     role,
		EPSID:    epsID,
	}
	require.NoError(t, user.SetPassword("testpass123"))
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestProduct(t *testing.T, db *gorm.DB, name string, price int64, stock int) *models.Product {
	t.Helper()

	product := &models.Product{
		Name:  name,
		Price: price,
		Stock: stock,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func createTestEPS(t *testing.T, db *gorm.DB, name string, discount float64) *models.EPS {
	t.Helper()

	eps := &models.EPS{
		Name:     name,
		Discount: discount,
	}
	require.NoError(t, db.Create(eps).Error)
	return eps
}

func principalFor(user *models.User) *utils.Principal {
	return &utils.Principal{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		EPSID:    user.EPSID,
	}
}
