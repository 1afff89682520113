package products

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/levelup-gaming/levelup-backend/pkg/db/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// A named shared-cache DB keeps every pooled connection on the same
	// in-memory database while isolating tests from each other.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := conn.AutoMigrate(&models.Product{}, &models.Review{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return conn
}

type txRunnerFunc func(ctx context.Context, fn func(tx *gorm.DB) error) error

func (f txRunnerFunc) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return f(ctx, fn)
}

func passthroughTx(conn *gorm.DB) txRunnerFunc {
	return func(ctx context.Context, fn func(tx *gorm.DB) error) error {
		return fn(conn)
	}
}

func mustCreateTestProduct(t *testing.T, conn *gorm.DB, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:          uuid.New(),
		Code:        fmt.Sprintf("JM%s", uuid.NewString()[:8]),
		Name:        "Catan",
		Description: "Base board game",
		Category:    "Juegos de Mesa",
		Brand:       "Devir",
		Price:       29990,
		Stock:       stock,
		Points:      1500,
		IsActive:    true,
	}
	if err := conn.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}
