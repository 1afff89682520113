package migrate

import (
	"context"
	"fmt"

	"github.com/levelup-gaming/levelup-backend/pkg/db"
	"github.com/levelup-gaming/levelup-backend/pkg/db/models"
	"github.com/levelup-gaming/levelup-backend/pkg/logger"
)

func autoMigrateSQLite(ctx context.Context, logg *logger.Logger, client *db.Client) error {
	logg.Info(ctx, "running gorm AutoMigrate (sqlite dev database)")

	if err := client.DB().WithContext(ctx).AutoMigrate(
		&models.User{},
		&models.Address{},
		&models.PaymentCard{},
		&models.Product{},
		&models.CartRecord{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.PointsLedgerEntry{},
		&models.Post{},
		&models.Event{},
		&models.Review{},
	); err != nil {
		return fmt.Errorf("auto-migrating sqlite schema: %w", err)
	}

	return nil
}
