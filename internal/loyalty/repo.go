package loyalty

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/levelup-gaming/levelup-backend/pkg/db/models"
	"github.com/levelup-gaming/levelup-backend/pkg/enums"
	"github.com/levelup-gaming/levelup-backend/pkg/pagination"
)

// Repository manages persistence for points ledger entries.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, entry *models.PointsLedgerEntry) error
	ExistsByOrderAndType(ctx context.Context, orderID uuid.UUID, entryType enums.LedgerEntryType) (bool, error)
	ListByOrderID(ctx context.Context, orderID uuid.UUID) ([]models.PointsLedgerEntry, error)
	ListByUserID(ctx context.Context, userID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.PointsLedgerEntry, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a ledger repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, entry *models.PointsLedgerEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) ExistsByOrderAndType(ctx context.Context, orderID uuid.UUID, entryType enums.LedgerEntryType) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.PointsLedgerEntry{}).
		Where("order_id = ? AND type = ?", orderID, entryType).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) ListByOrderID(ctx context.Context, orderID uuid.UUID) ([]models.PointsLedgerEntry, error) {
	var entries []models.PointsLedgerEntry
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repository) ListByUserID(ctx context.Context, userID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.PointsLedgerEntry, error) {
	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit)
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var entries []models.PointsLedgerEntry
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
