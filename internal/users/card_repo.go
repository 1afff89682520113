package users

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/levelup-gaming/levelup-backend/pkg/db/models"
)

// CardRepository persists masked payment method metadata.
type CardRepository struct {
	db *gorm.DB
}

// NewCardRepository constructs a card repo bound to the provided GORM DB.
func NewCardRepository(db *gorm.DB) *CardRepository {
	return &CardRepository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *CardRepository) WithTx(tx *gorm.DB) *CardRepository {
	if tx == nil {
		return r
	}
	return &CardRepository{db: tx}
}

// ListByUser returns the user's saved payment methods, default first.
func (r *CardRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.PaymentCard, error) {
	var rows []models.PaymentCard
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC, created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByID loads a card scoped to its owner.
func (r *CardRepository) FindByID(ctx context.Context, userID, id uuid.UUID) (*models.PaymentCard, error) {
	var card models.PaymentCard
	if err := r.db.WithContext(ctx).
		First(&card, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		return nil, err
	}
	return &card, nil
}

// Create inserts a new card row.
func (r *CardRepository) Create(ctx context.Context, card *models.PaymentCard) error {
	return r.db.WithContext(ctx).Create(card).Error
}

// Save persists the full card row.
func (r *CardRepository) Save(ctx context.Context, card *models.PaymentCard) error {
	return r.db.WithContext(ctx).Save(card).Error
}

// Delete removes a card scoped to its owner.
func (r *CardRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.PaymentCard{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ClearDefault unsets the default flag on all of the user's cards.
func (r *CardRepository) ClearDefault(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.PaymentCard{}).
		Where("user_id = ?", userID).
		Update("is_default", false).Error
}
