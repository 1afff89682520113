package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/levelup-gaming/levelup-backend/pkg/enums"
)

// CartRecord is the persisted cart head. Totals are intentionally not
// stored on the record: they are recomputed from the items on every
// load so a stale snapshot can never be served.
type CartRecord struct {
	ID        uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	UserID    uuid.UUID        `gorm:"column:user_id;type:uuid;not null;index"`
	Status    enums.CartStatus `gorm:"column:status;type:text;not null;default:'active'"`
	Items     []CartItem       `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
