package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/levelup-gaming/levelup-backend/pkg/enums"
)

// CartItem is a cart line. No two lines on the same cart share
// ProductID and PurchaseMethod; inserts merge instead. For money lines
// TotalPrice == UnitPrice * Quantity; points lines carry TotalPrice 0
// and PointsRequired as the per-unit point cost.
type CartItem struct {
	ID             uuid.UUID            `gorm:"column:id;type:uuid;primaryKey"`
	CartID         uuid.UUID            `gorm:"column:cart_id;type:uuid;not null;index"`
	ProductID      uuid.UUID            `gorm:"column:product_id;type:uuid;not null"`
	ProductName    string               `gorm:"column:product_name;not null"`
	UnitPrice      int                  `gorm:"column:unit_price;not null"`
	Quantity       int                  `gorm:"column:quantity;not null"`
	TotalPrice     int                  `gorm:"column:total_price;not null"`
	PointsPerUnit  int                  `gorm:"column:points_per_unit;not null;default:0"`
	PurchaseMethod enums.PurchaseMethod `gorm:"column:purchase_method;type:text;not null;default:'money'"`
	PointsRequired *int                 `gorm:"column:points_required"`
	CreatedAt      time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
