package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/levelup-gaming/levelup-backend/pkg/enums"
)

// OrderItem is the immutable per-line snapshot copied from the cart at
// checkout.
type OrderItem struct {
	ID             uuid.UUID            `gorm:"column:id;type:uuid;primaryKey"`
	OrderID        uuid.UUID            `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID      uuid.UUID            `gorm:"column:product_id;type:uuid;not null"`
	ProductName    string               `gorm:"column:product_name;not null"`
	UnitPrice      int                  `gorm:"column:unit_price;not null"`
	Quantity       int                  `gorm:"column:quantity;not null"`
	TotalPrice     int                  `gorm:"column:total_price;not null"`
	PointsPerUnit  int                  `gorm:"column:points_per_unit;not null;default:0"`
	PurchaseMethod enums.PurchaseMethod `gorm:"column:purchase_method;type:text;not null;default:'money'"`
	PointsRequired *int                 `gorm:"column:points_required"`
	CreatedAt      time.Time            `gorm:"column:created_at;autoCreateTime"`
}
