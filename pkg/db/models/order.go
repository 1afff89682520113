package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/levelup-gaming/levelup-backend/pkg/enums"
	"github.com/levelup-gaming/levelup-backend/pkg/types"
)

// Order is the immutable priced snapshot produced at checkout. Monetary
// fields never change after creation; only Status and UpdatedAt do.
// Invariant: Total == Subtotal - DuocDiscount - PointsDiscount + ShippingCost.
type Order struct {
	ID              uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	OrderNumber     string                `gorm:"column:order_number;not null;uniqueIndex"`
	UserID          uuid.UUID             `gorm:"column:user_id;type:uuid;not null;index"`
	Items           []OrderItem           `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Subtotal        int                   `gorm:"column:subtotal;not null"`
	DuocDiscount    int                   `gorm:"column:duoc_discount;not null;default:0"`
	PointsDiscount  int                   `gorm:"column:points_discount;not null;default:0"`
	ShippingCost    int                   `gorm:"column:shipping_cost;not null;default:0"`
	Total           int                   `gorm:"column:total;not null"`
	PointsUsed      int                   `gorm:"column:points_used;not null;default:0"`
	PointsEarned    int                   `gorm:"column:points_earned;not null;default:0"`
	Status          enums.OrderStatus     `gorm:"column:status;type:text;not null;default:'pending'"`
	ShippingAddress types.ShippingAddress `gorm:"column:shipping_address;type:jsonb;serializer:json"`
	PaymentMethod   enums.PaymentMethod   `gorm:"column:payment_method;type:text;not null"`
	Notes           *string               `gorm:"column:notes"`
	CreatedByAdmin  *uuid.UUID            `gorm:"column:created_by_admin;type:uuid"`
	CreatedAt       time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
