package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/levelup-gaming/levelup-backend/pkg/enums"
)

// PaymentCard is a saved payment method. Only masked card metadata is
// kept; the storefront never stores a full PAN.
type PaymentCard struct {
	ID        uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	UserID    uuid.UUID           `gorm:"column:user_id;type:uuid;not null"`
	Method    enums.PaymentMethod `gorm:"column:method;type:text;not null"`
	Last4     *string             `gorm:"column:last4"`
	Holder    *string             `gorm:"column:holder"`
	Brand     *string             `gorm:"column:brand"`
	Bank      *string             `gorm:"column:bank"`
	Account   *string             `gorm:"column:account"`
	IsDefault bool                `gorm:"column:is_default;not null;default:false"`
	CreatedAt time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
