package models

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/levelup-gaming/levelup-backend/pkg/enums"
)

// DuocEmailDomain is the partner university domain that unlocks the
// student discount at checkout.
const DuocEmailDomain = "@duocuc.cl"

// User represents the canonical identity entity.
type User struct {
	ID           uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	Email        string             `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string             `gorm:"column:password_hash;not null"`
	Name         string             `gorm:"column:name;not null"`
	RUT          string             `gorm:"column:rut;not null;uniqueIndex"`
	Phone        *string            `gorm:"column:phone"`
	Role         enums.UserRole     `gorm:"column:role;type:text;not null;default:'customer'"`
	Points       int                `gorm:"column:points;not null;default:0"`
	LoyaltyLevel enums.LoyaltyLevel `gorm:"column:loyalty_level;type:text;not null;default:'bronze'"`
	ReferralCode string             `gorm:"column:referral_code;not null"`
	ReferredBy   *string            `gorm:"column:referred_by"`
	Newsletter   bool               `gorm:"column:newsletter;not null;default:false"`
	IsActive     bool               `gorm:"column:is_active;not null;default:true"`
	LastLoginAt  *time.Time         `gorm:"column:last_login_at"`
	Addresses    []Address          `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	PaymentCards []PaymentCard      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

// IsDuocStudent derives student status from the email domain. The flag
// is never stored so a changed email can never leave it stale.
func (u User) IsDuocStudent() bool {
	return strings.HasSuffix(strings.ToLower(u.Email), DuocEmailDomain)
}
