package models

import (
	"time"

	"github.com/google/uuid"
)

// Address is a saved delivery address on a user profile.
type Address struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	UserID     uuid.UUID `gorm:"column:user_id;type:uuid;not null"`
	Name       string    `gorm:"column:name;not null"`
	Street     string    `gorm:"column:street;not null"`
	Number     string    `gorm:"column:number;not null"`
	Apartment  *string   `gorm:"column:apartment"`
	City       string    `gorm:"column:city;not null"`
	Commune    *string   `gorm:"column:commune"`
	Region     string    `gorm:"column:region;not null"`
	PostalCode *string   `gorm:"column:postal_code"`
	Phone      string    `gorm:"column:phone;not null"`
	IsDefault  bool      `gorm:"column:is_default;not null;default:false"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
