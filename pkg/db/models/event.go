package models

import (
	"time"

	"github.com/google/uuid"
)

// Event is a community event (tournament, launch, meetup) shown on the
// events page.
type Event struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	Title       string     `gorm:"column:title;not null"`
	Description string     `gorm:"column:description;not null"`
	Location    string     `gorm:"column:location;not null"`
	StartsAt    time.Time  `gorm:"column:starts_at;not null"`
	EndsAt      *time.Time `gorm:"column:ends_at"`
	ImagePath   string     `gorm:"column:image_path;not null;default:''"`
	Published   bool       `gorm:"column:published;not null;default:false"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
