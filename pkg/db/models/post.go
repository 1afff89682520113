package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/levelup-gaming/levelup-backend/pkg/enums"
)

// Post is a blog entry or news item published to the community pages.
type Post struct {
	ID          uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	Slug        string             `gorm:"column:slug;not null;uniqueIndex"`
	Title       string             `gorm:"column:title;not null"`
	Excerpt     string             `gorm:"column:excerpt;not null;default:''"`
	Body        string             `gorm:"column:body;not null"`
	Category    enums.PostCategory `gorm:"column:category;type:text;not null;default:'blog'"`
	Author      string             `gorm:"column:author;not null"`
	ImagePath   string             `gorm:"column:image_path;not null;default:''"`
	Published   bool               `gorm:"column:published;not null;default:false"`
	PublishedAt *time.Time         `gorm:"column:published_at"`
	CreatedAt   time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
