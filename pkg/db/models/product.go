package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/levelup-gaming/levelup-backend/pkg/enums"
)

// Product is a catalog entry. Price is in integer Chilean pesos.
// Points is the loyalty accrual per unit; PointsCost is only set on
// redeemable rewards-catalog products and prices the unit in points.
type Product struct {
	ID          uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	Code        string              `gorm:"column:code;not null;uniqueIndex"`
	Name        string              `gorm:"column:name;not null"`
	Description string              `gorm:"column:description;not null"`
	Category    string              `gorm:"column:category;not null"`
	Brand       string              `gorm:"column:brand;not null"`
	Price       int                 `gorm:"column:price;not null"`
	Stock       int                 `gorm:"column:stock;not null;default:0"`
	Points      int                 `gorm:"column:points;not null;default:0"`
	PointsCost  *int                `gorm:"column:points_cost"`
	Redeemable  bool                `gorm:"column:redeemable;not null;default:false"`
	Origin      enums.ProductOrigin `gorm:"column:origin;type:text;not null;default:'store'"`
	ImagePath   string              `gorm:"column:image_path;not null;default:''"`
	Rating      *float64            `gorm:"column:rating"`
	IsActive    bool                `gorm:"column:is_active;not null;default:true"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
