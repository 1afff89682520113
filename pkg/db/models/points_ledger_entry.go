package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/levelup-gaming/levelup-backend/pkg/enums"
)

// PointsLedgerEntry records a signed movement on a user's points
// balance. The (order_id, type) unique index is the idempotency key
// that keeps replayed order transitions from crediting or refunding
// points twice.
type PointsLedgerEntry struct {
	ID           uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	UserID       uuid.UUID             `gorm:"column:user_id;type:uuid;not null;index"`
	OrderID      *uuid.UUID            `gorm:"column:order_id;type:uuid;uniqueIndex:idx_points_ledger_order_type"`
	Type         enums.LedgerEntryType `gorm:"column:type;type:text;not null;uniqueIndex:idx_points_ledger_order_type"`
	Delta        int                   `gorm:"column:delta;not null"`
	BalanceAfter int                   `gorm:"column:balance_after;not null"`
	Metadata     json.RawMessage       `gorm:"column:metadata;type:jsonb"`
	CreatedAt    time.Time             `gorm:"column:created_at;autoCreateTime"`
}
