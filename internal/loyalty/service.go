package loyalty

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/levelup-gaming/levelup-backend/pkg/db/models"
	"github.com/levelup-gaming/levelup-backend/pkg/enums"
	"github.com/levelup-gaming/levelup-backend/pkg/pagination"
)

// Service defines operations that record points ledger entries. Entries
// are append-only; balances live on the user row and must be updated in
// the same transaction the entry is written in.
type Service interface {
	WithTx(tx *gorm.DB) Service
	RecordEntry(ctx context.Context, input RecordEntryInput) (*models.PointsLedgerEntry, error)
	HasEntry(ctx context.Context, orderID uuid.UUID, entryType enums.LedgerEntryType) (bool, error)
	HistoryForUser(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.PointsLedgerEntry, string, error)
}

type service struct {
	repo Repository
}

// RecordEntryInput captures the immutable data a ledger entry requires.
// OrderID is nil only for admin adjustments; every order-scoped type
// must reference the order so the (order_id, type) uniqueness holds.
type RecordEntryInput struct {
	UserID       uuid.UUID             `json:"user_id"`
	OrderID      *uuid.UUID            `json:"order_id"`
	Type         enums.LedgerEntryType `json:"type"`
	Delta        int                   `json:"delta"`
	BalanceAfter int                   `json:"balance_after"`
	Metadata     json.RawMessage       `json:"metadata"`
}

// NewService wires a loyalty service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("loyalty repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) WithTx(tx *gorm.DB) Service {
	if tx == nil {
		return s
	}
	return &service{repo: s.repo.WithTx(tx)}
}

func (s *service) RecordEntry(ctx context.Context, input RecordEntryInput) (*models.PointsLedgerEntry, error) {
	if input.UserID == uuid.Nil {
		return nil, fmt.Errorf("user id is required")
	}
	if !input.Type.IsValid() {
		return nil, fmt.Errorf("invalid ledger entry type %q", input.Type)
	}
	if input.Type != enums.LedgerEntryTypeAdminAdjustment {
		if input.OrderID == nil || *input.OrderID == uuid.Nil {
			return nil, fmt.Errorf("order id is required for %s entries", input.Type)
		}
	}
	if input.BalanceAfter < 0 {
		return nil, fmt.Errorf("balance after cannot be negative")
	}

	entry := &models.PointsLedgerEntry{
		UserID:       input.UserID,
		OrderID:      input.OrderID,
		Type:         input.Type,
		Delta:        input.Delta,
		BalanceAfter: input.BalanceAfter,
		Metadata:     input.Metadata,
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *service) HasEntry(ctx context.Context, orderID uuid.UUID, entryType enums.LedgerEntryType) (bool, error) {
	if orderID == uuid.Nil {
		return false, fmt.Errorf("order id is required")
	}
	if !entryType.IsValid() {
		return false, fmt.Errorf("invalid ledger entry type %q", entryType)
	}
	return s.repo.ExistsByOrderAndType(ctx, orderID, entryType)
}

func (s *service) HistoryForUser(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.PointsLedgerEntry, string, error) {
	if userID == uuid.Nil {
		return nil, "", fmt.Errorf("user id is required")
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", err
	}
	limit := pagination.NormalizeLimit(params.Limit)

	entries, err := s.repo.ListByUserID(ctx, userID, limit+1, cursor)
	if err != nil {
		return nil, "", err
	}

	next := ""
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[len(entries)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return entries, next, nil
}
