package loyalty

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/levelup-gaming/levelup-backend/pkg/db/models"
	"github.com/levelup-gaming/levelup-backend/pkg/enums"
	"github.com/levelup-gaming/levelup-backend/pkg/pagination"
)

type fakeRepository struct {
	createFn func(ctx context.Context, entry *models.PointsLedgerEntry) error
	existsFn func(ctx context.Context, orderID uuid.UUID, entryType enums.LedgerEntryType) (bool, error)
	listFn   func(ctx context.Context, userID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.PointsLedgerEntry, error)
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository {
	return f
}

func (f *fakeRepository) Create(ctx context.Context, entry *models.PointsLedgerEntry) error {
	if f.createFn != nil {
		return f.createFn(ctx, entry)
	}
	return nil
}

func (f *fakeRepository) ExistsByOrderAndType(ctx context.Context, orderID uuid.UUID, entryType enums.LedgerEntryType) (bool, error) {
	if f.existsFn != nil {
		return f.existsFn(ctx, orderID, entryType)
	}
	return false, nil
}

func (f *fakeRepository) ListByOrderID(ctx context.Context, orderID uuid.UUID) ([]models.PointsLedgerEntry, error) {
	return nil, nil
}

func (f *fakeRepository) ListByUserID(ctx context.Context, userID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.PointsLedgerEntry, error) {
	if f.listFn != nil {
		return f.listFn(ctx, userID, limit, cursor)
	}
	return nil, nil
}

func TestService_RecordEntry(t *testing.T) {
	repo := &fakeRepository{}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	orderID := uuid.New()
	metadata := json.RawMessage(`{"order_number":"LVL-20260828-000042"}`)
	input := RecordEntryInput{
		UserID:       uuid.New(),
		OrderID:      &orderID,
		Type:         enums.LedgerEntryTypePointsEarned,
		Delta:        2200,
		BalanceAfter: 2700,
		Metadata:     metadata,
	}

	var created *models.PointsLedgerEntry
	repo.createFn = func(ctx context.Context, entry *models.PointsLedgerEntry) error {
		created = entry
		return nil
	}

	got, err := svc.RecordEntry(context.Background(), input)
	if err != nil {
		t.Fatalf("RecordEntry error: %v", err)
	}
	if created == nil {
		t.Fatal("expected ledger entry to be created")
	}
	if created.UserID != input.UserID || created.Type != input.Type {
		t.Fatalf("unexpected ledger entry data: %+v", created)
	}
	if created.Delta != 2200 || created.BalanceAfter != 2700 {
		t.Fatalf("unexpected amounts: delta=%d balance=%d", created.Delta, created.BalanceAfter)
	}
	if string(created.Metadata) != string(metadata) {
		t.Fatalf("metadata mismatch: %s", created.Metadata)
	}
	if got != created {
		t.Fatal("service should return created entry")
	}
}

func TestService_RecordEntryValidation(t *testing.T) {
	repo := &fakeRepository{}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	orderID := uuid.New()
	tests := []struct {
		name  string
		input RecordEntryInput
	}{
		{
			name: "missing user id",
			input: RecordEntryInput{
				OrderID:      &orderID,
				Type:         enums.LedgerEntryTypePointsEarned,
				Delta:        100,
				BalanceAfter: 100,
			},
		},
		{
			name: "invalid type",
			input: RecordEntryInput{
				UserID:       uuid.New(),
				OrderID:      &orderID,
				Type:         enums.LedgerEntryType("not_real"),
				Delta:        100,
				BalanceAfter: 100,
			},
		},
		{
			name: "order-scoped type without order",
			input: RecordEntryInput{
				UserID:       uuid.New(),
				Type:         enums.LedgerEntryTypePointsRedeemed,
				Delta:        -100,
				BalanceAfter: 0,
			},
		},
		{
			name: "negative resulting balance",
			input: RecordEntryInput{
				UserID:       uuid.New(),
				OrderID:      &orderID,
				Type:         enums.LedgerEntryTypePointsRedeemed,
				Delta:        -500,
				BalanceAfter: -1,
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.RecordEntry(context.Background(), tc.input); err == nil {
				t.Fatalf("expected validation error for %s", tc.name)
			}
		})
	}
}

func TestService_RecordEntryAllowsAdminAdjustmentWithoutOrder(t *testing.T) {
	repo := &fakeRepository{}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	if _, err := svc.RecordEntry(context.Background(), RecordEntryInput{
		UserID:       uuid.New(),
		Type:         enums.LedgerEntryTypeAdminAdjustment,
		Delta:        -250,
		BalanceAfter: 750,
	}); err != nil {
		t.Fatalf("admin adjustment without order should be valid: %v", err)
	}
}

func TestService_HasEntry(t *testing.T) {
	repo := &fakeRepository{}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	orderID := uuid.New()
	repo.existsFn = func(ctx context.Context, gotOrder uuid.UUID, entryType enums.LedgerEntryType) (bool, error) {
		if gotOrder != orderID {
			t.Fatalf("unexpected order id %s", gotOrder)
		}
		return entryType == enums.LedgerEntryTypePointsEarned, nil
	}

	has, err := svc.HasEntry(context.Background(), orderID, enums.LedgerEntryTypePointsEarned)
	if err != nil || !has {
		t.Fatalf("expected existing entry, got has=%v err=%v", has, err)
	}

	has, err = svc.HasEntry(context.Background(), orderID, enums.LedgerEntryTypePointsRefunded)
	if err != nil || has {
		t.Fatalf("expected no refund entry, got has=%v err=%v", has, err)
	}

	if _, err := svc.HasEntry(context.Background(), uuid.Nil, enums.LedgerEntryTypePointsEarned); err == nil {
		t.Fatal("expected error for nil order id")
	}
}

func TestService_HistoryForUserPaginates(t *testing.T) {
	repo := &fakeRepository{}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	userID := uuid.New()
	repo.listFn = func(ctx context.Context, gotUser uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.PointsLedgerEntry, error) {
		if gotUser != userID {
			t.Fatalf("unexpected user id %s", gotUser)
		}
		entries := make([]models.PointsLedgerEntry, limit)
		for i := range entries {
			entries[i] = models.PointsLedgerEntry{ID: uuid.New(), UserID: userID}
		}
		return entries, nil
	}

	entries, next, err := svc.HistoryForUser(context.Background(), userID, pagination.Params{Limit: 2})
	if err != nil {
		t.Fatalf("HistoryForUser error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected page of 2, got %d", len(entries))
	}
	if next == "" {
		t.Fatal("expected a next cursor when more rows exist")
	}
}

func TestService_RecordEntryRepoError(t *testing.T) {
	repo := &fakeRepository{}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	expectedErr := errors.New("boom")
	repo.createFn = func(ctx context.Context, entry *models.PointsLedgerEntry) error {
		return expectedErr
	}

	orderID := uuid.New()
	if _, err := svc.RecordEntry(context.Background(), RecordEntryInput{
		UserID:       uuid.New(),
		OrderID:      &orderID,
		Type:         enums.LedgerEntryTypePointsEarned,
		Delta:        100,
		BalanceAfter: 100,
	}); !errors.Is(err, expectedErr) {
		t.Fatalf("expected repo error to bubble up, got %v", err)
	}
}
