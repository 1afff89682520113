package cart

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/levelup-gaming/levelup-backend/internal/products"
	"github.com/levelup-gaming/levelup-backend/pkg/db/models"
	"github.com/levelup-gaming/levelup-backend/pkg/enums"
	pkgerrors "github.com/levelup-gaming/levelup-backend/pkg/errors"
)

type txRunnerFunc func(ctx context.Context, fn func(tx *gorm.DB) error) error

func (f txRunnerFunc) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return f(ctx, fn)
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := conn.AutoMigrate(
		&models.Product{},
		&models.CartRecord{},
		&models.CartItem{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return conn
}

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	conn := openTestDB(t)

	runner := txRunnerFunc(func(ctx context.Context, fn func(tx *gorm.DB) error) error {
		return fn(conn)
	})
	svc, err := NewService(NewRepository(conn), products.NewRepository(conn), runner)
	if err != nil {
		t.Fatalf("cart service: %v", err)
	}
	return svc, conn
}

func mustCreateProduct(t *testing.T, conn *gorm.DB, price, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		Code:     fmt.Sprintf("P%s", uuid.NewString()[:8]),
		Name:     "Teclado Redragon Kumara",
		Category: "Accesorios",
		Brand:    "Redragon",
		Price:    price,
		Stock:    stock,
		Points:   price / 20,
		IsActive: true,
	}
	if err := conn.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}

func mustCreateRedeemable(t *testing.T, conn *gorm.DB, pointsCost, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		Code:       fmt.Sprintf("RW%s", uuid.NewString()[:8]),
		Name:       "Polera LevelUp",
		Category:   "Poleras",
		Brand:      "LevelUp",
		Price:      0,
		Stock:      stock,
		Redeemable: true,
		PointsCost: &pointsCost,
		Origin:     enums.ProductOriginRewards,
		IsActive:   true,
	}
	if err := conn.Create(product).Error; err != nil {
		t.Fatalf("create redeemable: %v", err)
	}
	return product
}

func TestGetCartCreatesEmptyActiveCart(t *testing.T) {
	svc, _ := newTestService(t)
	userID := uuid.New()

	view, err := svc.GetCart(context.Background(), userID)
	if err != nil {
		t.Fatalf("GetCart: %v", err)
	}
	if view.Cart.Status != enums.CartStatusActive {
		t.Fatalf("status = %s, want active", view.Cart.Status)
	}
	if len(view.Cart.Items) != 0 || view.Totals.Total != 0 {
		t.Fatalf("new cart should be empty, got %+v", view)
	}

	again, err := svc.GetCart(context.Background(), userID)
	if err != nil {
		t.Fatalf("second GetCart: %v", err)
	}
	if again.Cart.ID != view.Cart.ID {
		t.Fatal("second load must return the same active cart")
	}
}

func TestAddItemMergesSameProductAndMethod(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()
	product := mustCreateProduct(t, conn, 19990, 10)

	if _, err := svc.AddItem(ctx, userID, AddItemInput{ProductID: product.ID, Quantity: 2}); err != nil {
		t.Fatalf("first add: %v", err)
	}
	view, err := svc.AddItem(ctx, userID, AddItemInput{ProductID: product.ID, Quantity: 3})
	if err != nil {
		t.Fatalf("second add: %v", err)
	}

	if len(view.Cart.Items) != 1 {
		t.Fatalf("expected one merged line, got %d", len(view.Cart.Items))
	}
	line := view.Cart.Items[0]
	if line.Quantity != 5 {
		t.Fatalf("quantity = %d, want 5", line.Quantity)
	}
	if line.TotalPrice != 5*19990 {
		t.Fatalf("line total = %d, want %d", line.TotalPrice, 5*19990)
	}
	if view.Totals.Subtotal != 5*19990 {
		t.Fatalf("subtotal = %d, want %d", view.Totals.Subtotal, 5*19990)
	}
	if view.Totals.ShippingCost != 0 {
		t.Fatalf("shipping = %d, want 0 above threshold", view.Totals.ShippingCost)
	}
}

func TestAddItemSeparateLinesPerPurchaseMethod(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()
	product := mustCreateRedeemable(t, conn, 3000, 10)
	// Redeemable product that can also be bought with money.
	product.Price = 9990
	if err := conn.Save(product).Error; err != nil {
		t.Fatalf("save product: %v", err)
	}

	if _, err := svc.AddItem(ctx, userID, AddItemInput{ProductID: product.ID, Quantity: 1}); err != nil {
		t.Fatalf("money add: %v", err)
	}
	view, err := svc.AddItem(ctx, userID, AddItemInput{
		ProductID:      product.ID,
		Quantity:       1,
		PurchaseMethod: enums.PurchaseMethodPoints,
	})
	if err != nil {
		t.Fatalf("points add: %v", err)
	}

	if len(view.Cart.Items) != 2 {
		t.Fatalf("expected two lines, got %d", len(view.Cart.Items))
	}
	for _, line := range view.Cart.Items {
		switch line.PurchaseMethod {
		case enums.PurchaseMethodMoney:
			if line.TotalPrice != 9990 {
				t.Fatalf("money line total = %d, want 9990", line.TotalPrice)
			}
		case enums.PurchaseMethodPoints:
			if line.TotalPrice != 0 {
				t.Fatalf("points line total = %d, want 0", line.TotalPrice)
			}
			if line.PointsRequired == nil || *line.PointsRequired != 3000 {
				t.Fatalf("points line cost = %v, want 3000", line.PointsRequired)
			}
		}
	}
	if view.Totals.Subtotal != 9990 {
		t.Fatalf("subtotal = %d, want 9990 (points lines excluded)", view.Totals.Subtotal)
	}
}

func TestAddItemStockExceeded(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()
	product := mustCreateProduct(t, conn, 5000, 3)

	if _, err := svc.AddItem(ctx, userID, AddItemInput{ProductID: product.ID, Quantity: 2}); err != nil {
		t.Fatalf("add within stock: %v", err)
	}

	_, err := svc.AddItem(ctx, userID, AddItemInput{ProductID: product.ID, Quantity: 2})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStockExceeded {
		t.Fatalf("expected stock exceeded on merged quantity, got %v", err)
	}
	details, ok := typed.Details().(map[string]any)
	if !ok || details["available"] != 3 {
		t.Fatalf("expected available stock in details, got %v", typed.Details())
	}

	view, err := svc.GetCart(ctx, userID)
	if err != nil {
		t.Fatalf("reload cart: %v", err)
	}
	if view.Cart.Items[0].Quantity != 2 {
		t.Fatalf("failed add must not change the cart, quantity = %d", view.Cart.Items[0].Quantity)
	}
}

func TestAddItemValidation(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	_, err := svc.AddItem(ctx, userID, AddItemInput{ProductID: uuid.New(), Quantity: 0})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for zero quantity, got %v", err)
	}

	_, err = svc.AddItem(ctx, userID, AddItemInput{ProductID: uuid.New(), Quantity: 1})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for unknown product, got %v", err)
	}

	inactive := mustCreateProduct(t, conn, 1000, 5)
	if err := conn.Model(inactive).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	_, err = svc.AddItem(ctx, userID, AddItemInput{ProductID: inactive.ID, Quantity: 1})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for inactive product, got %v", err)
	}

	plain := mustCreateProduct(t, conn, 1000, 5)
	_, err = svc.AddItem(ctx, userID, AddItemInput{
		ProductID:      plain.ID,
		Quantity:       1,
		PurchaseMethod: enums.PurchaseMethodPoints,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for non-redeemable points line, got %v", err)
	}
}

func TestUpdateItemQuantity(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()
	product := mustCreateProduct(t, conn, 10000, 5)

	view, err := svc.AddItem(ctx, userID, AddItemInput{ProductID: product.ID, Quantity: 1})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	itemID := view.Cart.Items[0].ID

	view, err = svc.UpdateItemQuantity(ctx, userID, itemID, 4)
	if err != nil {
		t.Fatalf("update quantity: %v", err)
	}
	if view.Cart.Items[0].Quantity != 4 || view.Cart.Items[0].TotalPrice != 40000 {
		t.Fatalf("line = %+v, want qty 4 total 40000", view.Cart.Items[0])
	}

	_, err = svc.UpdateItemQuantity(ctx, userID, itemID, 9)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStockExceeded {
		t.Fatalf("expected stock exceeded, got %v", err)
	}

	view, err = svc.UpdateItemQuantity(ctx, userID, itemID, 0)
	if err != nil {
		t.Fatalf("zero quantity: %v", err)
	}
	if len(view.Cart.Items) != 0 {
		t.Fatal("zero quantity must remove the line")
	}
}

func TestRemoveAndClear(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()
	first := mustCreateProduct(t, conn, 5000, 10)
	second := mustCreateProduct(t, conn, 7000, 10)

	if _, err := svc.AddItem(ctx, userID, AddItemInput{ProductID: first.ID, Quantity: 1}); err != nil {
		t.Fatalf("add first: %v", err)
	}
	view, err := svc.AddItem(ctx, userID, AddItemInput{ProductID: second.ID, Quantity: 1})
	if err != nil {
		t.Fatalf("add second: %v", err)
	}

	view, err = svc.RemoveItem(ctx, userID, view.Cart.Items[0].ID)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(view.Cart.Items) != 1 {
		t.Fatalf("expected 1 line after remove, got %d", len(view.Cart.Items))
	}

	_, err = svc.RemoveItem(ctx, userID, uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for unknown item, got %v", err)
	}

	view, err = svc.ClearCart(ctx, userID)
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if len(view.Cart.Items) != 0 || view.Totals.Total != 0 {
		t.Fatalf("cart should be empty after clear, got %+v", view)
	}
}

func TestExpireStaleCarts(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	stale := &models.CartRecord{UserID: uuid.New(), Status: enums.CartStatusActive}
	if err := conn.Create(stale).Error; err != nil {
		t.Fatalf("create stale cart: %v", err)
	}
	old := time.Now().UTC().Add(-15 * 24 * time.Hour)
	if err := conn.Model(stale).UpdateColumn("updated_at", old).Error; err != nil {
		t.Fatalf("age cart: %v", err)
	}

	fresh := &models.CartRecord{UserID: uuid.New(), Status: enums.CartStatusActive}
	if err := conn.Create(fresh).Error; err != nil {
		t.Fatalf("create fresh cart: %v", err)
	}

	expired, err := svc.ExpireStaleCarts(ctx, 14*24*time.Hour, 50)
	if err != nil {
		t.Fatalf("ExpireStaleCarts: %v", err)
	}
	if expired != 1 {
		t.Fatalf("expired = %d, want 1", expired)
	}

	// Each reload needs its own destination: gorm folds a populated
	// struct's primary key into the WHERE clause.
	var reloadedStale models.CartRecord
	if err := conn.First(&reloadedStale, "id = ?", stale.ID).Error; err != nil {
		t.Fatalf("reload stale: %v", err)
	}
	if reloadedStale.Status != enums.CartStatusExpired {
		t.Fatalf("status = %s, want expired", reloadedStale.Status)
	}

	var reloadedFresh models.CartRecord
	if err := conn.First(&reloadedFresh, "id = ?", fresh.ID).Error; err != nil {
		t.Fatalf("reload fresh: %v", err)
	}
	if reloadedFresh.Status != enums.CartStatusActive {
		t.Fatalf("fresh cart status = %s, want active", reloadedFresh.Status)
	}
}
