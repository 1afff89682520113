package products

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/levelup-gaming/levelup-backend/pkg/enums"
	pkgerrors "github.com/levelup-gaming/levelup-backend/pkg/errors"
	"github.com/levelup-gaming/levelup-backend/pkg/pagination"
)

func newTestService(t *testing.T) (Service, *Repository) {
	t.Helper()
	conn := openTestDB(t)
	repo := NewRepository(conn)
	svc, err := NewService(repo, passthroughTx(conn))
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}
	return svc, repo
}

func TestCreateProductValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		input CreateProductInput
	}{
		{"missing code", CreateProductInput{Name: "Catan", Price: 1000}},
		{"missing name", CreateProductInput{Code: "JM001", Price: 1000}},
		{"negative price", CreateProductInput{Code: "JM001", Name: "Catan", Price: -1}},
		{"negative stock", CreateProductInput{Code: "JM001", Name: "Catan", Price: 1000, Stock: -5}},
		{"redeemable without cost", CreateProductInput{Code: "JM001", Name: "Catan", Price: 1000, Redeemable: true}},
		{"bad origin", CreateProductInput{Code: "JM001", Name: "Catan", Price: 1000, Origin: enums.ProductOrigin("warehouse")}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateProduct(ctx, tc.input)
			if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCreateProductDuplicateCode(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	input := CreateProductInput{Code: "JM001", Name: "Catan", Price: 29990, Stock: 10}
	if _, err := svc.CreateProduct(ctx, input); err != nil {
		t.Fatalf("first create: %v", err)
	}

	_, err := svc.CreateProduct(ctx, input)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict for duplicate code, got %v", err)
	}
}

func TestProductLifecycle(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, CreateProductInput{
		Code:  "AC002",
		Name:  "Control Xbox Series X",
		Price: 59990,
		Stock: 3,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Fatal("expected generated product id")
	}
	if !created.IsActive {
		t.Fatal("new products must start active")
	}

	byCode, err := svc.GetProductByCode(ctx, "AC002")
	if err != nil || byCode.ID != created.ID {
		t.Fatalf("get by code: %v", err)
	}

	newPrice := 54990
	updated, err := svc.UpdateProduct(ctx, created.ID, UpdateProductInput{Price: &newPrice})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Price != 54990 {
		t.Fatalf("price = %d, want 54990", updated.Price)
	}

	if err := svc.DeactivateProduct(ctx, created.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	reloaded, err := svc.GetProduct(ctx, created.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.IsActive {
		t.Fatal("deactivate must clear is_active")
	}

	rows, _, err := svc.ListProducts(ctx, ListFilter{}, pagination.Params{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, row := range rows {
		if row.ID == created.ID {
			t.Fatal("default listing must hide inactive products")
		}
	}
}

func TestAdjustStockGuardsAgainstNegative(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, CreateProductInput{
		Code:  "CG003",
		Name:  "Elden Ring PS5",
		Price: 44990,
		Stock: 2,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.AdjustStock(ctx, created.ID, -2)
	if err != nil {
		t.Fatalf("adjust within stock: %v", err)
	}
	if updated.Stock != 0 {
		t.Fatalf("stock = %d, want 0", updated.Stock)
	}

	_, err = svc.AdjustStock(ctx, created.ID, -1)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStockExceeded {
		t.Fatalf("expected stock exceeded error, got %v", err)
	}
	details, ok := typed.Details().(map[string]any)
	if !ok || details["available"] != 0 {
		t.Fatalf("expected available stock in details, got %v", typed.Details())
	}

	restocked, err := svc.AdjustStock(ctx, created.ID, 5)
	if err != nil {
		t.Fatalf("restock: %v", err)
	}
	if restocked.Stock != 5 {
		t.Fatalf("stock = %d, want 5", restocked.Stock)
	}
}

func TestAdjustStockUnknownProduct(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.AdjustStock(context.Background(), uuid.New(), -1)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAddReviewUpdatesRating(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, CreateProductInput{
		Code:  "JM004",
		Name:  "Carcassonne",
		Price: 24990,
		Stock: 8,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.AddReview(ctx, AddReviewInput{
		ProductID: created.ID,
		UserID:    uuid.New(),
		Rating:    5,
		Comment:   "Excelente juego",
	}); err != nil {
		t.Fatalf("first review: %v", err)
	}
	if _, err := svc.AddReview(ctx, AddReviewInput{
		ProductID: created.ID,
		UserID:    uuid.New(),
		Rating:    2,
	}); err != nil {
		t.Fatalf("second review: %v", err)
	}

	reloaded, err := svc.GetProduct(ctx, created.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Rating == nil || *reloaded.Rating != 3.5 {
		t.Fatalf("rating = %v, want 3.5", reloaded.Rating)
	}

	reviews, err := svc.ListReviews(ctx, created.ID)
	if err != nil || len(reviews) != 2 {
		t.Fatalf("expected 2 reviews, got %d (err %v)", len(reviews), err)
	}
}

func TestAddReviewValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, rating := range []int{0, 6, -1} {
		_, err := svc.AddReview(ctx, AddReviewInput{
			ProductID: uuid.New(),
			UserID:    uuid.New(),
			Rating:    rating,
		})
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("rating %d: expected validation error, got %v", rating, err)
		}
	}

	_, err := svc.AddReview(ctx, AddReviewInput{
		ProductID: uuid.New(),
		UserID:    uuid.New(),
		Rating:    4,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for unknown product, got %v", err)
	}
}

func TestListProductsFilters(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	pointsCost := 3000
	fixtures := []CreateProductInput{
		{Code: "JM010", Name: "Catan", Brand: "Devir", Category: "Juegos de Mesa", Price: 29990, Stock: 5},
		{Code: "AC011", Name: "Mouse Logitech G502", Brand: "Logitech", Category: "Accesorios", Price: 49990, Stock: 9},
		{Code: "RW012", Name: "Polera LevelUp", Brand: "LevelUp", Category: "Poleras", Price: 0, Stock: 20, Redeemable: true, PointsCost: &pointsCost, Origin: enums.ProductOriginRewards},
	}
	for _, f := range fixtures {
		if _, err := svc.CreateProduct(ctx, f); err != nil {
			t.Fatalf("create %s: %v", f.Code, err)
		}
	}

	byCategory, _, err := svc.ListProducts(ctx, ListFilter{Category: "Accesorios"}, pagination.Params{})
	if err != nil || len(byCategory) != 1 || byCategory[0].Code != "AC011" {
		t.Fatalf("category filter: got %d rows (err %v)", len(byCategory), err)
	}

	redeemable, _, err := svc.ListProducts(ctx, ListFilter{RedeemableOnly: true}, pagination.Params{})
	if err != nil || len(redeemable) != 1 || redeemable[0].Code != "RW012" {
		t.Fatalf("redeemable filter: got %d rows (err %v)", len(redeemable), err)
	}

	search, _, err := svc.ListProducts(ctx, ListFilter{Search: "logitech"}, pagination.Params{})
	if err != nil || len(search) != 1 || search[0].Code != "AC011" {
		t.Fatalf("search filter: got %d rows (err %v)", len(search), err)
	}
}
