package routes

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/levelup-gaming/levelup-backend/internal/auth"
	"github.com/levelup-gaming/levelup-backend/internal/cart"
	"github.com/levelup-gaming/levelup-backend/internal/content"
	"github.com/levelup-gaming/levelup-backend/internal/dashboard"
	"github.com/levelup-gaming/levelup-backend/internal/orders"
	"github.com/levelup-gaming/levelup-backend/internal/products"
	"github.com/levelup-gaming/levelup-backend/internal/users"
	pkgauth "github.com/levelup-gaming/levelup-backend/pkg/auth"
	"github.com/levelup-gaming/levelup-backend/pkg/config"
	"github.com/levelup-gaming/levelup-backend/pkg/db/models"
	"github.com/levelup-gaming/levelup-backend/pkg/enums"
	"github.com/levelup-gaming/levelup-backend/pkg/logger"
	"github.com/levelup-gaming/levelup-backend/pkg/pagination"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubSessionChecker struct{}

func (stubSessionChecker) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

type stubAuthService struct{}

func (stubAuthService) Register(ctx context.Context, input auth.RegisterInput) (*auth.AuthResult, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubAuthService) Login(ctx context.Context, input auth.LoginInput) (*auth.AuthResult, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubAuthService) Refresh(ctx context.Context, input auth.RefreshInput) (*auth.AuthResult, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubAuthService) Logout(ctx context.Context, accessID string) error {
	return nil
}

type stubProductsService struct{}

func (stubProductsService) ListProducts(ctx context.Context, filter products.ListFilter, params pagination.Params) ([]models.Product, string, error) {
	return []models.Product{}, "", nil
}

func (stubProductsService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	panic("unimplemented")
}

func (stubProductsService) GetProductByCode(ctx context.Context, code string) (*models.Product, error) {
	panic("unimplemented")
}

func (stubProductsService) CreateProduct(ctx context.Context, input products.CreateProductInput) (*models.Product, error) {
	panic("unimplemented")
}

func (stubProductsService) UpdateProduct(ctx context.Context, id uuid.UUID, input products.UpdateProductInput) (*models.Product, error) {
	panic("unimplemented")
}

func (stubProductsService) DeactivateProduct(ctx context.Context, id uuid.UUID) error {
	panic("unimplemented")
}

func (stubProductsService) AdjustStock(ctx context.Context, id uuid.UUID, delta int) (*models.Product, error) {
	panic("unimplemented")
}

func (stubProductsService) AddReview(ctx context.Context, input products.AddReviewInput) (*models.Review, error) {
	panic("unimplemented")
}

func (stubProductsService) ListReviews(ctx context.Context, productID uuid.UUID) ([]models.Review, error) {
	panic("unimplemented")
}

type stubCartService struct{}

func (stubCartService) GetCart(ctx context.Context, userID uuid.UUID) (*cart.View, error) {
	return &cart.View{}, nil
}

func (stubCartService) AddItem(ctx context.Context, userID uuid.UUID, input cart.AddItemInput) (*cart.View, error) {
	panic("unimplemented")
}

func (stubCartService) UpdateItemQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*cart.View, error) {
	panic("unimplemented")
}

func (stubCartService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*cart.View, error) {
	panic("unimplemented")
}

func (stubCartService) ClearCart(ctx context.Context, userID uuid.UUID) (*cart.View, error) {
	panic("unimplemented")
}

func (stubCartService) ExpireStaleCarts(ctx context.Context, olderThan time.Duration, limit int) (int, error) {
	panic("unimplemented")
}

type stubDashboardService struct{}

func (stubDashboardService) Summary(ctx context.Context) (*dashboard.Summary, error) {
	return &dashboard.Summary{}, nil
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.JWT = config.JWTConfig{
		Secret:            "router-test-secret",
		Issuer:            "levelup-test",
		ExpirationMinutes: 30,
	}
	// zeroed windows disable the auth throttles
	return cfg
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(Deps{
		Config:    cfg,
		Logger:    logg,
		DB:        stubPinger{},
		Session:   stubSessionChecker{},
		Auth:      stubAuthService{},
		Products:  stubProductsService{},
		Cart:      stubCartService{},
		Orders:    orders.Service(nil),
		Users:     users.Service(nil),
		Content:   content.Service(nil),
		Dashboard: stubDashboardService{},
	})
}

func buildToken(t *testing.T, cfg *config.Config, role enums.UserRole) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now(), pkgauth.AccessTokenPayload{
		UserID: uuid.New(),
		Email:  "router@test.cl",
		Role:   role,
		JTI:    uuid.NewString(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthLiveIsPublic(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for liveness got %d", resp.Code)
	}
}

func TestCatalogIsPublic(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for public catalog got %d", resp.Code)
	}
}

func TestCustomerGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart/", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestCustomerGroupSucceedsWithJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart/", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleCustomer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 with token got %d", resp.Code)
	}
}

func TestAdminGroupRequiresAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	customer := httptest.NewRequest(http.MethodGet, "/api/admin/v1/dashboard", nil)
	customer.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleCustomer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, customer)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for customer got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodGet, "/api/admin/v1/dashboard", nil)
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin got %d", resp.Code)
	}
}
