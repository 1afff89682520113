package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/levelup-gaming/levelup-backend/internal/products"
	"github.com/levelup-gaming/levelup-backend/pkg/db/models"
	pkgerrors "github.com/levelup-gaming/levelup-backend/pkg/errors"
	"github.com/levelup-gaming/levelup-backend/pkg/pagination"
	"github.com/levelup-gaming/levelup-backend/pkg/types"
)

func TestPageParams(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?limit=10&cursor=abc", nil)
	params, err := pageParams(r)
	if err != nil {
		t.Fatalf("pageParams: %v", err)
	}
	if params.Limit != 10 || params.Cursor != "abc" {
		t.Fatalf("unexpected params %+v", params)
	}

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	params, err = pageParams(r)
	if err != nil {
		t.Fatalf("pageParams default: %v", err)
	}
	if params.Limit != pagination.DefaultLimit {
		t.Fatalf("limit = %d, want default %d", params.Limit, pagination.DefaultLimit)
	}
}

func TestPageParamsRejectsBadLimit(t *testing.T) {
	for _, raw := range []string{"abc", "0", "-1", "9999"} {
		r := httptest.NewRequest(http.MethodGet, "/?limit="+raw, nil)
		_, err := pageParams(r)
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("limit=%s: expected validation error, got %v", raw, err)
		}
	}
}

type listRecorderService struct {
	products.Service

	calls  int
	filter products.ListFilter
	params pagination.Params
}

func (s *listRecorderService) ListProducts(ctx context.Context, filter products.ListFilter, params pagination.Params) ([]models.Product, string, error) {
	s.calls++
	s.filter = filter
	s.params = params
	return nil, "", nil
}

func TestCatalogListProductsRejectsBadQuery(t *testing.T) {
	svc := &listRecorderService{}
	handler := CatalogListProducts(svc, nil)

	for _, target := range []string{
		"/api/v1/catalog/products?limit=abc",
		"/api/v1/catalog/products?min_price=-5",
		"/api/v1/catalog/products?max_price=nope",
	} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: status = %d, want 400", target, rec.Code)
		}
		var envelope types.ErrorEnvelope
		if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
			t.Fatalf("%s: decode error body: %v", target, err)
		}
		if envelope.Error.Code != "VALIDATION_ERROR" {
			t.Fatalf("%s: code = %s", target, envelope.Error.Code)
		}
	}
	if svc.calls != 0 {
		t.Fatalf("service called %d times on invalid queries", svc.calls)
	}
}

func TestCatalogListProductsForwardsSanitizedFilter(t *testing.T) {
	svc := &listRecorderService{}
	handler := CatalogListProducts(svc, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products?category=%20Consolas%20&search=ps5&limit=5", nil)
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if svc.calls != 1 {
		t.Fatalf("service calls = %d, want 1", svc.calls)
	}
	if svc.filter.Category != "Consolas" || svc.filter.Search != "ps5" {
		t.Fatalf("unexpected filter %+v", svc.filter)
	}
	if svc.params.Limit != 5 {
		t.Fatalf("limit = %d, want 5", svc.params.Limit)
	}
}

func TestPathUUID(t *testing.T) {
	// chi URL params are absent outside a router, so only the failure
	// path is reachable here.
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, err := pathUUID(r, "orderId"); err == nil {
		t.Fatal("expected error for missing param")
	}

	id, err := parseUUIDField(uuid.NewString(), "user_id")
	if err != nil || id == uuid.Nil {
		t.Fatalf("parseUUIDField: %v", err)
	}
	if _, err := parseUUIDField("not-a-uuid", "user_id"); err == nil {
		t.Fatal("expected error for malformed uuid")
	}
}
