package controllers

import (
	"net/http"

	"github.com/levelup-gaming/levelup-backend/api/responses"
	"github.com/levelup-gaming/levelup-backend/api/validators"
	"github.com/levelup-gaming/levelup-backend/internal/products"
	"github.com/levelup-gaming/levelup-backend/pkg/enums"
	pkgerrors "github.com/levelup-gaming/levelup-backend/pkg/errors"
	"github.com/levelup-gaming/levelup-backend/pkg/logger"
)

type createProductRequest struct {
	Code        string `json:"code" validate:"required,max=40"`
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"max=5000"`
	Category    string `json:"category" validate:"required,max=100"`
	Brand       string `json:"brand" validate:"max=100"`
	Price       int    `json:"price" validate:"gte=0"`
	Stock       int    `json:"stock" validate:"gte=0"`
	Points      int    `json:"points" validate:"gte=0"`
	PointsCost  *int   `json:"points_cost,omitempty" validate:"omitempty,gt=0"`
	Redeemable  bool   `json:"redeemable"`
	Origin      string `json:"origin" validate:"required,oneof=store rewards"`
	ImagePath   string `json:"image_path" validate:"max=500"`
}

type updateProductRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=5000"`
	Category    *string `json:"category,omitempty" validate:"omitempty,min=1,max=100"`
	Brand       *string `json:"brand,omitempty" validate:"omitempty,max=100"`
	Price       *int    `json:"price,omitempty" validate:"omitempty,gte=0"`
	Points      *int    `json:"points,omitempty" validate:"omitempty,gte=0"`
	PointsCost  *int    `json:"points_cost,omitempty" validate:"omitempty,gt=0"`
	Redeemable  *bool   `json:"redeemable,omitempty"`
	ImagePath   *string `json:"image_path,omitempty" validate:"omitempty,max=500"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

type adjustStockRequest struct {
	Delta int `json:"delta" validate:"required"`
}

func (p createProductRequest) toInput() products.CreateProductInput {
	return products.CreateProductInput{
		Code:        p.Code,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Brand:       p.Brand,
		Price:       p.Price,
		Stock:       p.Stock,
		Points:      p.Points,
		PointsCost:  p.PointsCost,
		Redeemable:  p.Redeemable,
		Origin:      enums.ProductOrigin(p.Origin),
		ImagePath:   p.ImagePath,
	}
}

func (p updateProductRequest) toInput() products.UpdateProductInput {
	return products.UpdateProductInput{
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Brand:       p.Brand,
		Price:       p.Price,
		Points:      p.Points,
		PointsCost:  p.PointsCost,
		Redeemable:  p.Redeemable,
		ImagePath:   p.ImagePath,
		IsActive:    p.IsActive,
	}
}

// AdminProductsList serves the catalog including inactive products.
func AdminProductsList(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		filter := products.ListFilter{
			Category:        validators.SanitizeString(r.URL.Query().Get("category"), 100),
			Search:          validators.SanitizeString(r.URL.Query().Get("search"), 100),
			IncludeInactive: true,
		}

		params, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, next, err := svc.ListProducts(r.Context(), filter, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, pagedResponse{Items: items, NextCursor: next})
	}
}

// AdminProductCreate adds a product to the catalog.
func AdminProductCreate(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var body createProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), body.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// AdminProductUpdate applies partial catalog mutations.
func AdminProductUpdate(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.UpdateProduct(r.Context(), productID, body.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// AdminProductDeactivate hides a product from the storefront.
func AdminProductDeactivate(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeactivateProduct(r.Context(), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deactivated"})
	}
}

// AdminProductAdjustStock applies a signed stock delta.
func AdminProductAdjustStock(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body adjustStockRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.AdjustStock(r.Context(), productID, body.Delta)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}
