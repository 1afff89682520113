package controllers

import (
	"net/http"

	"github.com/levelup-gaming/levelup-backend/api/middleware"
	"github.com/levelup-gaming/levelup-backend/api/responses"
	"github.com/levelup-gaming/levelup-backend/api/validators"
	"github.com/levelup-gaming/levelup-backend/internal/orders"
	"github.com/levelup-gaming/levelup-backend/pkg/enums"
	pkgerrors "github.com/levelup-gaming/levelup-backend/pkg/errors"
	"github.com/levelup-gaming/levelup-backend/pkg/logger"
	"github.com/levelup-gaming/levelup-backend/pkg/types"
)

type quoteRequest struct {
	RedeemPoints int `json:"redeem_points" validate:"gte=0"`
}

type checkoutRequest struct {
	RedeemPoints    int                   `json:"redeem_points" validate:"gte=0"`
	PaymentMethod   string                `json:"payment_method" validate:"required"`
	ShippingAddress types.ShippingAddress `json:"shipping_address" validate:"required"`
	Notes           *string               `json:"notes,omitempty"`
}

// CheckoutQuote prices the active cart without creating an order.
func CheckoutQuote(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		var body quoteRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.Quote(r.Context(), middleware.UserIDFromContext(r.Context()), body.RedeemPoints)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}

// Checkout converts the active cart into a pending order.
func Checkout(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		var body checkoutRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		method := enums.PaymentMethod(body.PaymentMethod)
		if !method.IsValid() {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method"))
			return
		}

		order, err := svc.Checkout(r.Context(), orders.CheckoutInput{
			UserID:          middleware.UserIDFromContext(r.Context()),
			RedeemPoints:    body.RedeemPoints,
			PaymentMethod:   method,
			ShippingAddress: body.ShippingAddress,
			Notes:           body.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}
