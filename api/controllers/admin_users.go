package controllers

import (
	"net/http"

	"github.com/levelup-gaming/levelup-backend/api/middleware"
	"github.com/levelup-gaming/levelup-backend/api/responses"
	"github.com/levelup-gaming/levelup-backend/api/validators"
	"github.com/levelup-gaming/levelup-backend/internal/users"
	pkgerrors "github.com/levelup-gaming/levelup-backend/pkg/errors"
	"github.com/levelup-gaming/levelup-backend/pkg/logger"
)

type setUserActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}

type overridePointsRequest struct {
	NewBalance *int   `json:"new_balance" validate:"required,gte=0"`
	Reason     string `json:"reason" validate:"required,max=500"`
}

// AdminUsersList pages through all accounts.
func AdminUsersList(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "users service unavailable"))
			return
		}

		params, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, next, err := svc.ListUsers(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, pagedResponse{Items: items, NextCursor: next})
	}
}

// AdminUserSetActive enables or disables an account.
func AdminUserSetActive(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "users service unavailable"))
			return
		}

		userID, err := pathUUID(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body setUserActiveRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.SetUserActive(r.Context(), userID, *body.Active); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"user_id": userID, "active": *body.Active})
	}
}

// AdminUserOverridePoints sets a user's points balance. The delta lands
// in the ledger with the acting admin and the reason.
func AdminUserOverridePoints(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "users service unavailable"))
			return
		}

		userID, err := pathUUID(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body overridePointsRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.OverridePoints(r.Context(), users.OverridePointsInput{
			AdminID:    middleware.UserIDFromContext(r.Context()),
			UserID:     userID,
			NewBalance: *body.NewBalance,
			Reason:     validators.SanitizeString(body.Reason, 500),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, profile)
	}
}
