package controllers

import (
	"net/http"

	"github.com/levelup-gaming/levelup-backend/api/responses"
	"github.com/levelup-gaming/levelup-backend/internal/dashboard"
	pkgerrors "github.com/levelup-gaming/levelup-backend/pkg/errors"
	"github.com/levelup-gaming/levelup-backend/pkg/logger"
)

// AdminDashboard serves the aggregated storefront metrics.
func AdminDashboard(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dashboard service unavailable"))
			return
		}

		summary, err := svc.Summary(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}
