package controllers

import (
	"net/http"

	"github.com/shopdeskhq/shopdesk-backend/api/responses"
	"github.com/shopdeskhq/shopdesk-backend/api/validators"
	checkoutsvc "github.com/shopdeskhq/shopdesk-backend/internal/checkout"
	pkgerrors "github.com/shopdeskhq/shopdesk-backend/pkg/errors"
	"github.com/shopdeskhq/shopdesk-backend/pkg/logger"
)

// Checkout finalizes a cart into a paid sale.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		shopID, err := shopIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		userID, err := userIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload checkoutsvc.CheckoutInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Execute(r.Context(), shopID, userID, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
