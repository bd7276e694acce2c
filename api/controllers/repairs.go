package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shopdeskhq/shopdesk-backend/api/responses"
	"github.com/shopdeskhq/shopdesk-backend/api/validators"
	"github.com/shopdeskhq/shopdesk-backend/internal/repairs"
	"github.com/shopdeskhq/shopdesk-backend/pkg/enums"
	"github.com/shopdeskhq/shopdesk-backend/pkg/logger"
	"github.com/shopdeskhq/shopdesk-backend/pkg/pagination"
)

func CreateRepair(svc repairs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
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

		var payload repairs.CreateRepairInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		repair, err := svc.Create(r.Context(), shopID, userID, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, repair)
	}
}

func GetRepair(svc repairs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shopID, err := shopIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		repair, err := svc.GetByID(r.Context(), shopID, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, repair)
	}
}

func ListRepairs(svc repairs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shopID, err := shopIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		query := r.URL.Query()
		f := repairs.ListFilters{
			Query: query.Get("query"),
			Limit: limit,
		}
		if raw := query.Get("status"); raw != "" {
			status, perr := enums.ParseRepairStatus(raw)
			if perr != nil {
				responses.WriteError(r.Context(), logg, w, validationError("status"))
				return
			}
			f.Status = &status
		}
		if raw := query.Get("payment_status"); raw != "" {
			payment, perr := enums.ParsePaymentStatus(raw)
			if perr != nil {
				responses.WriteError(r.Context(), logg, w, validationError("payment_status"))
				return
			}
			f.PaymentStatus = &payment
		}

		results, err := svc.List(r.Context(), shopID, f)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, results)
	}
}

func UpdateRepairStatus(svc repairs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shopID, err := shopIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload repairs.UpdateStatusInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		repair, err := svc.UpdateStatus(r.Context(), shopID, id, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, repair)
	}
}
