package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shopdeskhq/shopdesk-backend/api/responses"
	"github.com/shopdeskhq/shopdesk-backend/api/validators"
	"github.com/shopdeskhq/shopdesk-backend/internal/devices"
	"github.com/shopdeskhq/shopdesk-backend/pkg/logger"
	"github.com/shopdeskhq/shopdesk-backend/pkg/pagination"
)

func CreateDevice(svc devices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shopID, err := shopIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload devices.CreateDeviceInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		device, err := svc.Create(r.Context(), shopID, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, device)
	}
}

func GetDevice(svc devices.Service, logg *logger.Logger) http.HandlerFunc {
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

		device, err := svc.GetByID(r.Context(), shopID, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, device)
	}
}

func ListDevices(svc devices.Service, logg *logger.Logger) http.HandlerFunc {
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
		results, err := svc.List(r.Context(), shopID, devices.ListFilters{
			Query:         query.Get("query"),
			Category:      query.Get("category"),
			AvailableOnly: query.Get("available") == "true",
			Limit:         limit,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, results)
	}
}
