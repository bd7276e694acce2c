package controllers

import (
	"net/http"
	"strings"

	"github.com/shopdeskhq/shopdesk-backend/api/responses"
	"github.com/shopdeskhq/shopdesk-backend/api/validators"
	"github.com/shopdeskhq/shopdesk-backend/internal/devices"
	"github.com/shopdeskhq/shopdesk-backend/internal/inventory"
	"github.com/shopdeskhq/shopdesk-backend/internal/repairs"
	"github.com/shopdeskhq/shopdesk-backend/pkg/db/models"
	"github.com/shopdeskhq/shopdesk-backend/pkg/enums"
	"github.com/shopdeskhq/shopdesk-backend/pkg/logger"
	"github.com/shopdeskhq/shopdesk-backend/pkg/pagination"
)

type posSearchResponse struct {
	Devices   []models.Device        `json:"devices,omitempty"`
	Inventory []models.InventoryItem `json:"inventory,omitempty"`
	Repairs   []models.Repair        `json:"repairs,omitempty"`
}

// POSSearch finds things a cashier can put on a sale: sellable devices,
// stock items, and finished unpaid repairs.
func POSSearch(deviceSvc devices.Service, inventorySvc inventory.Service, repairSvc repairs.Service, logg *logger.Logger) http.HandlerFunc {
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

		query := strings.TrimSpace(r.URL.Query().Get("query"))
		itemType := strings.TrimSpace(r.URL.Query().Get("type"))
		if itemType != "" {
			if _, perr := enums.ParseItemType(itemType); perr != nil {
				responses.WriteError(r.Context(), logg, w, validationError("type"))
				return
			}
		}

		var result posSearchResponse
		wants := func(t enums.ItemType) bool {
			return itemType == "" || itemType == string(t)
		}

		if wants(enums.ItemTypeDevice) {
			found, derr := deviceSvc.SearchSellable(r.Context(), shopID, query, limit)
			if derr != nil {
				responses.WriteError(r.Context(), logg, w, derr)
				return
			}
			result.Devices = found
		}
		if wants(enums.ItemTypeInventory) {
			found, ierr := inventorySvc.List(r.Context(), shopID, inventory.ListFilters{Query: query, Limit: limit})
			if ierr != nil {
				responses.WriteError(r.Context(), logg, w, ierr)
				return
			}
			result.Inventory = found
		}
		if wants(enums.ItemTypeRepair) {
			found, rerr := repairSvc.SearchBillable(r.Context(), shopID, query, limit)
			if rerr != nil {
				responses.WriteError(r.Context(), logg, w, rerr)
				return
			}
			result.Repairs = found
		}

		responses.WriteSuccess(w, result)
	}
}
