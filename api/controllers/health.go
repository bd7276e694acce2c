package controllers

import (
	"net/http"

	"github.com/shopdeskhq/shopdesk-backend/api/responses"
	"github.com/shopdeskhq/shopdesk-backend/pkg/config"
	"github.com/shopdeskhq/shopdesk-backend/pkg/db"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-ShopDesk-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports readiness of the datastores. A degraded dependency
// flips its entry to "unreachable" and the response to 503.
func HealthReady(cfg *config.Config, database db.Pinger, cache db.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-ShopDesk-Env", cfg.App.Env)

		checks := map[string]string{}
		healthy := true

		if database != nil {
			checks["database"] = "ok"
			if err := database.Ping(r.Context()); err != nil {
				checks["database"] = "unreachable"
				healthy = false
			}
		}
		if cache != nil {
			checks["redis"] = "ok"
			if err := cache.Ping(r.Context()); err != nil {
				checks["redis"] = "unreachable"
				healthy = false
			}
		}

		status := "ready"
		code := http.StatusOK
		if !healthy {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
		responses.WriteSuccessStatus(w, code, map[string]any{"status": status, "checks": checks})
	}
}
