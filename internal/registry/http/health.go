package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/registry/internal/registry/store"
	"github.com/aussiebroadwan/registry/pkg/httpx"
	"github.com/aussiebroadwan/registry/pkg/registrysdk"
)

// LivezHandler godoc
//
//	@Summary		Health Check Endpoint
//	@Description	Liveness probe endpoint returning basic service health status, uptime, and version information
//	@Description	This endpoint always returns 200 OK if the service is running
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	registrysdk.HealthResponse	"status, uptime, version"
//	@Router			/livez [get].
func LivezHandler(startTime time.Time, version, instance string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, registrysdk.HealthResponse{
			Status:   "ok",
			Uptime:   time.Since(startTime).String(),
			Version:  version,
			Instance: instance,
		})
	}
}

// ReadyzHandler godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness probe endpoint reporting whether the backing store is reachable
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	registrysdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	registrysdk.HealthResponse	"status, uptime, version, checks - service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(startTime time.Time, version, instance string, st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &registrysdk.HealthChecks{Store: "ok"}
		overallStatus := "ok"
		statusCode := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Store = "error: " + err.Error()
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, statusCode, registrysdk.HealthResponse{
			Status:   overallStatus,
			Uptime:   time.Since(startTime).String(),
			Version:  version,
			Instance: instance,
			Checks:   checks,
		})
	}
}
