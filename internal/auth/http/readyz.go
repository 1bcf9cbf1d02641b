package http

import (
	"net/http"
	"time"

	"github.com/lakeridgehq/sessiond/internal/auth/store"
	"github.com/lakeridgehq/sessiond/pkg/httpx"
)

// ReadyzHandler reports readiness, checking the database connection. A
// failing check degrades the status and returns 503 so load balancers
// stop routing here.
func ReadyzHandler(startTime time.Time, version string, st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &healthChecks{Database: "ok"}
		status := "ok"
		code := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, code, healthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
