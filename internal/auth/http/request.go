package http

import (
	"encoding/json"
	"net/http"

	"github.com/lakeridgehq/sessiond/internal/auth/domain"
	"github.com/lakeridgehq/sessiond/pkg/httpx"
)

const maxBodySize = 1 << 20 // 1 MiB

// decodeJSON parses a JSON request body into dst, writing a 400 and
// returning false when the body is unusable.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// clientMeta captures request metadata recorded on new sessions for audit.
func clientMeta(r *http.Request) domain.ClientMeta {
	return domain.ClientMeta{
		IP:         httpx.IPKeyExtractor(r),
		UserAgent:  r.UserAgent(),
		DeviceName: r.Header.Get("X-Device-Name"),
	}
}
