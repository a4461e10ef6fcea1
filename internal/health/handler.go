package health

import (
	"encoding/json"
	"net/http"
)

// Status is the body served by the health endpoint.
type Status struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Rules   int    `json:"rules"`
	NATS    string `json:"nats,omitempty"`
}

// Probe reports the live state of the service.
type Probe func() Status

// Handler returns a lightweight health check endpoint. An empty rule base is
// reported as degraded with 503.
func Handler(probe Probe) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		st := probe()
		code := http.StatusOK
		if st.Rules == 0 {
			st.Status = "degraded"
			code = http.StatusServiceUnavailable
		} else if st.Status == "" {
			st.Status = "ok"
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(st)
	})
}
