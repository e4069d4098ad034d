package health

import (
	"encoding/json"
	"net/http"

	"github.com/janisto/travel-getaway/internal/platform/timeutil"
)

// Response is the payload for the health endpoint.
type Response struct {
	Status    string        `json:"status"`
	Timestamp timeutil.Time `json:"timestamp"`
}

// Handler is a plain HTTP handler for liveness probes.
func Handler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(Response{Status: "healthy", Timestamp: timeutil.Now()})
}
