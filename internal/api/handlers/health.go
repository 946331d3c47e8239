package handlers

import "net/http"

// Health is the liveness probe. The body is fixed.
func Health(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, map[string]string{"status": "healthy"}, http.StatusOK)
}
