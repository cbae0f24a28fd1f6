package handler

import "net/http"

// ServeHealthcheck answers liveness probes.
func ServeHealthcheck() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}
}

// ServeRoot reports the service identity.
func ServeRoot() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"service": "plus-chat-api",
			"status":  "running",
		})
	}
}
