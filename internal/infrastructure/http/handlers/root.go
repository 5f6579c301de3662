package handlers

import "net/http"

type rootResponse struct {
	Message string `json:"message"`
	Version string `json:"version"`
}

// Root answers GET / so load balancers and humans can see the server is up.
func Root(version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, rootResponse{Message: "Server is running", Version: version})
	}
}

// NotFound answers unknown routes with a JSON error body.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeErr(w, http.StatusNotFound, "", "route not found")
}

// MethodNotAllowed answers known routes hit with the wrong verb.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeErr(w, http.StatusMethodNotAllowed, "", "method not allowed")
}
