package server

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/latoulicious/mtgmeta/pkg/mtg/shared"
)

// writeJSON writes a JSON response body with the given status.
func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError writes the typed error object, mirroring its status on the
// HTTP response.
func writeError(w http.ResponseWriter, status int, details string) {
	writeJSON(w, status, shared.NewError(status, details))
}

// serveSVG serves a local SVG asset file. A missing file that should exist
// is a server-side error, not a 404.
func serveSVG(w http.ResponseWriter, r *http.Request, path string) {
	if _, err := os.Stat(path); err != nil {
		writeError(w, http.StatusInternalServerError, "SVG asset could not be located.")
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	http.ServeFile(w, r, path)
}
