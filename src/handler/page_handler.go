package handler

import (
	"net/http"
	"path/filepath"
)

// PageHandler serves one static document from publicDir.
func PageHandler(publicDir, name string) http.HandlerFunc {
	path := filepath.Join(publicDir, name)
	return func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, path)
	}
}

// StaticHandler serves the remaining assets under publicDir.
func StaticHandler(publicDir string) http.Handler {
	return http.FileServer(http.Dir(publicDir))
}
