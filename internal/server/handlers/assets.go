package handlers

import "net/http"

// NewAssetHandler serves files below prefix from dir. With no dir the assets
// belong to a fronting server and every request gets a plain 404.
func NewAssetHandler(prefix, dir string) http.Handler {
	if dir == "" {
		return http.NotFoundHandler()
	}
	return http.StripPrefix(prefix, http.FileServer(http.Dir(dir)))
}
