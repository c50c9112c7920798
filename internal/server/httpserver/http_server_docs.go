package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"git.home.luguber.info/inful/docnav/internal/server/handlers"
	smw "git.home.luguber.info/inful/docnav/internal/server/middleware"
)

// DocsHandler returns the docs router: versioned pages below the docs root,
// asset prefixes and the navigation API. The version gate runs before routing
// so unversioned page paths never reach the page handler.
func (s *Server) DocsHandler() http.Handler {
	nav := handlers.NewNavigationHandlers(s.store, s.opts.Recorder)
	pages := handlers.NewPageHandler(s.store, s.opts.Renderer, s.opts.Recorder)

	r := chi.NewRouter()
	r.Use(
		smw.Logging(s.opts.Logger),
		smw.Recovery(s.opts.Logger, s.errorAdapter),
		s.gate.Middleware,
		smw.Tracing(s.cfg.Monitoring.Tracing.TracerName),
		smw.Metrics(s.opts.Recorder),
	)

	r.Route(s.gate.Root(), func(r chi.Router) {
		r.Method(http.MethodGet, "/{version}", pages)
		r.Method(http.MethodGet, "/{version}/*", pages)
	})
	r.Route("/api/versions", func(r chi.Router) {
		r.Get("/", nav.HandleVersions)
		r.Get("/{version}/tree", nav.HandleTree)
		r.Get("/{version}/pages", nav.HandlePages)
		r.Get("/{version}/adjacent", nav.HandleAdjacent)
	})
	// Asset prefixes pass the gate; static segments win over {version}.
	for _, prefix := range s.cfg.Docs.AssetPrefixes {
		assets := handlers.NewAssetHandler(prefix, s.cfg.Docs.AssetDir)
		r.Handle(prefix, assets)
		r.Handle(prefix+"/*", assets)
	}
	return r
}
