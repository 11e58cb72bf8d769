package web

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/rook-computer/tahoeglow/internal/assets"
	"github.com/rook-computer/tahoeglow/internal/state"
)

type APIV1Config struct {
	Light  *state.Store
	Logger Logger
	// DevMode accepts websocket connections from any origin.
	DevMode bool
	// StaticDir overrides the embedded control page when set.
	StaticDir string
}

// RegisterAPIV1 registers the public API routes under /api/v1/.
func RegisterAPIV1(mux *http.ServeMux, cfg APIV1Config) {
	mux.Handle("/api/v1/", http.StripPrefix("/api/v1", apiV1Router(cfg)))
}

// RegisterUI serves the control page at '/'.
func RegisterUI(mux *http.ServeMux, staticDir string) {
	mux.Handle("/", staticHandler(staticDir))
}

// NewHandler builds the API and UI mux, wrapped in dev CORS when DevMode is
// set.
func NewHandler(cfg APIV1Config) http.Handler {
	mux := http.NewServeMux()
	RegisterAPIV1(mux, cfg)
	RegisterUI(mux, cfg.StaticDir)
	if cfg.DevMode {
		return WithDevCORS(mux)
	}
	return mux
}

func staticHandler(dir string) http.Handler {
	if dir == "" {
		fileServer := http.FileServer(http.FS(assets.WebUI))
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Clean path to avoid oddities.
			r.URL.Path = filepath.ToSlash(filepath.Clean("/" + r.URL.Path))
			fileServer.ServeHTTP(w, r)
		})
	}

	// When StaticDir is set to an existing directory, serve it at '/'.
	if st, err := os.Stat(dir); err != nil || !st.IsDir() {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		})
	}

	fileServer := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.URL.Path = filepath.ToSlash(filepath.Clean("/" + r.URL.Path))
		fileServer.ServeHTTP(w, r)
	})
}
