package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/quizzlio/quizzlio-server/internal/config"
	httperrors "github.com/quizzlio/quizzlio-server/pkg/http/errors"
)

// WSUpgrader handles WebSocket upgrades. NewHTTPServer installs an origin
// check backed by the CORS allow list applied to the REST surface.
var WSUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// NewHTTPServer wires the REST and WebSocket routes for the game service.
func NewHTTPServer(cfg *config.App, logger zerolog.Logger, wsHandler, categoriesHandler http.HandlerFunc) *http.Server {
	WSUpgrader.CheckOrigin = checkOrigin(cfg.CORS)

	router := mux.NewRouter()
	router.Use(corsMiddleware(cfg.CORS))
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httperrors.RespondNotFound(w, httperrors.ErrCodeNotFound, "Resource not found")
	})

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet)

	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	router.HandleFunc("/api/categories", categoriesHandler).Methods(http.MethodGet, http.MethodOptions)

	router.HandleFunc("/ws", wsHandler).Methods(http.MethodGet)

	return &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}
}

// corsMiddleware applies the configured allow list. Requests without an
// Origin header (curl, server-to-server) pass through untouched.
func corsMiddleware(cfg config.CORS) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && originAllowed(cfg.AllowedOrigins, origin) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", strings.Join(cfg.AllowedMethods, ", "))
				w.Header().Set("Access-Control-Allow-Headers", strings.Join(cfg.AllowedHeaders, ", "))
				w.Header().Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
				if cfg.AllowCredentials {
					w.Header().Set("Access-Control-Allow-Credentials", "true")
				}
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// checkOrigin gates ws dials on the same allow list as the REST routes.
// Non-browser clients (bots, smoke tests) send no Origin and pass through.
func checkOrigin(cfg config.CORS) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		return originAllowed(cfg.AllowedOrigins, origin)
	}
}

func originAllowed(allowed []string, origin string) bool {
	for _, a := range allowed {
		if strings.EqualFold(a, origin) {
			return true
		}
	}
	return false
}
