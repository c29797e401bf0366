package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/flipmatch/flipmatch-go/internal/api/handler"
	apimiddleware "github.com/flipmatch/flipmatch-go/internal/api/middleware"
	"github.com/flipmatch/flipmatch-go/internal/middleware"
	"github.com/flipmatch/flipmatch-go/internal/services/session"
	"github.com/flipmatch/flipmatch-go/internal/storage"
)

// RouterConfig holds configuration for the router
type RouterConfig struct {
	Logger     *slog.Logger
	Controller *session.Controller
	Storage    storage.Storage
	WSHandler  http.Handler
}

// NewRouter creates the router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	gameHandler := handler.NewGameHandler(cfg.Controller, cfg.Storage)
	scoresHandler := handler.NewScoresHandler(cfg.Storage)

	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := apimiddleware.Recovery(cfg.Logger)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)
	api.HandleFunc("/scores", scoresHandler.Top).Methods(http.MethodGet)

	// The literal route must register before the templated one
	api.HandleFunc("/games/recent", gameHandler.Recent).Methods(http.MethodGet)
	api.HandleFunc("/games/{code}", gameHandler.Get).Methods(http.MethodGet)

	// The game protocol itself; the upgrade hijacks the connection, so
	// only recovery wraps it
	r.Handle("/ws", middleware.Recovery(cfg.Logger, middleware.DefaultPanicHandler)(cfg.WSHandler))

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
