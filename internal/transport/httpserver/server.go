package httpserver

import (
	"net/http"
	"time"

	"family-planner/internal/config"
)

// New builds the API server. Write timeout leaves room for the 30s handler
// timeout plus invite emails sent inline.
func New(cfg config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      45 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
}
