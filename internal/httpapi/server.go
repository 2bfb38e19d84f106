package httpapi

import (
	"database/sql"
	"net/http"
	"time"

	"climate-server/internal/config"
)

const readHeaderTimeout = 5 * time.Second

func NewMux(db *sql.DB, metrics *Metrics) *http.ServeMux {
	mux := http.NewServeMux()
	registerHealthcheck(mux, db)
	mux.Handle("GET /metrics", metrics.Handler())
	return mux
}

func NewServer(cfg config.Config, mux *http.ServeMux, metrics *Metrics) *http.Server {
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           requestLogger(mux, metrics),
		ReadHeaderTimeout: readHeaderTimeout,
	}
}
