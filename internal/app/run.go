package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"climate-server/internal/config"
	db "climate-server/internal/db"
	httpapi "climate-server/internal/httpapi"
	climate "climate-server/internal/modules/climate"
	climateviews "climate-server/internal/modules/climate/views"
)

const shutdownTimeout = 10 * time.Second

func Run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	logger.Info("config loaded",
		"appEnv", cfg.AppEnv,
		"logLevel", cfg.LogLevel.String(),
		"httpAddr", cfg.HTTPAddr,
		"sqliteDriver", cfg.SQLiteDriver,
		"sqlitePath", cfg.SQLitePath,
		"sqliteDSNSet", cfg.SQLiteDSN != "",
		"sqliteMaxOpenConns", cfg.SQLiteMaxOpenConns,
		"sqliteMaxIdleConns", cfg.SQLiteMaxIdleConns,
		"sqliteConnMaxLifetime", cfg.SQLiteConnMaxLifetime,
		"logSQL", cfg.LogSQL,
	)
	dbConn, err := db.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		closeErr := db.Close(dbConn)
		if closeErr != nil {
			logger.Error("db close", "error", closeErr)
		}
	}()
	logger.Info("database connection successful")

	if err := climateviews.LoadTemplates(); err != nil {
		return err
	}

	metrics := httpapi.NewMetrics()
	mux := httpapi.NewMux(dbConn, metrics)
	climate.RegisterFeature(mux, dbConn, logger)

	srv := httpapi.NewServer(cfg, mux, metrics)
	return serve(ctx, srv, logger)
}

// serve runs srv until ctx is cancelled, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("http listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logger.Info("http shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	err := <-errCh
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return ctx.Err()
}
