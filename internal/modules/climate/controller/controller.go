package controller

import (
	"log/slog"
	"net/http"

	"climate-server/internal/modules/climate/service"
)

const (
	routePrecipitation = "/api/v1.0/precipitation"
	routeStations      = "/api/v1.0/stations"
	routeTobs          = "/api/v1.0/tobs"
	routeStart         = "/api/v1.0/{start}"
	routeStartEnd      = "/api/v1.0/{start}/{end}"
)

// welcomeRoutes is what the welcome page lists, in order.
var welcomeRoutes = []string{
	routePrecipitation,
	routeStations,
	routeTobs,
	"/api/v1.0/start_date",
	"/api/v1.0/start_date/end_date",
}

type ClimateController interface {
	RegisterRoutes(mux *http.ServeMux)
}

type climateControllerImpl struct {
	service *service.Service
	logger  *slog.Logger
}

func NewClimateController(service *service.Service, logger *slog.Logger) ClimateController {
	if logger == nil {
		logger = slog.Default()
	}
	return &climateControllerImpl{service: service, logger: logger}
}

func (c *climateControllerImpl) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", c.handleWelcome)
	mux.HandleFunc("GET "+routePrecipitation, c.handlePrecipitation)
	mux.HandleFunc("GET "+routeStations, c.handleStations)
	mux.HandleFunc("GET "+routeTobs, c.handleTobs)
	mux.HandleFunc("GET "+routeStart, c.handleStatsFromStart)
	mux.HandleFunc("GET "+routeStartEnd, c.handleStatsBetween)
}
