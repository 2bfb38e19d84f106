package service

import (
	"context"
	"log/slog"
	"time"

	"climate-server/internal/modules/climate/repository"
	"climate-server/internal/modules/climate/types"
)

// trailingWindowDays is the width of the "previous 12 months" window.
const trailingWindowDays = 365

type Service struct {
	repository repository.ClimateRepository
}

func NewService(repository repository.ClimateRepository) *Service {
	return &Service{repository: repository}
}

type Precipitation struct {
	Window  types.DateWindow
	Entries []types.PrecipitationEntry
}

type StationSummary struct {
	Total    int
	Activity []types.StationActivity
}

type MostActiveTemperatures struct {
	Station      string
	Window       types.DateWindow
	Observations []types.TemperatureObservation
}

// TrailingYear returns the 365-day window ending on latest, both ends inclusive.
func TrailingYear(latest time.Time) types.DateWindow {
	return types.DateWindow{
		Start: latest.AddDate(0, 0, -trailingWindowDays),
		End:   latest,
	}
}

// Precipitation returns every (date, prcp) row in the trailing year of the
// dataset, ordered by date. Rows sharing a date are kept as separate entries.
func (s *Service) Precipitation(ctx context.Context) (Precipitation, error) {
	sess, err := s.repository.Session(ctx)
	if err != nil {
		return Precipitation{}, err
	}
	defer closeSession(sess)

	latest, err := sess.LatestDate(ctx)
	if err != nil {
		return Precipitation{}, err
	}
	window := TrailingYear(latest)

	entries, err := sess.PrecipitationBetween(ctx, window.Start, window.End)
	if err != nil {
		return Precipitation{}, err
	}
	return Precipitation{Window: window, Entries: entries}, nil
}

func (s *Service) Stations(ctx context.Context) (StationSummary, error) {
	sess, err := s.repository.Session(ctx)
	if err != nil {
		return StationSummary{}, err
	}
	defer closeSession(sess)

	total, err := sess.CountStations(ctx)
	if err != nil {
		return StationSummary{}, err
	}
	activity, err := sess.StationActivity(ctx)
	if err != nil {
		return StationSummary{}, err
	}
	return StationSummary{Total: total, Activity: activity}, nil
}

// MostActiveTemperatures returns the trailing-year observations of the station
// with the most measurements. The window is anchored on the latest date of the
// whole dataset, not of that station.
func (s *Service) MostActiveTemperatures(ctx context.Context) (MostActiveTemperatures, error) {
	sess, err := s.repository.Session(ctx)
	if err != nil {
		return MostActiveTemperatures{}, err
	}
	defer closeSession(sess)

	activity, err := sess.StationActivity(ctx)
	if err != nil {
		return MostActiveTemperatures{}, err
	}

	latest, err := sess.LatestDate(ctx)
	if err != nil {
		return MostActiveTemperatures{}, err
	}
	window := TrailingYear(latest)

	// Measurements exist but none joins a known station.
	if len(activity) == 0 {
		return MostActiveTemperatures{}, repository.ErrNoMeasurements
	}
	station := activity[0].Station

	observations, err := sess.TemperaturesBetween(ctx, station, window.Start, window.End)
	if err != nil {
		return MostActiveTemperatures{}, err
	}
	return MostActiveTemperatures{Station: station, Window: window, Observations: observations}, nil
}

func (s *Service) TemperatureStatsFrom(ctx context.Context, start time.Time) (types.TemperatureStats, error) {
	sess, err := s.repository.Session(ctx)
	if err != nil {
		return types.TemperatureStats{}, err
	}
	defer closeSession(sess)

	return sess.TemperatureStatsFrom(ctx, start)
}

// TemperatureStatsBetween does not require start <= end; an inverted range
// simply matches nothing.
func (s *Service) TemperatureStatsBetween(ctx context.Context, start, end time.Time) (types.TemperatureStats, error) {
	sess, err := s.repository.Session(ctx)
	if err != nil {
		return types.TemperatureStats{}, err
	}
	defer closeSession(sess)

	return sess.TemperatureStatsBetween(ctx, start, end)
}

func closeSession(sess repository.Session) {
	if err := sess.Close(); err != nil {
		slog.Error("close session", "error", err)
	}
}
