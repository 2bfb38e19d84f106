package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"climate-server/internal/modules/climate/types"
)

//go:embed sql/get-latest-date.sql
var getLatestDateSQL string

//go:embed sql/count-stations.sql
var countStationsSQL string

//go:embed sql/get-station-activity.sql
var getStationActivitySQL string

//go:embed sql/get-precipitation.sql
var getPrecipitationSQL string

//go:embed sql/get-temperatures.sql
var getTemperaturesSQL string

//go:embed sql/get-temperature-stats-from.sql
var getTemperatureStatsFromSQL string

//go:embed sql/get-temperature-stats-between.sql
var getTemperatureStatsBetweenSQL string

// ErrNoMeasurements means the measurement table is empty, so there is no
// latest date to anchor a trailing window on.
var ErrNoMeasurements = errors.New("no measurements in dataset")

type ClimateRepository interface {
	// Session acquires one connection from the pool. Callers must Close it.
	Session(ctx context.Context) (Session, error)
}

// Session runs the read queries of a single request on one connection.
type Session interface {
	LatestDate(ctx context.Context) (time.Time, error)
	CountStations(ctx context.Context) (int, error)
	StationActivity(ctx context.Context) ([]types.StationActivity, error)
	PrecipitationBetween(ctx context.Context, start, end time.Time) ([]types.PrecipitationEntry, error)
	TemperaturesBetween(ctx context.Context, station string, start, end time.Time) ([]types.TemperatureObservation, error)
	TemperatureStatsFrom(ctx context.Context, start time.Time) (types.TemperatureStats, error)
	TemperatureStatsBetween(ctx context.Context, start, end time.Time) (types.TemperatureStats, error)
	Close() error
}

type repositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) ClimateRepository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) Session(ctx context.Context) (Session, error) {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	return &sessionImpl{conn: conn}, nil
}

type sessionImpl struct {
	conn *sql.Conn
}

func (s *sessionImpl) Close() error {
	return s.conn.Close()
}

func (s *sessionImpl) LatestDate(ctx context.Context) (time.Time, error) {
	var latest sql.NullString
	if err := s.conn.QueryRowContext(ctx, getLatestDateSQL).Scan(&latest); err != nil {
		return time.Time{}, fmt.Errorf("latest date: %w", err)
	}
	if !latest.Valid {
		return time.Time{}, ErrNoMeasurements
	}
	t, err := time.Parse(types.DateLayout, latest.String)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse latest date %q: %w", latest.String, err)
	}
	return t, nil
}

func (s *sessionImpl) CountStations(ctx context.Context) (int, error) {
	var n int
	if err := s.conn.QueryRowContext(ctx, countStationsSQL).Scan(&n); err != nil {
		return 0, fmt.Errorf("count stations: %w", err)
	}
	return n, nil
}

func (s *sessionImpl) StationActivity(ctx context.Context) ([]types.StationActivity, error) {
	rows, err := s.conn.QueryContext(ctx, getStationActivitySQL)
	if err != nil {
		return nil, fmt.Errorf("station activity: %w", err)
	}
	defer closeRows(rows, "station activity")

	out := []types.StationActivity{}
	for rows.Next() {
		var a types.StationActivity
		if err := rows.Scan(&a.Station, &a.Count); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *sessionImpl) PrecipitationBetween(ctx context.Context, start, end time.Time) ([]types.PrecipitationEntry, error) {
	rows, err := s.conn.QueryContext(ctx, getPrecipitationSQL, formatDate(start), formatDate(end))
	if err != nil {
		return nil, fmt.Errorf("precipitation: %w", err)
	}
	defer closeRows(rows, "precipitation")

	out := []types.PrecipitationEntry{}
	for rows.Next() {
		var (
			e    types.PrecipitationEntry
			prcp sql.NullFloat64
		)
		if err := rows.Scan(&e.Date, &prcp); err != nil {
			return nil, err
		}
		e.Prcp = nullableFloat(prcp)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *sessionImpl) TemperaturesBetween(ctx context.Context, station string, start, end time.Time) ([]types.TemperatureObservation, error) {
	rows, err := s.conn.QueryContext(ctx, getTemperaturesSQL, station, formatDate(start), formatDate(end))
	if err != nil {
		return nil, fmt.Errorf("temperatures for %s: %w", station, err)
	}
	defer closeRows(rows, "temperatures")

	out := []types.TemperatureObservation{}
	for rows.Next() {
		var o types.TemperatureObservation
		if err := rows.Scan(&o.Date, &o.Tobs); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (s *sessionImpl) TemperatureStatsFrom(ctx context.Context, start time.Time) (types.TemperatureStats, error) {
	row := s.conn.QueryRowContext(ctx, getTemperatureStatsFromSQL, formatDate(start))
	stats, err := scanStats(row)
	if err != nil {
		return types.TemperatureStats{}, fmt.Errorf("temperature stats from %s: %w", formatDate(start), err)
	}
	return stats, nil
}

func (s *sessionImpl) TemperatureStatsBetween(ctx context.Context, start, end time.Time) (types.TemperatureStats, error) {
	row := s.conn.QueryRowContext(ctx, getTemperatureStatsBetweenSQL, formatDate(start), formatDate(end))
	stats, err := scanStats(row)
	if err != nil {
		return types.TemperatureStats{}, fmt.Errorf("temperature stats %s..%s: %w", formatDate(start), formatDate(end), err)
	}
	return stats, nil
}

func scanStats(row *sql.Row) (types.TemperatureStats, error) {
	var minT, maxT, avgT sql.NullFloat64
	if err := row.Scan(&minT, &maxT, &avgT); err != nil {
		return types.TemperatureStats{}, err
	}
	return types.TemperatureStats{
		Min: nullableFloat(minT),
		Max: nullableFloat(maxT),
		Avg: nullableFloat(avgT),
	}, nil
}

func nullableFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func formatDate(t time.Time) string {
	return t.Format(types.DateLayout)
}

func closeRows(rows *sql.Rows, what string) {
	if err := rows.Close(); err != nil {
		slog.Error("close rows", "query", what, "error", err)
	}
}
