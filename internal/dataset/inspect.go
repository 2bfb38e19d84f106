package dataset

import (
	"context"
	"database/sql"
	"fmt"
)

// Summary describes the contents of a dataset file.
type Summary struct {
	Stations     int
	Measurements int
	// LatestDate is empty when there are no measurements.
	LatestDate string
}

func Inspect(ctx context.Context, db *sql.DB) (Summary, error) {
	var s Summary
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM station`).Scan(&s.Stations); err != nil {
		return Summary{}, fmt.Errorf("count stations: %w", err)
	}
	var latest sql.NullString
	err := db.QueryRowContext(ctx, `SELECT COUNT(*), MAX(date) FROM measurement`).Scan(&s.Measurements, &latest)
	if err != nil {
		return Summary{}, fmt.Errorf("count measurements: %w", err)
	}
	s.LatestDate = latest.String
	return s, nil
}
