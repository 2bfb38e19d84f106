package types

import (
	"encoding/json"
	"time"
)

// DateLayout is the storage format of measurement.date.
const DateLayout = "2006-01-02"

// Station is a row of the station table.
type Station struct {
	ID        int64   `json:"id"`
	Station   string  `json:"station"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Elevation float64 `json:"elevation"`
}

// Measurement is a row of the measurement table. Prcp is NULL for days
// without a precipitation reading.
type Measurement struct {
	ID      int64    `json:"id"`
	Station string   `json:"station"`
	Date    string   `json:"date"`
	Prcp    *float64 `json:"prcp"`
	Tobs    float64  `json:"tobs"`
}

// PrecipitationEntry encodes as a single-key object {"<date>": <prcp>}.
type PrecipitationEntry struct {
	Date string
	Prcp *float64
}

func (p PrecipitationEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]*float64{p.Date: p.Prcp})
}

// StationActivity encodes as ["<station>", <count>].
type StationActivity struct {
	Station string
	Count   int
}

func (s StationActivity) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{s.Station, s.Count})
}

// TemperatureObservation encodes as ["<date>", <tobs>].
type TemperatureObservation struct {
	Date string
	Tobs float64
}

func (o TemperatureObservation) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{o.Date, o.Tobs})
}

// TemperatureStats holds MIN/MAX/AVG of tobs. All three are nil when no
// measurement matched. It encodes as [min, max, avg].
type TemperatureStats struct {
	Min *float64
	Max *float64
	Avg *float64
}

func (s TemperatureStats) MarshalJSON() ([]byte, error) {
	return json.Marshal([]*float64{s.Min, s.Max, s.Avg})
}

// DateWindow is an inclusive range of calendar days.
type DateWindow struct {
	Start time.Time
	End   time.Time
}

func (w DateWindow) StartString() string { return w.Start.Format(DateLayout) }
func (w DateWindow) EndString() string   { return w.End.Format(DateLayout) }
