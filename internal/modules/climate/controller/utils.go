package controller

import (
	"errors"
	"time"

	"climate-server/internal/modules/climate/types"
)

const (
	pathDateLayout = "20060102"
	pathDateFormat = "YYYYMMDD"

	startExample    = "/api/v1.0/20100101"
	startEndExample = "/api/v1.0/20100101/20170823"
)

var errInvalidPathDate = errors.New("expected an 8-digit YYYYMMDD calendar date")

type precipitationResponse struct {
	DataAnalysis     string                     `json:"Data Analysis"`
	StartDate        string                     `json:"Start Date"`
	EndDate          string                     `json:"End Date"`
	FinalQueryResult []types.PrecipitationEntry `json:"Final Query Result"`
}

type stationsResponse struct {
	DataAnalysis     string                  `json:"Data Analysis"`
	TotalStations    int                     `json:"Total No. Stations"`
	FinalQueryResult []types.StationActivity `json:"Final Query Result"`
}

type tobsResponse struct {
	DataAnalysis      string                         `json:"Data Analysis"`
	MostActiveStation string                         `json:"Most Active Station"`
	StartDate         string                         `json:"Start Date"`
	EndDate           string                         `json:"End Date"`
	FinalQueryResult  []types.TemperatureObservation `json:"Final Query Result"`
}

type statsFromStartResponse struct {
	DataAnalysis     string                 `json:"Data Analysis"`
	GivenStartDate   string                 `json:"Given Start Date"`
	FinalQueryResult types.TemperatureStats `json:"Final Query Result"`
}

type statsBetweenResponse struct {
	DataAnalysis     string                 `json:"Data Analysis"`
	GivenStartDate   string                 `json:"Given Start Date"`
	GivenEndDate     string                 `json:"Given End Date"`
	FinalQueryResult types.TemperatureStats `json:"Final Query Result"`
}

// dateFormatErrorResponse is sent with 200 OK for unparsable path dates.
type dateFormatErrorResponse struct {
	Error          string `json:"Error"`
	CorrectExample string `json:"Correct Example"`
}

// parsePathDate accepts exactly eight ASCII digits that form a valid
// calendar date, e.g. 20170823.
func parsePathDate(s string) (time.Time, error) {
	if len(s) != len(pathDateLayout) {
		return time.Time{}, errInvalidPathDate
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return time.Time{}, errInvalidPathDate
		}
	}
	t, err := time.Parse(pathDateLayout, s)
	if err != nil {
		return time.Time{}, errInvalidPathDate
	}
	return t, nil
}
