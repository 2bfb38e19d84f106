package controller

import (
	"bytes"
	"errors"
	"net/http"

	"climate-server/internal/modules/climate/repository"
	"climate-server/internal/modules/climate/types"
	"climate-server/internal/modules/climate/views"
	"climate-server/internal/utils"
)

func (c *climateControllerImpl) handleWelcome(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	data := &views.WelcomeData{Routes: welcomeRoutes, DateFormat: pathDateFormat}
	if err := views.RenderWelcome(&buf, data); err != nil {
		c.logger.Error("welcome template render failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to render page")
		return
	}
	utils.WriteHTML(w, http.StatusOK, buf.Bytes())
}

func (c *climateControllerImpl) handlePrecipitation(w http.ResponseWriter, r *http.Request) {
	result, err := c.service.Precipitation(r.Context())
	if err != nil {
		c.writeQueryError(w, "precipitation", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, precipitationResponse{
		DataAnalysis:     "[JSON Dictionary Representation] Precipitation Data for the previous 12 months in the database (sorted by date).",
		StartDate:        result.Window.StartString(),
		EndDate:          result.Window.EndString(),
		FinalQueryResult: result.Entries,
	})
}

func (c *climateControllerImpl) handleStations(w http.ResponseWriter, r *http.Request) {
	result, err := c.service.Stations(r.Context())
	if err != nil {
		c.writeQueryError(w, "stations", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, stationsResponse{
		DataAnalysis:     "[JSON List] ALL Stations with observation counts (descending order) in the database.",
		TotalStations:    result.Total,
		FinalQueryResult: result.Activity,
	})
}

func (c *climateControllerImpl) handleTobs(w http.ResponseWriter, r *http.Request) {
	result, err := c.service.MostActiveTemperatures(r.Context())
	if err != nil {
		c.writeQueryError(w, "tobs", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, tobsResponse{
		DataAnalysis:      "[JSON List] Date & Temperature Observation (TOBS) Data for the 'Most Active Station' for the previous 12 months in the database.",
		MostActiveStation: result.Station,
		StartDate:         result.Window.StartString(),
		EndDate:           result.Window.EndString(),
		FinalQueryResult:  result.Observations,
	})
}

func (c *climateControllerImpl) handleStatsFromStart(w http.ResponseWriter, r *http.Request) {
	start, err := parsePathDate(r.PathValue("start"))
	if err != nil {
		c.logger.Debug("stats: invalid start date", "start", r.PathValue("start"))
		utils.WriteJSON(w, http.StatusOK, dateFormatErrorResponse{
			Error:          "Invalid Date Format! Please use the following format: '" + pathDateFormat + "'",
			CorrectExample: startExample,
		})
		return
	}

	stats, err := c.service.TemperatureStatsFrom(r.Context(), start)
	if err != nil {
		c.writeQueryError(w, "stats from start", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, statsFromStartResponse{
		DataAnalysis:     "[JSON List] Minimum/Maximum/Average Temperature from the database from the given start date.",
		GivenStartDate:   start.Format(types.DateLayout),
		FinalQueryResult: stats,
	})
}

func (c *climateControllerImpl) handleStatsBetween(w http.ResponseWriter, r *http.Request) {
	start, startErr := parsePathDate(r.PathValue("start"))
	end, endErr := parsePathDate(r.PathValue("end"))
	if startErr != nil || endErr != nil {
		c.logger.Debug("stats: invalid date range",
			"start", r.PathValue("start"),
			"end", r.PathValue("end"),
		)
		utils.WriteJSON(w, http.StatusOK, dateFormatErrorResponse{
			Error:          "Invalid Date Format(s)! Please use the following format: '" + pathDateFormat + "'",
			CorrectExample: startEndExample,
		})
		return
	}

	stats, err := c.service.TemperatureStatsBetween(r.Context(), start, end)
	if err != nil {
		c.writeQueryError(w, "stats between", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, statsBetweenResponse{
		DataAnalysis:     "[JSON List] Minimum/Maximum/Average Temperature from the database from the given start date to the given end date.",
		GivenStartDate:   start.Format(types.DateLayout),
		GivenEndDate:     end.Format(types.DateLayout),
		FinalQueryResult: stats,
	})
}

func (c *climateControllerImpl) writeQueryError(w http.ResponseWriter, route string, err error) {
	if errors.Is(err, repository.ErrNoMeasurements) {
		c.logger.Error(route+": dataset has no measurements", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "dataset contains no measurements")
		return
	}
	c.logger.Error(route+": query failed", "error", err)
	utils.WriteError(w, http.StatusInternalServerError, "failed to query climate data")
}
