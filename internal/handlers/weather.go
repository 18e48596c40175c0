package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ootdlab/ootd-backend/internal/services"
)

type WeatherHandler struct {
	weatherService services.WeatherService
}

func NewWeatherHandler(weatherService services.WeatherService) *WeatherHandler {
	return &WeatherHandler{weatherService: weatherService}
}

func (wh *WeatherHandler) Current(c *gin.Context) {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lon, lonErr := strconv.ParseFloat(c.Query("lon"), 64)
	if latErr != nil || lonErr != nil {
		RespondError(c, http.StatusBadRequest, "bad_coordinates", fmt.Errorf("lat and lon query parameters are required"))
		return
	}
	report, tags, err := wh.weatherService.Current(c.Request.Context(), lat, lon)
	if err != nil {
		RespondError(c, http.StatusBadGateway, "weather_unavailable", err)
		return
	}
	tagList := make([]string, 0, len(tags))
	for tag := range tags {
		tagList = append(tagList, string(tag))
	}
	RespondOK(c, gin.H{"report": report, "tags": tagList})
}
