package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ootdlab/ootd-backend/internal/logger"
)

// Report is the combined weather shape the outfit engine consumes.
type Report struct {
	Temperature     float64         `json:"temperature"`
	TempMin         float64         `json:"temp_min"`
	TempMax         float64         `json:"temp_max"`
	Description     string          `json:"description"`
	IconCode        string          `json:"icon_code"`
	HumidityPercent float64         `json:"humidity_percent"`
	WindSpeed       float64         `json:"wind_speed"`
	City            string          `json:"city"`
	ForecastPoints  []ForecastPoint `json:"forecast_points"`
}

type ForecastPoint struct {
	Timestamp   time.Time `json:"timestamp"`
	Temperature float64   `json:"temperature"`
	IconCode    string    `json:"icon_code"`
}

type Client interface {
	Fetch(ctx context.Context, lat, lon float64) (*Report, error)
}

type client struct {
	log        *logger.Logger
	baseURL    string
	geoBaseURL string
	apiKey     string
	httpClient *http.Client
	maxRetries int
}

func NewClient(log *logger.Logger) (Client, error) {
	apiKey := os.Getenv("OPENWEATHER_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("missing OPENWEATHER_API_KEY")
	}

	baseURL := os.Getenv("OPENWEATHER_BASE_URL")
	if baseURL == "" {
		baseURL = "https://api.openweathermap.org"
	}

	timeoutSec := 15
	if v := os.Getenv("OPENWEATHER_TIMEOUT_SECONDS"); v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed > 0 {
			timeoutSec = parsed
		}
	}

	maxRetries := 2
	if v := os.Getenv("OPENWEATHER_MAX_RETRIES"); v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed >= 0 {
			maxRetries = parsed
		}
	}

	return &client{
		log:        log.With("service", "WeatherClient"),
		baseURL:    strings.TrimRight(baseURL, "/"),
		geoBaseURL: strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
		maxRetries: maxRetries,
	}, nil
}

type weatherHTTPError struct {
	StatusCode int
	Body       string
}

func (e *weatherHTTPError) Error() string {
	return fmt.Sprintf("openweather http %d: %s", e.StatusCode, e.Body)
}

type currentResponse struct {
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Main struct {
		Temp     float64 `json:"temp"`
		TempMin  float64 `json:"temp_min"`
		TempMax  float64 `json:"temp_max"`
		Humidity float64 `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Name string `json:"name"`
}

type forecastResponse struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
		Weather []struct {
			Icon string `json:"icon"`
		} `json:"weather"`
	} `json:"list"`
}

type reverseGeoResponse []struct {
	Name string `json:"name"`
}

// Fetch combines current conditions, the hourly forecast and the reverse
// geocoded city into a single Report. Forecast and geocoding failures
// degrade: current conditions alone are enough for a recommendation.
func (c *client) Fetch(ctx context.Context, lat, lon float64) (*Report, error) {
	var current currentResponse
	if err := c.getJSON(ctx, c.currentURL(lat, lon), &current); err != nil {
		return nil, fmt.Errorf("Failed to fetch current weather: %w", err)
	}

	report := &Report{
		Temperature:     current.Main.Temp,
		TempMin:         current.Main.TempMin,
		TempMax:         current.Main.TempMax,
		HumidityPercent: current.Main.Humidity,
		WindSpeed:       current.Wind.Speed,
		City:            current.Name,
	}
	if len(current.Weather) > 0 {
		report.Description = current.Weather[0].Description
		report.IconCode = current.Weather[0].Icon
	}

	var forecast forecastResponse
	if err := c.getJSON(ctx, c.forecastURL(lat, lon), &forecast); err != nil {
		c.log.Warn("Forecast fetch failed, continuing with current conditions", "error", err)
	} else {
		for _, p := range forecast.List {
			point := ForecastPoint{
				Timestamp:   time.Unix(p.Dt, 0).UTC(),
				Temperature: p.Main.Temp,
			}
			if len(p.Weather) > 0 {
				point.IconCode = p.Weather[0].Icon
			}
			report.ForecastPoints = append(report.ForecastPoints, point)
		}
	}

	if report.City == "" {
		var geo reverseGeoResponse
		if err := c.getJSON(ctx, c.reverseGeoURL(lat, lon), &geo); err != nil {
			c.log.Warn("Reverse geocoding failed, continuing without city", "error", err)
		} else if len(geo) > 0 {
			report.City = geo[0].Name
		}
	}

	return report, nil
}

func (c *client) currentURL(lat, lon float64) string {
	return fmt.Sprintf("%s/data/2.5/weather?%s", c.baseURL, c.coordQuery(lat, lon))
}

func (c *client) forecastURL(lat, lon float64) string {
	return fmt.Sprintf("%s/data/2.5/forecast?%s", c.baseURL, c.coordQuery(lat, lon))
}

func (c *client) reverseGeoURL(lat, lon float64) string {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("limit", "1")
	q.Set("appid", c.apiKey)
	return fmt.Sprintf("%s/geo/1.0/reverse?%s", c.geoBaseURL, q.Encode())
}

func (c *client) coordQuery(lat, lon float64) string {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("units", "metric")
	q.Set("appid", c.apiKey)
	return q.Encode()
}

func (c *client) getJSON(ctx context.Context, rawURL string, out any) error {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(200*(1<<uint(attempt-1))) * time.Millisecond
			backoff += time.Duration(rand.Intn(100)) * time.Millisecond
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return err
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			continue
		}
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			lastErr = &weatherHTTPError{StatusCode: resp.StatusCode, Body: truncate(string(body), 200)}
			continue
		}
		if resp.StatusCode != http.StatusOK {
			return &weatherHTTPError{StatusCode: resp.StatusCode, Body: truncate(string(body), 200)}
		}
		return json.Unmarshal(body, out)
	}
	return lastErr
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
