package services

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ootdlab/ootd-backend/internal/clients/redis"
	"github.com/ootdlab/ootd-backend/internal/clients/weather"
	"github.com/ootdlab/ootd-backend/internal/logger"
	"github.com/ootdlab/ootd-backend/internal/outfit"
)

// windyThresholdMS is the wind speed (m/s) above which the windy tag applies.
const windyThresholdMS = 8.0

type WeatherService interface {
	Current(ctx context.Context, lat, lon float64) (*weather.Report, outfit.TagSet, error)
}

type weatherService struct {
	log    *logger.Logger
	client weather.Client
	cache  redis.WeatherCache
}

// NewWeatherService wires the upstream client with an optional cache; pass a
// nil cache to fetch on every call.
func NewWeatherService(log *logger.Logger, client weather.Client, cache redis.WeatherCache) WeatherService {
	serviceLog := log.With("service", "WeatherService")
	return &weatherService{log: serviceLog, client: client, cache: cache}
}

func (ws *weatherService) Current(ctx context.Context, lat, lon float64) (*weather.Report, outfit.TagSet, error) {
	tracer := otel.Tracer("ootd-backend/weather")
	ctx, span := tracer.Start(ctx, "WeatherService.Current",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.Float64("geo.lat", lat), attribute.Float64("geo.lon", lon)),
	)
	defer span.End()

	if ws.cache != nil {
		if report, ok := ws.cache.Get(ctx, lat, lon); ok {
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return report, DeriveTags(report.IconCode, report.WindSpeed), nil
		}
	}

	report, err := ws.client.Fetch(ctx, lat, lon)
	if err != nil {
		span.RecordError(err)
		return nil, nil, fmt.Errorf("Failed to fetch weather: %w", err)
	}
	if ws.cache != nil {
		if cacheErr := ws.cache.Set(ctx, lat, lon, report); cacheErr != nil {
			ws.log.Warn("Failed to cache weather report", "error", cacheErr)
		}
	}
	return report, DeriveTags(report.IconCode, report.WindSpeed), nil
}

// DeriveTags maps upstream condition icon families and wind speed to the
// engine's weather tags. Icon codes follow the OpenWeather convention: two
// digits plus a day/night suffix ("10d").
func DeriveTags(iconCode string, windSpeed float64) outfit.TagSet {
	tags := make(outfit.TagSet)
	family := iconCode
	if len(family) > 2 {
		family = family[:2]
	}
	switch family {
	case "09", "10", "11":
		tags[outfit.TagRainy] = true
	case "01", "02":
		tags[outfit.TagSunny] = true
	}
	if windSpeed >= windyThresholdMS {
		tags[outfit.TagWindy] = true
	}
	return tags
}
