package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/ootdlab/ootd-backend/internal/clients/weather"
	"github.com/ootdlab/ootd-backend/internal/logger"
	"github.com/ootdlab/ootd-backend/internal/utils"
)

// WeatherCache memoizes weather reports per rounded coordinate so a burst of
// session starts in the same city does not hammer the upstream API.
type WeatherCache interface {
	Get(ctx context.Context, lat, lon float64) (*weather.Report, bool)
	Set(ctx context.Context, lat, lon float64, report *weather.Report) error
	Close() error
}

type weatherCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

func NewWeatherCache(log *logger.Logger) (WeatherCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	ttlMinutes := utils.GetEnvAsInt("WEATHER_CACHE_TTL_MINUTES", 10, log)
	if ttlMinutes <= 0 {
		ttlMinutes = 10
	}
	ttl := time.Duration(ttlMinutes) * time.Minute

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &weatherCache{
		log: log.With("service", "RedisWeatherCache"),
		rdb: rdb,
		ttl: ttl,
	}, nil
}

func (wc *weatherCache) Get(ctx context.Context, lat, lon float64) (*weather.Report, bool) {
	if wc == nil || wc.rdb == nil {
		return nil, false
	}
	raw, err := wc.rdb.Get(ctx, cacheKey(lat, lon)).Bytes()
	if err != nil {
		if err != goredis.Nil {
			wc.log.Warn("Weather cache read failed", "error", err)
		}
		return nil, false
	}
	var report weather.Report
	if err := json.Unmarshal(raw, &report); err != nil {
		wc.log.Warn("Bad weather cache payload, dropping", "error", err)
		_ = wc.rdb.Del(ctx, cacheKey(lat, lon)).Err()
		return nil, false
	}
	return &report, true
}

func (wc *weatherCache) Set(ctx context.Context, lat, lon float64, report *weather.Report) error {
	if wc == nil || wc.rdb == nil {
		return fmt.Errorf("weather cache not initialized")
	}
	raw, err := json.Marshal(report)
	if err != nil {
		return err
	}
	return wc.rdb.Set(ctx, cacheKey(lat, lon), raw, wc.ttl).Err()
}

func (wc *weatherCache) Close() error {
	if wc == nil || wc.rdb == nil {
		return nil
	}
	return wc.rdb.Close()
}

// Coordinates are rounded to two decimals (~1km) so nearby lookups share an
// entry.
func cacheKey(lat, lon float64) string {
	return fmt.Sprintf("weather:%.2f:%.2f", lat, lon)
}
