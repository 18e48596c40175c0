package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ootdlab/ootd-backend/internal/clients/redis"
	"github.com/ootdlab/ootd-backend/internal/clients/weather"
	"github.com/ootdlab/ootd-backend/internal/db"
	"github.com/ootdlab/ootd-backend/internal/handlers"
	"github.com/ootdlab/ootd-backend/internal/logger"
	"github.com/ootdlab/ootd-backend/internal/middleware"
	"github.com/ootdlab/ootd-backend/internal/observability"
	"github.com/ootdlab/ootd-backend/internal/outfit"
	"github.com/ootdlab/ootd-backend/internal/repos"
	"github.com/ootdlab/ootd-backend/internal/server"
	"github.com/ootdlab/ootd-backend/internal/services"
	"github.com/ootdlab/ootd-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	port := utils.GetEnv("PORT", "8080", log)
	appEnv := utils.GetEnv("APP_ENV", "development", log)
	appVersion := utils.GetEnv("APP_VERSION", "dev", log)

	// OTel
	shutdownOTel := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: "ootd-backend",
		Environment: appEnv,
		Version:     appVersion,
	})
	if shutdownOTel != nil {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdownOTel(ctx)
		}()
	}

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Warn("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	wardrobeItemRepo := repos.NewWardrobeItemRepo(thePG, log)
	weatherSnapshotRepo := repos.NewWeatherSnapshotRepo(thePG, log)
	outfitRepo := repos.NewOutfitRepo(thePG, log)

	// External clients
	log.Info("Setting up Clients from main...")
	weatherClient, err := weather.NewClient(log)
	if err != nil {
		log.Error("Could not init weather client", "error", err)
		os.Exit(1)
	}
	weatherCache, err := redis.NewWeatherCache(log)
	if err != nil {
		log.Warn("Redis weather cache unavailable, continuing without it", "error", err)
		weatherCache = nil
	}

	// Services
	log.Info("Setting up Services from main...")
	userService := services.NewUserService(thePG, log, userRepo)
	weatherService := services.NewWeatherService(log, weatherClient, weatherCache)
	wardrobeService := services.NewWardrobeService(thePG, log, wardrobeItemRepo)
	layoutStore := services.NewLayoutStore(thePG, log, outfitRepo, weatherSnapshotRepo, wardrobeItemRepo)
	rnd := outfit.NewRandomizer(time.Now().UnixNano())
	outfitService := services.NewOutfitService(log, weatherService, wardrobeService, layoutStore, rnd)

	// Handlers
	userHandler := handlers.NewUserHandler(userService)
	weatherHandler := handlers.NewWeatherHandler(weatherService)
	wardrobeHandler := handlers.NewWardrobeHandler(wardrobeService)
	outfitHandler := handlers.NewOutfitHandler(outfitService)

	// Middleware
	sessionMiddleware := middleware.NewSessionMiddleware(log, userRepo)

	// Router
	router := server.NewRouter(server.RouterConfig{
		SessionMiddleware: sessionMiddleware,
		UserHandler:       userHandler,
		WeatherHandler:    weatherHandler,
		WardrobeHandler:   wardrobeHandler,
		OutfitHandler:     outfitHandler,
	})

	log.Info("Starting server", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Server exited", "error", err)
	}
}
