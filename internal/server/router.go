package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/ootdlab/ootd-backend/internal/handlers"
	"github.com/ootdlab/ootd-backend/internal/middleware"
)

type RouterConfig struct {
	SessionMiddleware *middleware.SessionMiddleware
	UserHandler       *handlers.UserHandler
	WeatherHandler    *handlers.WeatherHandler
	WardrobeHandler   *handlers.WardrobeHandler
	OutfitHandler     *handlers.OutfitHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With", "X-User-ID"},
		AllowCredentials: true,
	}))
	router.Use(otelgin.Middleware("ootd-backend"))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)
	router.POST("/users", cfg.UserHandler.Register)

	// ===============
	// || Protected ||
	// ===============
	api := router.Group("/api")
	api.Use(cfg.SessionMiddleware.RequireUser())
	// Weather
	api.GET("/weather", cfg.WeatherHandler.Current)
	// Wardrobe
	api.GET("/wardrobe", cfg.WardrobeHandler.List)
	api.POST("/wardrobe", cfg.WardrobeHandler.Add)
	api.PATCH("/wardrobe/:id/availability", cfg.WardrobeHandler.SetAvailability)
	api.DELETE("/wardrobe/:id", cfg.WardrobeHandler.Delete)
	// Outfit sessions
	api.POST("/outfits/sessions", cfg.OutfitHandler.StartSession)
	api.GET("/outfits/sessions/:id", cfg.OutfitHandler.GetSession)
	api.POST("/outfits/sessions/:id/cells/:cellId/cycle", cfg.OutfitHandler.CycleItem)
	api.POST("/outfits/sessions/:id/cells/:cellId/resize", cfg.OutfitHandler.Resize)
	api.POST("/outfits/sessions/:id/cells/:cellId/column", cfg.OutfitHandler.SwitchColumn)
	api.POST("/outfits/sessions/:id/cells/:cellId/category", cfg.OutfitHandler.ReplaceCategory)
	api.POST("/outfits/sessions/:id/cells", cfg.OutfitHandler.AddCategory)
	api.DELETE("/outfits/sessions/:id/cells/:cellId", cfg.OutfitHandler.DeleteCategory)
	api.POST("/outfits/sessions/:id/save", cfg.OutfitHandler.Save)
	// Persisted outfits
	api.GET("/outfits/saved/:id", cfg.OutfitHandler.GetOutfit)

	return router
}
