package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yungbote/clinicshare-backend/internal/handlers"
	"github.com/yungbote/clinicshare-backend/internal/middleware"
	"github.com/yungbote/clinicshare-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	CatalogHandler *handlers.CatalogHandler
	AdminHandler   *handlers.AdminHandler
	AccountHandler *handlers.AccountHandler
	ShareHandler   *handlers.ShareHandler
	AllowOrigins   []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLog(cfg.Log))

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		api.GET("/catalog", cfg.CatalogHandler.GetCatalog)
		api.POST("/register", cfg.AccountHandler.RegisterDoctor)
		api.GET("/doctors/:id", cfg.AccountHandler.GetDoctor)
		api.POST("/shares", cfg.ShareHandler.RecordShare)
		api.GET("/doctors/:id/shares", cfg.ShareHandler.ListRecentShares)
	}

	admin := router.Group("/api/admin")
	{
		admin.POST("/therapy-areas", cfg.AdminHandler.UpsertTherapyArea)
		admin.DELETE("/therapy-areas/:code", cfg.AdminHandler.DeleteTherapyArea)
		admin.POST("/trigger-clusters", cfg.AdminHandler.UpsertTriggerCluster)
		admin.DELETE("/trigger-clusters/:code", cfg.AdminHandler.DeleteTriggerCluster)
		admin.POST("/triggers", cfg.AdminHandler.UpsertTrigger)
		admin.DELETE("/triggers/:code", cfg.AdminHandler.DeleteTrigger)
		admin.POST("/videos", cfg.AdminHandler.UpsertVideo)
		admin.DELETE("/videos/:code", cfg.AdminHandler.DeleteVideo)
		admin.POST("/video-clusters", cfg.AdminHandler.UpsertVideoCluster)
		admin.DELETE("/video-clusters/:code", cfg.AdminHandler.DeleteVideoCluster)
	}

	return router
}
