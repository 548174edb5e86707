package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/yungbote/clinicshare-backend/internal/clients/redis"
	"github.com/yungbote/clinicshare-backend/internal/db"
	"github.com/yungbote/clinicshare-backend/internal/handlers"
	"github.com/yungbote/clinicshare-backend/internal/masterdb"
	"github.com/yungbote/clinicshare-backend/internal/platform/logger"
	"github.com/yungbote/clinicshare-backend/internal/repos"
	"github.com/yungbote/clinicshare-backend/internal/server"
	"github.com/yungbote/clinicshare-backend/internal/services"
	"github.com/yungbote/clinicshare-backend/internal/utils"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
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

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Fatal("Postgres init failed", "error", err)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Fatal("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Redis
	cache, err := redis.NewCache(log)
	if err != nil {
		log.Fatal("Redis init failed", "error", err)
	}
	defer cache.Close()

	// Master database bridge, optional. Without a DSN registration stays
	// purely local.
	var bridge services.MasterBridge
	masterCfg, err := masterdb.LoadConfig(log)
	if err != nil {
		log.Fatal("Master db config invalid", "error", err)
	}
	if masterCfg.DSN != "" {
		b, err := masterdb.Open(masterCfg, log)
		if err != nil {
			log.Warn("Master db unavailable, continuing without it", "error", err)
		} else {
			defer b.Close()
			bridge = b
		}
	}

	// Repos
	therapyRepo := repos.NewTherapyAreaRepo(thePG, log)
	topicRepo := repos.NewTriggerClusterRepo(thePG, log)
	triggerRepo := repos.NewTriggerRepo(thePG, log)
	videoRepo := repos.NewVideoRepo(thePG, log)
	bundleRepo := repos.NewVideoClusterRepo(thePG, log)
	mapRepo := repos.NewVideoTriggerMapRepo(thePG, log)
	doctorRepo := repos.NewDoctorRepo(thePG, log)
	clinicRepo := repos.NewClinicRepo(thePG, log)
	shareRepo := repos.NewShareEventRepo(thePG, log)

	// Services
	cacheTTL := time.Duration(utils.GetEnvAsInt("CATALOG_CACHE_TTL_SECONDS", 900, log)) * time.Second
	builder := services.NewCatalogPayloadBuilder(thePG, log, therapyRepo, topicRepo, triggerRepo, videoRepo, bundleRepo, mapRepo)
	catalogService := services.NewCatalogService(log, cache, builder, cacheTTL)
	adminService := services.NewCatalogAdminService(thePG, log, therapyRepo, topicRepo, triggerRepo, videoRepo, bundleRepo, mapRepo, catalogService)
	accountService := services.NewAccountService(thePG, log, doctorRepo, clinicRepo, bridge)
	shareService := services.NewShareService(log, shareRepo, doctorRepo, videoRepo)

	// Handlers
	catalogHandler := handlers.NewCatalogHandler(log, catalogService)
	adminHandler := handlers.NewAdminHandler(log, adminService)
	accountHandler := handlers.NewAccountHandler(log, accountService)
	shareHandler := handlers.NewShareHandler(log, shareService)

	// Router
	origins := strings.Split(utils.GetEnv("CORS_ALLOW_ORIGINS", "", log), ",")
	if len(origins) == 1 && origins[0] == "" {
		origins = nil
	}
	router := server.NewRouter(server.RouterConfig{
		Log:            log,
		CatalogHandler: catalogHandler,
		AdminHandler:   adminHandler,
		AccountHandler: accountHandler,
		ShareHandler:   shareHandler,
		AllowOrigins:   origins,
	})

	port := utils.GetEnv("PORT", "8080", log)
	log.Info("Starting server", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Server exited", "error", err)
	}
}
