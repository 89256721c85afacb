package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"

	"andromeda/internal/clients"
	"andromeda/internal/config"
	"andromeda/internal/handlers"
	"andromeda/internal/middleware"
	"andromeda/internal/repository"
	"andromeda/internal/service"
	"andromeda/internal/worker"
	"andromeda/pkg/database"
	"andromeda/pkg/redis"
)

func main() {
	// Загрузка .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	log.Println("=== Andromeda Mission Sync Backend Starting ===")

	cfg := config.Load()

	// Подключение к PostgreSQL
	db, err := database.Connect(database.Config{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		DBName:   cfg.DB.DBName,
		SSLMode:  cfg.DB.SSLMode,
	})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}()

	// Подключение к Redis
	redisClient, err := redis.Connect(redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer redisClient.Close()

	// Автомиграция моделей
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Репозитории
	placeRepo := repository.NewPlaceRepository(db)
	missionRepo := repository.NewMissionRepository(db)
	ephemerisRepo := repository.NewEphemerisRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient)

	scienceClient := clients.NewScienceClient(clients.ScienceConfig{
		BaseURL:  cfg.Science.BaseURL,
		Pipeline: cfg.Science.Pipeline,
	})

	// Сервисы
	ephemerisService := service.NewEphemerisService(ephemerisRepo, scienceClient)
	missionService := service.NewMissionService(
		missionRepo, ephemerisRepo, ephemerisService, scienceClient, cacheRepo, cfg.Sync)
	placeService := service.NewPlaceService(placeRepo, missionService)
	defer placeService.Close()

	// Первая сохраненная точка становится текущей при старте
	if places, err := placeRepo.GetAll(context.Background()); err == nil && len(places) > 0 {
		if err := placeService.Select(context.Background(), places[0].ID); err != nil {
			log.Printf("Failed to select initial place: %v", err)
		}
	} else {
		log.Println("No observation place configured yet")
	}

	// Фоновые воркеры
	scheduler := worker.NewScheduler()
	if cfg.Workers.MissionsEnabled {
		scheduler.AddWorker(worker.NewMissionWorker(placeRepo, missionService, cfg.Workers.MissionsInterval))
		log.Printf("Mission Worker enabled (interval: %v)", cfg.Workers.MissionsInterval)
	}

	go scheduler.Start()
	defer scheduler.Stop()

	// Gin
	if cfg.App.Debug {
		gin.SetMode(gin.DebugMode)
		log.Println("Running in DEBUG mode")
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", cfg.App.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if !cfg.App.Debug {
		limiter := rate.NewLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst)
		r.Use(middleware.RateLimitMiddleware(limiter))
		log.Printf("Rate limiting enabled: %d req/sec, burst: %d",
			cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}

	placeHandler := handlers.NewPlaceHandler(placeService)
	missionHandler := handlers.NewMissionHandler(
		placeService, missionService, ephemerisService, missionRepo, cfg.Export.OutputDir)

	api := r.Group("/api/v1")

	// Точки наблюдения
	api.POST("/places", placeHandler.CreatePlace)
	api.GET("/places", placeHandler.ListPlaces)
	api.POST("/places/:id/select", placeHandler.SelectPlace)

	// Миссии
	api.GET("/missions", missionHandler.GetMissions)
	api.GET("/missions/stream", missionHandler.StreamMissions)
	api.GET("/missions/export", missionHandler.Export)
	api.GET("/missions/:key/ephemeris", missionHandler.GetEphemeris)
	api.POST("/refresh", missionHandler.Refresh)

	// Health check
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"services": gin.H{
				"database":    "connected",
				"redis":       "connected",
				"science_api": "enabled",
			},
		})
	})

	// Системная статистика
	api.GET("/system/stats", func(c *gin.Context) {
		ctx := c.Request.Context()

		redisStats, _ := redis.GetStats(redisClient)
		placeCount, _ := placeRepo.Count(ctx)

		stats := gin.H{
			"places": placeCount,
		}
		if place, ok := placeService.Current(); ok {
			missionCount, _ := missionRepo.Count(ctx, place.ID)
			ephemerisCount, _ := ephemerisRepo.Count(ctx, place.ID)
			stats["missions"] = missionCount
			stats["ephemeris_samples"] = ephemerisCount
			stats["current_place"] = place.ID
		}

		c.JSON(200, gin.H{
			"database": stats,
			"redis":    redisStats,
			"workers": gin.H{
				"missions_enabled": cfg.Workers.MissionsEnabled,
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // SSE-стрим держит соединение дольше обычного
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on http://localhost:%s", cfg.App.Port)
		log.Printf("API available at http://localhost:%s/api/v1", cfg.App.Port)

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed to start:", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited properly")
}
