package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joy095/studio/badwords"
	"github.com/joy095/studio/clients"
	"github.com/joy095/studio/config"
	"github.com/joy095/studio/config/db"
	"github.com/joy095/studio/config/redis"
	"github.com/joy095/studio/logger"
	"github.com/joy095/studio/metrics"
	middleware "github.com/joy095/studio/middlewares"
	"github.com/joy095/studio/middlewares/cors"
	"github.com/joy095/studio/models/user_models"
	"github.com/joy095/studio/routes"
	"github.com/joy095/studio/utils/validation"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func init() {
	logger.InitLoggers()
	config.LoadEnv()
}

func main() {
	db.Connect()
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.Migrate(ctx, db.DB); err != nil {
		cancel()
		logger.ErrorLogger.Errorf("Migrations failed: %v", err)
		os.Exit(1)
	}
	if err := user_models.EnsureAdmin(ctx, db.DB, os.Getenv("ADMIN_EMAIL"), os.Getenv("ADMIN_PASSWORD")); err != nil {
		logger.ErrorLogger.Errorf("Admin bootstrap failed: %v", err)
	}
	cancel()

	if err := validation.RegisterBindingValidators(); err != nil {
		logger.ErrorLogger.Errorf("Failed to register validators: %v", err)
		os.Exit(1)
	}

	if err := badwords.LoadBadWords(config.GetEnv("BADWORDS_FILE", "badwords/en.txt")); err != nil {
		logger.WarnLogger.Warnf("Bad words not loaded: %v", err)
	} else {
		logger.InfoLogger.Infof("Bad words loaded (%d entries)", badwords.Count())
	}

	rdb, err := redis.GetRedisClient(context.Background())
	if err != nil {
		logger.WarnLogger.Warnf("Slot holds disabled: %v", err)
		rdb = nil
	}
	defer redis.CloseRedis()

	metrics.Register()
	gateways := clients.NewGatewaysFromEnv()

	port := config.GetEnv("PORT", "8081")

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.GinLogger())
	r.Use(middleware.MetricsMiddleware())
	r.Use(cors.CorsMiddleware())

	routes.RegisterAuthRoutes(r)
	routes.RegisterCatalogRoutes(r)
	routes.RegisterBookingRoutes(r, rdb)
	routes.RegisterPaymentRoutes(r, gateways)
	routes.RegisterFeedbackRoutes(r)
	routes.RegisterInventoryRoutes(r)
	routes.RegisterDashboardRoutes(r)

	health := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok from studio service"})
	}
	r.GET("/health", health)
	r.HEAD("/health", health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.InfoLogger.Infof("Server listening on :%s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorLogger.Errorf("Server failed to listen: %v", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.InfoLogger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.ErrorLogger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.InfoLogger.Info("Server exited gracefully.")
}
