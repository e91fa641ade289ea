package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sceu/clinic/internal/auth"
	"github.com/sceu/clinic/internal/authz"
	"github.com/sceu/clinic/internal/config"
	"github.com/sceu/clinic/internal/database"
	"github.com/sceu/clinic/internal/export"
	"github.com/sceu/clinic/internal/handlers"
	"github.com/sceu/clinic/internal/middleware"
	"github.com/sceu/clinic/internal/services"
	"github.com/sceu/clinic/internal/storage"
	"github.com/sceu/clinic/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	db, err := database.NewDB(cfg.Database)
	if err != nil {
		logger.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	storageClient, err := storage.NewClient(cfg.Storage)
	if err != nil {
		logger.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}
	if !storageClient.Enabled() {
		logger.Warn("object storage not configured, signature uploads disabled")
	}

	enforcer, err := authz.NewEnforcer()
	if err != nil {
		logger.Error("failed to initialize authorization", "error", err)
		os.Exit(1)
	}

	exporter, err := export.New(cfg.Export.WkhtmltopdfPath)
	if err != nil {
		logger.Error("failed to initialize exporter", "error", err)
		os.Exit(1)
	}

	// Services
	authService := auth.NewAuth(db.Pool)
	patientService := services.NewPatientService(db.Pool)
	recordService := services.NewRecordService(db.Pool)
	productService := services.NewProductService(db.Pool)
	traceabilityService := services.NewTraceabilityService(db.Pool, recordService)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	patientHandler := handlers.NewPatientHandler(patientService, storageClient)
	recordHandler := handlers.NewRecordHandler(recordService)
	productHandler := handlers.NewProductHandler(productService)
	traceabilityHandler := handlers.NewTraceabilityHandler(traceabilityService)
	exportHandler := handlers.NewExportHandler(exporter, patientService, recordService, productService, traceabilityService)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.Server.CORSOrigin))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api")

	// Auth routes
	authRoutes := api.Group("/auth")
	authRoutes.POST("/login", middleware.AuthRateLimitMiddleware(), authHandler.Login)
	authProtected := authRoutes.Group("")
	authProtected.Use(middleware.AuthMiddleware(authService))
	authProtected.POST("/logout", authHandler.Logout)
	authProtected.GET("/me", authHandler.Me)
	authProtected.POST("/register", middleware.Authorize(enforcer, "users", "write"), authHandler.Register)

	// Patient routes
	patientsAPI := api.Group("/patients")
	patientsAPI.Use(middleware.AuthMiddleware(authService))
	patientsAPI.GET("", middleware.Authorize(enforcer, "patients", "read"), patientHandler.ListPatients)
	patientsAPI.POST("", middleware.Authorize(enforcer, "patients", "write"), patientHandler.CreatePatient)
	patientsAPI.GET("/:id", middleware.Authorize(enforcer, "patients", "read"), patientHandler.GetPatient)
	patientsAPI.PUT("/:id", middleware.Authorize(enforcer, "patients", "write"), patientHandler.UpdatePatient)
	patientsAPI.DELETE("/:id", middleware.Authorize(enforcer, "patients", "write"), patientHandler.DeletePatient)
	patientsAPI.POST("/:id/signature", middleware.Authorize(enforcer, "patients", "write"), patientHandler.UploadSignature)
	patientsAPI.GET("/:id/signature", middleware.Authorize(enforcer, "patients", "read"), patientHandler.GetSignature)

	// Record routes nested under a patient
	patientsAPI.GET("/:id/records", middleware.Authorize(enforcer, "records", "read"), recordHandler.ListRecords)
	patientsAPI.POST("/:id/records", middleware.Authorize(enforcer, "records", "write"), recordHandler.CreateRecord)
	patientsAPI.PUT("/:id/records/:recordId", middleware.Authorize(enforcer, "records", "write"), recordHandler.UpdateRecord)
	patientsAPI.DELETE("/:id/records/:recordId", middleware.Authorize(enforcer, "records", "write"), recordHandler.DeleteRecord)

	// Export and per-patient traceability
	patientsAPI.POST("/:id/export", middleware.Authorize(enforcer, "export", "write"), exportHandler.Export)
	patientsAPI.GET("/:id/materials", middleware.Authorize(enforcer, "traceability", "read"), traceabilityHandler.PatientMaterials)

	// Product routes
	productsAPI := api.Group("/products")
	productsAPI.Use(middleware.AuthMiddleware(authService))
	productsAPI.GET("", middleware.Authorize(enforcer, "products", "read"), productHandler.ListProducts)
	productsAPI.POST("", middleware.Authorize(enforcer, "products", "write"), productHandler.CreateProduct)
	productsAPI.GET("/:id", middleware.Authorize(enforcer, "products", "read"), productHandler.GetProduct)
	productsAPI.DELETE("/:id", middleware.Authorize(enforcer, "products", "write"), productHandler.DeleteProduct)
	productsAPI.PUT("/:id/materials", middleware.Authorize(enforcer, "products", "write"), productHandler.SetMaterialQuantity)

	// Raw material routes
	materialsAPI := api.Group("/raw-materials")
	materialsAPI.Use(middleware.AuthMiddleware(authService))
	materialsAPI.GET("", middleware.Authorize(enforcer, "products", "read"), productHandler.ListRawMaterials)
	materialsAPI.POST("", middleware.Authorize(enforcer, "products", "write"), productHandler.CreateRawMaterial)

	// Traceability routes
	traceabilityAPI := api.Group("/traceability")
	traceabilityAPI.Use(middleware.AuthMiddleware(authService))
	traceabilityAPI.GET("", middleware.Authorize(enforcer, "traceability", "read"), traceabilityHandler.ListEntries)
	traceabilityAPI.POST("", middleware.Authorize(enforcer, "traceability", "write"), traceabilityHandler.CreateEntry)

	// Cleanup goroutine for expired sessions
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			if err := authService.CleanupExpiredSessions(context.Background()); err != nil {
				logger.Error("failed to cleanup expired sessions", "error", err)
			}
		}
	}()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info("clinic API server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", "error", err)
	}
	logger.Info("server stopped")
}
