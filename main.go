package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/rachmati-dz/rachmati-api/config"
	"github.com/rachmati-dz/rachmati-api/controllers"
	"github.com/rachmati-dz/rachmati-api/middleware"
	"github.com/rachmati-dz/rachmati-api/models"
	"github.com/rachmati-dz/rachmati-api/services"
)

func main() {
	log.Println("Starting Rachmati API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize structured logging
	logger, err := config.InitLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// Connect to database
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database models
	db := config.GetDB()
	if err := db.AutoMigrate(
		&models.Client{},
		&models.Designer{},
		&models.Rachma{},
		&models.RachmaFile{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	// Initialize services
	services.InitStorage(cfg.StorageDir)
	services.InitTelegramService(cfg)
	services.InitOrderLocker(cfg.RedisAddr)

	if cfg.AWSS3Bucket != "" {
		s3Service, err := services.InitS3Service()
		if err != nil {
			log.Fatalf("Failed to initialize S3 service: %v", err)
		}
		services.InitProofService(s3Service)
	} else {
		log.Println("AWS_S3_BUCKET not set, payment-proof uploads disabled")
	}

	// Initialize Gin router
	router := gin.Default()
	router.Use(cors.Default())

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check endpoint
		v1.GET("/health", healthCheck)

		// Database status endpoint
		v1.GET("/database/status", databaseStatus)

		// Buyer-facing payment-proof upload
		if cfg.AWSS3Bucket != "" {
			v1.POST("/orders/:id/payment-proof", controllers.UploadPaymentProof)
		}

		// Admin routes require a valid JWT with the admin role
		admin := v1.Group("/admin",
			middleware.EnsureValidToken(cfg),
			middleware.RequireRole("admin"),
		)
		{
			admin.GET("/orders", controllers.ListOrders)
			admin.GET("/orders/:id", controllers.GetOrder)
			admin.PUT("/orders/:id", controllers.UpdateOrder)
			admin.GET("/orders/:id/check-file-delivery", controllers.CheckFileDelivery)

			admin.GET("/designers", controllers.ListDesigners)
			admin.GET("/designers/:id/earnings", controllers.GetDesignerEarnings)
		}
	}

	// Start server
	port := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Rachmati API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()

	// Get the underlying SQL database to check connection
	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	// Ping the database to verify connection
	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	// Get list of tables
	var tables []string
	if err := db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public'").Scan(&tables).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_QUERY_ERROR",
				"message": "Failed to query tables",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"tables":  tables,
	})
}
