package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"eshop-reports-api/internal/middleware"
	"eshop-reports-api/internal/repositories"
	"eshop-reports-api/internal/services"
)

// RouterConfig holds configuration for setting up routes
type RouterConfig struct {
	ReportService services.ReportService
	AuthService   *middleware.AuthService
	Repos         *repositories.RepositoryContainer
}

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, config *RouterConfig) {
	reportHandler := NewReportHandler(config.ReportService)

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/health", healthHandler(config.Repos))

	reports := router.Group("/reports")
	reports.Use(middleware.OptionalAuthentication(config.AuthService))
	{
		reports.GET("", reportHandler.GetLatestReport)
		reports.POST("/update-kpis", reportHandler.UpdateKPIs)
		// GET alias so schedulers limited to plain fetches can trigger
		// the recompute too
		reports.GET("/update-kpis", reportHandler.UpdateKPIs)
		reports.GET("/trending-products", reportHandler.GetTrendingProducts)
		reports.GET("/history", reportHandler.GetKPIHistory)
	}
}

// healthHandler reports liveness plus store counters so operators can tell
// an empty snapshot store apart from a broken database.
func healthHandler(repos *repositories.RepositoryContainer) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload := gin.H{
			"status":  "healthy",
			"service": "eshop-reports-api",
			"version": "1.0.0",
		}

		if repos == nil {
			c.JSON(http.StatusOK, payload)
			return
		}

		ctx := c.Request.Context()

		orderCount, err := repos.OrderRepo.Count(ctx)
		if err != nil {
			unhealthy(c, err)
			return
		}
		customerCount, err := repos.CustomerRepo.Count(ctx)
		if err != nil {
			unhealthy(c, err)
			return
		}
		productCount, err := repos.ProductRepo.Count(ctx)
		if err != nil {
			unhealthy(c, err)
			return
		}
		snapshotCount, err := repos.SnapshotRepo.Count(ctx)
		if err != nil {
			unhealthy(c, err)
			return
		}

		now := time.Now().UTC()
		recentOrders, err := repos.OrderRepo.ListByDateRange(ctx, now.Add(-24*time.Hour), now)
		if err != nil {
			unhealthy(c, err)
			return
		}

		payload["stats"] = gin.H{
			"orders":     orderCount,
			"orders_24h": len(recentOrders),
			"customers":  customerCount,
			"products":   productCount,
			"snapshots":  snapshotCount,
		}
		c.JSON(http.StatusOK, payload)
	}
}

func unhealthy(c *gin.Context, err error) {
	c.JSON(http.StatusServiceUnavailable, gin.H{
		"status":  "unhealthy",
		"service": "eshop-reports-api",
		"error":   err.Error(),
	})
}

// SetupMiddleware configures global middleware
func SetupMiddleware(router *gin.Engine) {
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS())
	router.Use(middleware.SecurityHeaders())

	// Rate limiting (100 requests per second, burst of 200)
	router.Use(middleware.RateLimiter(100, 200))

	router.Use(middleware.StructuredLogger())

	// Flag recomputes that take longer than 5 seconds
	router.Use(middleware.PerformanceMonitor(5 * time.Second))
	router.Use(middleware.AuditLogger())

	router.Use(middleware.EnhancedErrorHandler())
}
