package server

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"eshop-reports-api/internal/archive"
	"eshop-reports-api/internal/config"
	"eshop-reports-api/internal/database"
	"eshop-reports-api/internal/middleware"
	"eshop-reports-api/internal/repositories"
	"eshop-reports-api/internal/repositories/sqlite"
	"eshop-reports-api/internal/services"
)

// Container holds all application dependencies
type Container struct {
	Config        *config.Config
	Logger        *logrus.Logger
	ReportService services.ReportService
	AuthService   *middleware.AuthService
	Repos         *repositories.RepositoryContainer

	connManager  *database.ConnectionManager
	archiveStore archive.Store
	services     *services.ServiceContainer
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config) (*Container, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	if err := cfg.Database.Validate(); err != nil {
		return nil, fmt.Errorf("invalid database configuration: %w", err)
	}

	connManager := database.NewConnectionManager(&database.ConnectionConfig{
		DatabasePath:    cfg.Database.Path,
		MigrationsPath:  cfg.Database.MigrationsPath,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		AutoMigrate:     cfg.Database.AutoMigrate,
		Logger:          logger,
	})

	if err := connManager.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := connManager.GetDB()
	repos := &repositories.RepositoryContainer{
		OrderRepo:    sqlite.NewOrderRepository(db, logger),
		CustomerRepo: sqlite.NewCustomerRepository(db, logger),
		ProductRepo:  sqlite.NewProductRepository(db, logger),
		SnapshotRepo: sqlite.NewSnapshotRepository(db, logger),
	}

	var archiveStore archive.Store
	if cfg.Archive.Enabled {
		store, err := archive.NewStore(&archive.Config{
			Type:       cfg.Archive.Type,
			BasePath:   cfg.Archive.Path,
			MaxRetries: cfg.Archive.MaxRetries,
		}, logger)
		if err != nil {
			connManager.Close()
			return nil, fmt.Errorf("failed to create archive store: %w", err)
		}
		archiveStore = store
	}

	serviceContainer := services.NewServiceContainer(repos, archiveStore, logger)

	authService := middleware.NewAuthService(&middleware.AuthConfig{
		JWTSecret:     cfg.JWT.Secret,
		TokenDuration: time.Duration(cfg.JWT.ExpiryHours) * time.Hour,
	})

	return &Container{
		Config:        cfg,
		Logger:        logger,
		ReportService: serviceContainer.ReportService,
		AuthService:   authService,
		Repos:         repos,
		connManager:   connManager,
		archiveStore:  archiveStore,
		services:      serviceContainer,
	}, nil
}

// HealthCheck verifies the container dependencies are usable
func (c *Container) HealthCheck() error {
	if c.connManager == nil {
		return fmt.Errorf("database connection not initialized")
	}
	return c.connManager.HealthCheck()
}

// Close cleans up all resources
func (c *Container) Close() error {
	if c.archiveStore != nil {
		if err := c.archiveStore.Close(); err != nil {
			return fmt.Errorf("failed to close archive store: %w", err)
		}
	}

	if c.connManager != nil {
		if err := c.connManager.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}
	return nil
}
