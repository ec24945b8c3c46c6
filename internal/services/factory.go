package services

import (
	"eshop-reports-api/internal/archive"
	"eshop-reports-api/internal/repositories"

	"github.com/sirupsen/logrus"
)

// ServiceContainer holds all service instances
type ServiceContainer struct {
	ReportService ReportService
}

// NewServiceContainer creates a new service container with all services
// wired. archiveStore may be nil to disable snapshot archiving.
func NewServiceContainer(repos *repositories.RepositoryContainer, archiveStore archive.Store, logger *logrus.Logger) *ServiceContainer {
	return &ServiceContainer{
		ReportService: NewReportService(
			repos.OrderRepo,
			repos.CustomerRepo,
			repos.ProductRepo,
			repos.SnapshotRepo,
			archiveStore,
			logger,
		),
	}
}
