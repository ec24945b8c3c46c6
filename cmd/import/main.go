package main

import (
	"flag"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"eshop-reports-api/internal/database"
	"eshop-reports-api/internal/migration"
)

func main() {
	var (
		dbPath         = flag.String("db", "./data/eshop.db", "Database file path")
		migrationsPath = flag.String("migrations", "./migrations", "Migrations directory path")
		jsonPath       = flag.String("json", "./data/dumps", "Directory containing the JSON dumps")
		verbose        = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	logger := logrus.New()
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	absDBPath, err := filepath.Abs(*dbPath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to get absolute database path")
	}

	absJSONPath, err := filepath.Abs(*jsonPath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to get absolute dump path")
	}

	logger.WithFields(logrus.Fields{
		"db_path":   absDBPath,
		"json_path": absJSONPath,
	}).Info("Starting JSON import tool")

	config := &database.ConnectionConfig{
		DatabasePath:   absDBPath,
		MigrationsPath: *migrationsPath,
		MaxOpenConns:   1,
		MaxIdleConns:   1,
		AutoMigrate:    true,
		Logger:         logger,
	}

	connectionManager := database.NewConnectionManager(config)
	if err := connectionManager.Connect(); err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	defer connectionManager.Close()

	importer := migration.NewJSONImporter(connectionManager.GetDB(), absJSONPath, logger)

	result, err := importer.ImportAll()
	if err != nil {
		logger.WithError(err).Fatal("Import failed")
	}

	for _, warning := range result.Warnings {
		logger.Warn(warning)
	}

	logger.WithFields(logrus.Fields{
		"customers": result.CustomersImported,
		"products":  result.ProductsImported,
		"orders":    result.OrdersImported,
		"items":     result.ItemsImported,
	}).Info("Import completed successfully")
}
