package database

import (
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"fuzzplot/config"
)

// NewDBConnection opens the sample archive. Archiving is optional: without
// DATABASE_URL, or when the database is unreachable, it returns nil.
func NewDBConnection(appConfig *config.AppConfig, logger *zap.Logger) *gorm.DB {
	connectionString := appConfig.DatabaseURL
	if connectionString == "" {
		return nil
	}
	db, err := gorm.Open(postgres.Open(connectionString), &gorm.Config{})
	if err != nil {
		logger.Warn("failed to connect database, archiving disabled", zap.Error(err))
		return nil
	}
	if err := db.AutoMigrate(&PlotRun{}, &MetricSample{}); err != nil {
		logger.Warn("failed to migrate database, archiving disabled", zap.Error(err))
		return nil
	}
	logger.Debug("connected to database")
	return db
}
