package storage

import (
	"credential-registry/pkg/logger"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func dialector(config DatabaseConfig) (gorm.Dialector, error) {
	switch config.Driver {
	case DriverSqlite:
		return sqlite.Open(config.ConnectionString), nil
	case DriverPostgres:
		return postgres.Open(config.ConnectionString), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", config.Driver)
	}
}

// ConnectToDatabase opens the configured database and, if enabled, runs
// the schema migrations.
func ConnectToDatabase(config DatabaseConfig) (*gorm.DB, error) {
	dbLogger := logger.Default()
	dbLogger.Infof("Establishing connection to %s database...", config.Driver)

	d, err := dialector(config)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(d, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", config.Driver, err)
	}

	if config.Driver == DriverSqlite {
		// a single writer keeps sqlite from returning SQLITE_BUSY
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if config.Migrate {
		if err := AutoMigrate(db); err != nil {
			return nil, err
		}
	}

	dbLogger.Info("Database connection established successfully.")
	return db, nil
}

func AutoMigrate(db *gorm.DB) error {
	migrationLogger := logger.Default()
	migrationLogger.Info("Running migrations for tables... ")

	err := db.AutoMigrate(
		&EpochRecord{},
		&NullifierRecord{},
		&VerifierBindingRecord{},
		&EventRecord{},
	)
	if err != nil {
		return fmt.Errorf("migrate registry tables: %w", err)
	}

	migrationLogger.Info("All tables created (or already exist).")
	return nil
}
