package sqldb

import (
	"fmt"
	"log"

	"gorm.io/driver/clickhouse"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type SQLDbConfigModel struct {
	Driver string // postgres, mysql or clickhouse
	DSN    string
}

// InitializeDatabaseConnection opens the relational store used for
// alerts and water telemetry. The driver is picked by config so the
// same deployment can point at a transactional or an analytical store.
func InitializeDatabaseConnection(config SQLDbConfigModel) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch config.Driver {
	case "postgres":
		dialector = postgres.Open(config.DSN)
	case "mysql":
		dialector = mysql.Open(config.DSN)
	case "clickhouse":
		dialector = clickhouse.Open(config.DSN)
	default:
		return nil, fmt.Errorf("unsupported SQL driver: %s", config.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %v", config.Driver, err)
	}

	log.Printf("✨ Connected to %s.", config.Driver)
	return db, nil
}

// AutoMigrate creates or updates the tables for the given models.
func AutoMigrate(db *gorm.DB, models ...interface{}) error {
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto migration failed: %v", err)
	}
	return nil
}
