package db

import (
	"sync"

	"github.com/caesium-cloud/relay/internal/models"
	"github.com/caesium-cloud/relay/pkg/env"
	"github.com/caesium-cloud/relay/pkg/log"
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var (
	conn     *gorm.DB
	connOnce sync.Once
)

// Connection returns the process-wide database handle, opening it
// on first use from the configured environment.
func Connection() *gorm.DB {
	connOnce.Do(func() {
		vars := env.Variables()

		gdb, err := Open(vars.DatabaseType, vars.DatabaseDSN)
		if err != nil {
			log.Fatal("failed to connect to database", "type", vars.DatabaseType, "error", err)
		}

		conn = gdb
	})

	return conn
}

// Open connects to the database of the given type. Supported
// types are "sqlite" and "postgres".
func Open(dbType, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch dbType {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite", "":
		dialector = sqlite.Open(dsn)
	default:
		return nil, errors.Errorf("unsupported database type: %v", dbType)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{Logger: &Logger{}})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}

	return gdb, nil
}

// Migrate applies the schema for every model to the connection.
func Migrate() error {
	return MigrateDB(Connection())
}

// MigrateDB applies the schema for every model to the given handle.
func MigrateDB(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(models.All...); err != nil {
		return errors.Wrap(err, "failed to migrate database")
	}

	return nil
}
