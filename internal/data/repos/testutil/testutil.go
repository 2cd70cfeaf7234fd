// Package testutil backs the repo and service integration tests. Tests run
// against a real Postgres pointed at by TEST_POSTGRES_DSN and skip without
// one: the schema leans on uuid_generate_v4() defaults and ON CONFLICT
// semantics that an embedded database does not reproduce.
package testutil

import (
	"errors"
	"os"
	"sync"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	dbpkg "github.com/rulemine/rulemine-backend/internal/data/db"
	"github.com/rulemine/rulemine-backend/internal/pkg/logger"
)

const dsnEnv = "TEST_POSTGRES_DSN"

var errNoDSN = errors.New(dsnEnv + " not set")

var shared struct {
	once sync.Once
	db   *gorm.DB
	err  error

	logOnce sync.Once
	log     *logger.Logger
	logErr  error
}

// Logger returns the shared test logger.
func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	shared.logOnce.Do(func() {
		shared.log, shared.logErr = logger.New("test")
	})
	if shared.logErr != nil {
		tb.Fatalf("test logger setup: %v", shared.logErr)
	}
	return shared.log
}

// DB returns the shared migrated test database, skipping the test when no
// DSN is configured.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()
	ensure(tb)
	return shared.db
}

// Tx wraps the test in a transaction rolled back on cleanup, so tests on the
// shared database cannot see each other's rows.
func Tx(tb testing.TB, db *gorm.DB) *gorm.DB {
	tb.Helper()
	tx := db.Begin()
	if tx.Error != nil {
		tb.Fatalf("begin tx: %v", tx.Error)
	}
	tb.Cleanup(func() {
		_ = tx.Rollback().Error
	})
	return tx
}

func ensure(tb testing.TB) {
	tb.Helper()
	shared.once.Do(func() {
		shared.db, shared.err = open()
	})
	if errors.Is(shared.err, errNoDSN) {
		tb.Skipf("set %s to run integration tests", dsnEnv)
	}
	if shared.err != nil {
		tb.Fatalf("test db setup: %v", shared.err)
	}
}

func open() (*gorm.DB, error) {
	dsn := os.Getenv(dsnEnv)
	if dsn == "" {
		return nil, errNoDSN
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
		Logger:                                   gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		return nil, err
	}
	if err := dbpkg.AutoMigrateAll(db); err != nil {
		return nil, err
	}
	return db, nil
}
