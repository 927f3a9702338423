package database

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"anchor-sync/internal/config"

	_ "github.com/lib/pq"
	"go.uber.org/fx"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// Models lists every table the service owns. The app module supplies it so
// this package does not import the feature packages.
type Models []any

// NewDatabase opens the configured store with lifecycle management
func NewDatabase(lc fx.Lifecycle, cfg *config.Config, models Models) (*gorm.DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := Open(ctx, cfg.DBDriver, cfg.DBDSN, models...)
	if err != nil {
		return nil, err
	}

	log.Printf("Connected to %s database!", db.Dialector.Name())

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Println("Closing database connection...")
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})

	return db, nil
}

// Open connects, pings and auto-migrates models without fx. Used by tests and tools.
func Open(ctx context.Context, driver, dsn string, models ...any) (*gorm.DB, error) {
	dialector, err := Dialector(driver, dsn)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, initConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if dialector.Name() == "sqlite" {
		// sqlite serialises writers; a single connection avoids SQLITE_BUSY
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
	}

	if len(models) > 0 {
		if err := db.WithContext(ctx).AutoMigrate(models...); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}
	return db, nil
}

// Dialector picks the gorm driver for a DB_DRIVER value.
func Dialector(driver, dsn string) (gorm.Dialector, error) {
	switch strings.ToLower(driver) {
	case "", DriverSQLite, "sqlite":
		ensureDir(dsn)
		return sqlite.Open(dsn), nil
	case DriverPostgres, "postgresql":
		return postgres.New(postgres.Config{DriverName: DriverPostgres, DSN: dsn}), nil
	case DriverMySQL:
		return mysql.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
}

func initConfig() *gorm.Config {
	return &gorm.Config{
		Logger: initLog(),
	}
}

func initLog() logger.Interface {
	return logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Error,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

func ensureDir(dsn string) {
	if dsn == "" || strings.HasPrefix(dsn, ":") || strings.HasPrefix(dsn, "file:") {
		return
	}
	if dir := filepath.Dir(dsn); dir != "." {
		_ = os.MkdirAll(dir, 0o755)
	}
}
