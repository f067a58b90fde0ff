package database

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/iliyamo/movie-ticketing/internal/config"
	"github.com/iliyamo/movie-ticketing/internal/model"
)

// Open connects to the configured database, verifies the connection and
// returns a GORM handle.  Driver errors are translated into gorm's
// portable sentinels (ErrDuplicatedKey, ErrForeignKeyViolated).
func Open(cfg config.Config, log hclog.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case config.DriverSQLite:
		dialector = sqlite.Open(SQLiteDSN(cfg.DBPath))
	default:
		auth := cfg.DBUser
		if cfg.DBPass != "" {
			auth = fmt.Sprintf("%s:%s", cfg.DBUser, cfg.DBPass)
		}
		// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
		dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
			auth, cfg.DBHost, cfg.DBPort, cfg.DBName)
		dialector = mysql.Open(dsn)
	}

	level := logger.Warn
	if cfg.Env == "dev" {
		level = logger.Info
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger: logger.New(
			log.StandardLogger(&hclog.StandardLoggerOptions{InferLevels: true}),
			logger.Config{
				SlowThreshold:             200 * time.Millisecond,
				LogLevel:                  level,
				IgnoreRecordNotFoundError: true,
			},
		),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// Pool settings
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, err
	}
	return db, nil
}

// SQLiteDSN turns a file path into a DSN with foreign key enforcement on.
func SQLiteDSN(path string) string {
	return "file:" + path + "?_foreign_keys=on&_busy_timeout=5000"
}

// Migrate creates or updates the five tables with their foreign keys,
// cascade rules and the unique indexes on users.  On MySQL the username
// and email columns are switched to a binary collation so "Alice" and
// "alice" are distinct accounts, as they are on SQLite.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.Movie{},
		&model.Theatre{},
		&model.Ticket{},
		&model.Review{},
	); err != nil {
		return err
	}
	if db.Dialector.Name() != "mysql" {
		return nil
	}
	for _, stmt := range binaryCollationDDL() {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("set binary collation: %w", err)
		}
	}
	return nil
}

// binaryCollationDDL lists the MySQL statements that make the unique user
// columns compare byte-for-byte instead of through the default _ci collation.
func binaryCollationDDL() []string {
	return []string{
		"ALTER TABLE users MODIFY username VARCHAR(191) NOT NULL COLLATE utf8mb4_bin",
		"ALTER TABLE users MODIFY email VARCHAR(191) NOT NULL COLLATE utf8mb4_bin",
	}
}

// Ping reports whether the underlying pool answers within ctx.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
