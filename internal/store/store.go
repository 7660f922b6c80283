package store

import (
	"errors"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"ecal/internal/model"
)

// ErrNotFound is returned when a row does not resolve.
var ErrNotFound = errors.New("not found")

// Store provides access to all planner tables in a single SQLite file.
type Store struct {
	db *gorm.DB
}

// Open opens (or creates) the SQLite database at path and runs
// migrations. ":memory:" is supported for tests.
func Open(path string, debug bool) (*Store, error) {
	logLevel := logger.Silent
	if debug {
		logLevel = logger.Info
	}

	dsn := path
	if path != ":memory:" {
		// SQLite ships with foreign keys off.
		dsn = path + "?_foreign_keys=on"
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(
		&model.Event{},
		&model.Chore{},
		&model.TodoList{},
		&model.TodoItem{},
		&model.Category{},
		&model.CalendarSync{},
	); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	return sqlDB.Close()
}

// wrapErr maps gorm's record-not-found onto ErrNotFound and annotates
// everything else with the operation name.
func wrapErr(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
