package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/amoylab/toolserver/internal/common/config"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DBStore implements the TodoStore interface using a database
type DBStore struct {
	logger *zap.Logger
	db     *gorm.DB
}

var _ TodoStore = (*DBStore)(nil)

// DatabaseType represents the supported database types
type DatabaseType string

const (
	PostgreSQL DatabaseType = "postgres"
	MySQL      DatabaseType = "mysql"
	SQLite     DatabaseType = "sqlite"
)

// ErrInvalidDatabaseType is returned when an invalid database type is provided
var ErrInvalidDatabaseType = gorm.ErrInvalidDB

// NewDBStore opens the configured database and migrates the todo table
func NewDBStore(logger *zap.Logger, cfg *config.DatabaseConfig) (*DBStore, error) {
	logger = logger.Named("storage.db")

	dsn, err := cfg.GetDSN()
	if err != nil {
		return nil, err
	}

	var dialector gorm.Dialector
	switch DatabaseType(cfg.Type) {
	case PostgreSQL:
		dialector = postgres.Open(dsn)
	case MySQL:
		dialector = mysql.Open(dsn)
	case SQLite:
		dialector = sqlite.Open(dsn)
	default:
		return nil, ErrInvalidDatabaseType
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Type, err)
	}

	if err := db.AutoMigrate(&Todo{}); err != nil {
		return nil, fmt.Errorf("failed to migrate todo table: %w", err)
	}

	logger.Info("database ready", zap.String("type", cfg.Type))
	return &DBStore{
		logger: logger,
		db:     db,
	}, nil
}

// List implements TodoStore.List
func (s *DBStore) List(ctx context.Context) ([]*Todo, error) {
	var todos []*Todo
	result := s.db.WithContext(ctx).Order("created_at, id").Find(&todos)
	if result.Error != nil {
		return nil, result.Error
	}
	return todos, nil
}

// Get implements TodoStore.Get
func (s *DBStore) Get(ctx context.Context, id string) (*Todo, error) {
	var todo Todo
	result := s.db.WithContext(ctx).Where("id = ?", id).First(&todo)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrTodoNotFound, id)
		}
		return nil, result.Error
	}
	return &todo, nil
}

// Create implements TodoStore.Create
func (s *DBStore) Create(ctx context.Context, todo *Todo) error {
	if todo.Priority == 0 {
		todo.Priority = DefaultPriority
	}
	return s.db.WithContext(ctx).Create(todo).Error
}

// Update implements TodoStore.Update
func (s *DBStore) Update(ctx context.Context, todo *Todo) error {
	result := s.db.WithContext(ctx).Model(&Todo{}).Where("id = ?", todo.ID).Updates(map[string]any{
		"title":       todo.Title,
		"description": todo.Description,
		"is_done":     todo.IsDone,
		"priority":    todo.Priority,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrTodoNotFound, todo.ID)
	}
	return nil
}

// Delete implements TodoStore.Delete
func (s *DBStore) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&Todo{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrTodoNotFound, id)
	}
	return nil
}

// Close releases the underlying connection pool
func (s *DBStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
