package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

const defaultListLimit = 50

type gormStore struct {
	db      *gorm.DB
	closeFn func()
}

var _ Store = (*gormStore)(nil)

// OpenPostgres connects through a pgx pool and migrates the schema.
func OpenPostgres(ctx context.Context, url string, log *zap.Logger) (Store, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	sqlDB := stdlib.OpenDBFromPool(pool)
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), gormConfig())
	if err != nil {
		sqlDB.Close()
		pool.Close()
		return nil, fmt.Errorf("open gorm postgres: %w", err)
	}
	log.Info("connected to postgres", zap.Int32("max_conns", pool.Config().MaxConns))

	return migrate(db, func() {
		sqlDB.Close()
		pool.Close()
	})
}

// OpenSQLite opens a local database file; ":memory:" works for tests.
func OpenSQLite(path string, log *zap.Logger) (Store, error) {
	db, err := gorm.Open(sqlite.Open(path), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite handle: %w", err)
	}
	// one connection keeps an in-memory database alive and shared
	sqlDB.SetMaxOpenConns(1)
	log.Info("using sqlite store", zap.String("path", path))

	return migrate(db, func() { sqlDB.Close() })
}

func gormConfig() *gorm.Config {
	return &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
}

func migrate(db *gorm.DB, closeFn func()) (Store, error) {
	if err := db.AutoMigrate(&SavedDraft{}); err != nil {
		closeFn()
		return nil, fmt.Errorf("migrate saved drafts: %w", err)
	}
	return &gormStore{db: db, closeFn: closeFn}, nil
}

// Save upserts by ID; a repeat save only refreshes the label. d is reloaded
// from the stored row, so CreatedAt reflects the first save.
func (s *gormStore) Save(ctx context.Context, d *SavedDraft) error {
	db := s.db.WithContext(ctx)
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"label", "updated_at"}),
	}).Create(d).Error
	if err != nil {
		return fmt.Errorf("save draft %s: %w", d.ID, err)
	}
	if err := db.First(d, "id = ?", d.ID).Error; err != nil {
		return fmt.Errorf("reload draft %s: %w", d.ID, err)
	}
	return nil
}

func (s *gormStore) Get(ctx context.Context, id string) (*SavedDraft, error) {
	var d SavedDraft
	err := s.db.WithContext(ctx).First(&d, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get draft %s: %w", id, err)
	}
	return &d, nil
}

// List returns the newest drafts first.
func (s *gormStore) List(ctx context.Context, limit int) ([]SavedDraft, error) {
	if limit <= 0 || limit > defaultListLimit {
		limit = defaultListLimit
	}
	var out []SavedDraft
	err := s.db.WithContext(ctx).Order("created_at DESC").Order("id").Limit(limit).Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list drafts: %w", err)
	}
	return out, nil
}

func (s *gormStore) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&SavedDraft{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete draft %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormStore) Close() error {
	s.closeFn()
	return nil
}
