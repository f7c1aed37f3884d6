package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/user/tubevibes/internal/config"
	"github.com/user/tubevibes/internal/model"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// replaceColumns are overwritten by Replace; id and seq never change
var replaceColumns = []string{
	"title", "description", "thumbnail_url", "video_url", "upload_date", "views", "duration",
}

// GormStore implements Store on top of a SQL database through gorm
type GormStore struct {
	db *gorm.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at path
func NewSQLiteStore(path string, seed []model.Video) (*GormStore, error) {
	return newGormStore(sqlite.Open(path), seed, 1)
}

// NewMySQLStore connects to MySQL using cfg
func NewMySQLStore(cfg *config.DBConfig, seed []model.Video) (*GormStore, error) {
	return newGormStore(mysql.Open(cfg.DSN()), seed, cfg.MaxConns)
}

func newGormStore(dialector gorm.Dialector, seed []model.Video, maxConns int) (*GormStore, error) {
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	if maxConns > 0 {
		sqlDB.SetMaxOpenConns(maxConns)
		sqlDB.SetMaxIdleConns((maxConns + 1) / 2)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&model.Video{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	s := &GormStore{db: db}
	if err := s.seed(context.Background(), seed); err != nil {
		return nil, err
	}
	return s, nil
}

// seed inserts the sample catalog when the table is empty
func (s *GormStore) seed(ctx context.Context, seed []model.Video) error {
	if len(seed) == 0 {
		return nil
	}
	count, err := s.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	for i := range seed {
		if err := s.Insert(ctx, &seed[i]); err != nil {
			return fmt.Errorf("failed to seed video %q: %w", seed[i].ID, err)
		}
	}
	return nil
}

// List returns all videos ordered by insertion
func (s *GormStore) List(ctx context.Context) ([]*model.Video, error) {
	var videos []*model.Video
	result := s.db.WithContext(ctx).Order("seq ASC").Find(&videos)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list videos: %w", result.Error)
	}
	return videos, nil
}

// Get retrieves a video by id
func (s *GormStore) Get(ctx context.Context, id string) (*model.Video, error) {
	var video model.Video
	result := s.db.WithContext(ctx).Where("id = ?", id).First(&video)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get video by id: %w", result.Error)
	}
	return &video, nil
}

// Insert appends a video, assigning the next sequence number
func (s *GormStore) Insert(ctx context.Context, video *model.Video) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exists int64
		if err := tx.Model(&model.Video{}).Where("id = ?", video.ID).Count(&exists).Error; err != nil {
			return fmt.Errorf("failed to check video existence: %w", err)
		}
		if exists > 0 {
			return fmt.Errorf("failed to insert video %q: %w", video.ID, ErrDuplicateID)
		}

		var maxSeq int64
		if err := tx.Model(&model.Video{}).Select("COALESCE(MAX(seq), 0)").Scan(&maxSeq).Error; err != nil {
			return fmt.Errorf("failed to read sequence: %w", err)
		}

		row := video.Clone()
		row.Seq = maxSeq + 1
		if err := tx.Create(row).Error; err != nil {
			return fmt.Errorf("failed to save video: %w", err)
		}
		video.Seq = row.Seq
		return nil
	})
}

// Replace overwrites every mutable column of an existing video
func (s *GormStore) Replace(ctx context.Context, video *model.Video) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exists int64
		if err := tx.Model(&model.Video{}).Where("id = ?", video.ID).Count(&exists).Error; err != nil {
			return fmt.Errorf("failed to check video existence: %w", err)
		}
		if exists == 0 {
			return fmt.Errorf("failed to replace video %q: %w", video.ID, ErrNotFound)
		}

		result := tx.Model(&model.Video{}).
			Where("id = ?", video.ID).
			Select(replaceColumns).
			Updates(video)
		if result.Error != nil {
			return fmt.Errorf("failed to replace video: %w", result.Error)
		}
		return nil
	})
}

// Delete removes a video by id
func (s *GormStore) Delete(ctx context.Context, id string) (bool, error) {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Video{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete video: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Count returns the total count of videos
func (s *GormStore) Count(ctx context.Context) (int64, error) {
	var count int64
	result := s.db.WithContext(ctx).Model(&model.Video{}).Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to count videos: %w", result.Error)
	}
	return count, nil
}

// Ping checks database connectivity
func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying db: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the database connection
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying db: %w", err)
	}
	return sqlDB.Close()
}
