package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// SavedFilter is one persisted filter state. Payload holds the JSON blob;
// Tags and SortBy are copied out of it so they can be queried directly.
type SavedFilter struct {
	Key       string         `gorm:"primaryKey"`
	Payload   string         `gorm:"type:jsonb;not null"`
	Tags      pq.StringArray `gorm:"type:text[];not null;default:'{}'"`
	SortBy    string         `gorm:"not null"`
	UpdatedAt time.Time
}

func (s *SavedFilter) TableName() string {
	return "saved_filters"
}

// OpenPostgres connects gorm to the database at dsn.
func OpenPostgres(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}
	return db, nil
}

// FiltersRepository persists filter state in postgres under a single key.
type FiltersRepository struct {
	db  *gorm.DB
	key string
}

func NewFiltersRepository(db *gorm.DB, key string) *FiltersRepository {
	return &FiltersRepository{
		db:  db,
		key: key,
	}
}

// Migrate creates or updates the saved_filters table.
func (r *FiltersRepository) Migrate() error {
	if err := r.db.AutoMigrate(&SavedFilter{}); err != nil {
		return fmt.Errorf("failed to migrate saved_filters: %w", err)
	}
	return nil
}

func (r *FiltersRepository) Load(ctx context.Context) (FilterPatch, error) {
	var row SavedFilter
	if err := r.db.WithContext(ctx).
		Where("key = ?", r.key).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return FilterPatch{}, ErrStateNotFound
		}
		return FilterPatch{}, err
	}
	return DecodeFilterPatch([]byte(row.Payload))
}

func (r *FiltersRepository) Save(ctx context.Context, state FilterState) error {
	data, err := encodeFilterState(state)
	if err != nil {
		return err
	}

	tags := make(pq.StringArray, len(state.Tags))
	for i, t := range state.Tags {
		tags[i] = string(t)
	}

	row := SavedFilter{
		Key:       r.key,
		Payload:   string(data),
		Tags:      tags,
		SortBy:    string(state.SortBy),
		UpdatedAt: time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "tags", "sort_by", "updated_at"}),
		}).
		Create(&row).Error; err != nil {
		return fmt.Errorf("failed to save filter state: %w", err)
	}
	return nil
}
