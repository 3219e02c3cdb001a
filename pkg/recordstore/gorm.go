package recordstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type collectionRow struct {
	Name      string    `gorm:"column:name;primaryKey;type:varchar(64)"`
	Data      string    `gorm:"column:data;type:text;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (collectionRow) TableName() string { return "collections" }

// GormBackend keeps one row per collection in a SQL database.
type GormBackend struct {
	db *gorm.DB
}

// NewGormBackend migrates the collections table and returns the backend.
func NewGormBackend(db *gorm.DB) (*GormBackend, error) {
	if db == nil {
		return nil, errors.New("recordstore: gorm db is required")
	}
	if err := db.AutoMigrate(&collectionRow{}); err != nil {
		return nil, fmt.Errorf("migrate collections table: %w", err)
	}
	return &GormBackend{db: db}, nil
}

func (b *GormBackend) Name() string { return "database" }

func (b *GormBackend) Read(ctx context.Context, collection string) ([]byte, error) {
	var row collectionRow
	err := b.db.WithContext(ctx).Where("name = ?", collection).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCollectionNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(row.Data), nil
}

func (b *GormBackend) Write(ctx context.Context, collection string, data []byte) error {
	row := collectionRow{
		Name:      collection,
		Data:      string(data),
		UpdatedAt: time.Now().UTC(),
	}
	return b.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&row).Error
}
