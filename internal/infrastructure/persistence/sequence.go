package persistence

import (
	"context"
	"fmt"

	"github.com/erp/backoffice/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DocumentSequence stores the last number issued per series
type DocumentSequence struct {
	Series    string `gorm:"primaryKey;size:10"`
	LastValue int64  `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (DocumentSequence) TableName() string {
	return "document_sequences"
}

// GormNumberGenerator implements shared.NumberGenerator on document_sequences
type GormNumberGenerator struct {
	db *gorm.DB
}

// NewGormNumberGenerator creates a new GormNumberGenerator
func NewGormNumberGenerator(db *gorm.DB) *GormNumberGenerator {
	return &GormNumberGenerator{db: db}
}

// Next increments the series counter and formats it as SERIES-000001.
// The increment happens in the caller's transaction when there is one.
func (g *GormNumberGenerator) Next(ctx context.Context, series shared.NumberSeries) (string, error) {
	var value int64
	err := withinTx(ctx, g.db, func(ctx context.Context) error {
		db := conn(ctx, g.db)
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&DocumentSequence{Series: string(series)}).Error; err != nil {
			return err
		}
		if err := db.Model(&DocumentSequence{}).
			Where("series = ?", series).
			Update("last_value", gorm.Expr("last_value + 1")).Error; err != nil {
			return err
		}
		return db.Model(&DocumentSequence{}).
			Where("series = ?", series).
			Pluck("last_value", &value).Error
	})
	if err != nil {
		return "", fmt.Errorf("next %s number: %w", series, err)
	}
	return fmt.Sprintf("%s-%06d", series, value), nil
}
