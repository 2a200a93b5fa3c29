package persistence

import (
	"context"
	"errors"

	"github.com/erp/backoffice/internal/domain/masterdata"
	"github.com/erp/backoffice/internal/domain/shared"
	"gorm.io/gorm"
)

// GormLookupRepository implements LookupRepository using GORM
type GormLookupRepository struct {
	db *gorm.DB
}

// NewGormLookupRepository creates a new GormLookupRepository
func NewGormLookupRepository(db *gorm.DB) *GormLookupRepository {
	return &GormLookupRepository{db: db}
}

// Countries returns all countries ordered by name
func (r *GormLookupRepository) Countries(ctx context.Context) ([]masterdata.Country, error) {
	var out []masterdata.Country
	err := conn(ctx, r.db).Order("country_name ASC").Find(&out).Error
	return out, err
}

// ContactTypes returns all contact types ordered by name
func (r *GormLookupRepository) ContactTypes(ctx context.Context) ([]masterdata.ContactType, error) {
	var out []masterdata.ContactType
	err := conn(ctx, r.db).Order("contact_type_name ASC").Find(&out).Error
	return out, err
}

// DocTypes returns all document types ordered by name
func (r *GormLookupRepository) DocTypes(ctx context.Context) ([]masterdata.DocType, error) {
	var out []masterdata.DocType
	err := conn(ctx, r.db).Order("doc_type_name ASC").Find(&out).Error
	return out, err
}

// FindCountry finds a country by its ID
func (r *GormLookupRepository) FindCountry(ctx context.Context, id int64) (*masterdata.Country, error) {
	return findOne[masterdata.Country](conn(ctx, r.db), "country_id = ?", id)
}

// FindContactType finds a contact type by its ID
func (r *GormLookupRepository) FindContactType(ctx context.Context, id int64) (*masterdata.ContactType, error) {
	return findOne[masterdata.ContactType](conn(ctx, r.db), "contact_type_id = ?", id)
}

// FindDocType finds a document type by its ID
func (r *GormLookupRepository) FindDocType(ctx context.Context, id int64) (*masterdata.DocType, error) {
	return findOne[masterdata.DocType](conn(ctx, r.db), "doc_type_id = ?", id)
}

func findOne[T any](db *gorm.DB, cond string, args ...any) (*T, error) {
	var out T
	if err := db.Where(cond, args...).First(&out).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}
