package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/erp/backoffice/internal/domain/masterdata"
	"github.com/erp/backoffice/internal/domain/partner"
	"github.com/erp/backoffice/internal/domain/shared"
	"gorm.io/gorm"
)

var cityList = listQuery{
	searchColumns: []string{"city_code", "city_name", "country_name"},
	sortFields:    CitySortFields,
	defaultSort:   "city_name",
	hasIsActive:   true,
}

// GormCityRepository implements CityRepository using GORM
type GormCityRepository struct {
	db *gorm.DB
}

// NewGormCityRepository creates a new GormCityRepository
func NewGormCityRepository(db *gorm.DB) *GormCityRepository {
	return &GormCityRepository{db: db}
}

// FindByID finds a city by its ID
func (r *GormCityRepository) FindByID(ctx context.Context, id int64) (*masterdata.City, error) {
	var city masterdata.City
	if err := conn(ctx, r.db).First(&city, "city_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &city, nil
}

// FindAll finds one page of cities matching the filter
func (r *GormCityRepository) FindAll(ctx context.Context, filter shared.Filter) ([]masterdata.City, int64, error) {
	return findPage[masterdata.City](conn(ctx, r.db), cityList, filter)
}

// FindByCountry returns the active cities of a country ordered by name
func (r *GormCityRepository) FindByCountry(ctx context.Context, countryID int64) ([]masterdata.City, error) {
	var cities []masterdata.City
	if err := conn(ctx, r.db).
		Where("country_id = ? AND is_active = ?", countryID, true).
		Order("city_name ASC").
		Find(&cities).Error; err != nil {
		return nil, err
	}
	return cities, nil
}

// Search returns active cities matching text for pickers
func (r *GormCityRepository) Search(ctx context.Context, text string, limit int) ([]masterdata.City, error) {
	var cities []masterdata.City
	query := whereContains(conn(ctx, r.db).Where("is_active = ?", true), text, "city_code", "city_name")
	if err := query.Order("city_name ASC").Limit(limit).Find(&cities).Error; err != nil {
		return nil, err
	}
	return cities, nil
}

// ExistsByCode reports whether another city uses code
func (r *GormCityRepository) ExistsByCode(ctx context.Context, code string, excludeID int64) (bool, error) {
	var count int64
	err := conn(ctx, r.db).Model(&masterdata.City{}).
		Where("city_code = ? AND city_id <> ?", strings.ToUpper(code), excludeID).
		Count(&count).Error
	return count > 0, err
}

// IsReferenced reports whether a customer or supplier points at the city
func (r *GormCityRepository) IsReferenced(ctx context.Context, id int64) (bool, error) {
	db := conn(ctx, r.db)
	var count int64
	if err := db.Model(&partner.Customer{}).Where("city_id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}
	if err := db.Model(&partner.Supplier{}).Where("city_id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a city
func (r *GormCityRepository) Save(ctx context.Context, city *masterdata.City) error {
	return conn(ctx, r.db).Save(city).Error
}

// Delete deletes a city
func (r *GormCityRepository) Delete(ctx context.Context, id int64) error {
	result := conn(ctx, r.db).Delete(&masterdata.City{}, "city_id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
