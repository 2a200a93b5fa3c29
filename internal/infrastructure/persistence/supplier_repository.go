package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/erp/backoffice/internal/domain/partner"
	"github.com/erp/backoffice/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var supplierList = listQuery{
	searchColumns: []string{"supplier_code", "supplier_name", "tax_reg_no", "contact_person"},
	sortFields:    SupplierSortFields,
	defaultSort:   "supplier_id",
	hasIsActive:   true,
}

// GormSupplierRepository implements SupplierRepository using GORM
type GormSupplierRepository struct {
	db *gorm.DB
}

// NewGormSupplierRepository creates a new GormSupplierRepository
func NewGormSupplierRepository(db *gorm.DB) *GormSupplierRepository {
	return &GormSupplierRepository{db: db}
}

// FindByID finds a supplier with its contacts
func (r *GormSupplierRepository) FindByID(ctx context.Context, id int64) (*partner.Supplier, error) {
	var supplier partner.Supplier
	if err := conn(ctx, r.db).Preload("Contacts").First(&supplier, "supplier_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &supplier, nil
}

// FindAll finds one page of suppliers matching the filter
func (r *GormSupplierRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Supplier, int64, error) {
	return findPage[partner.Supplier](conn(ctx, r.db), supplierList, filter)
}

// Search returns active suppliers matching text for pickers
func (r *GormSupplierRepository) Search(ctx context.Context, text string, limit int) ([]partner.Supplier, error) {
	var suppliers []partner.Supplier
	query := whereContains(conn(ctx, r.db).Where("is_active = ?", true), text, "supplier_code", "supplier_name", "tax_reg_no")
	if err := query.Order("supplier_name ASC").Limit(limit).Find(&suppliers).Error; err != nil {
		return nil, err
	}
	return suppliers, nil
}

// ExistsByCode reports whether another supplier uses code
func (r *GormSupplierRepository) ExistsByCode(ctx context.Context, code string, excludeID int64) (bool, error) {
	var count int64
	err := conn(ctx, r.db).Model(&partner.Supplier{}).
		Where("supplier_code = ? AND supplier_id <> ?", strings.ToUpper(code), excludeID).
		Count(&count).Error
	return count > 0, err
}

// Save creates or updates a supplier and replaces its contacts
func (r *GormSupplierRepository) Save(ctx context.Context, supplier *partner.Supplier) error {
	return withinTx(ctx, r.db, func(ctx context.Context) error {
		db := conn(ctx, r.db)
		if err := db.Omit(clause.Associations).Save(supplier).Error; err != nil {
			return err
		}
		return replaceContacts(db, partner.OwnerSupplier, supplier.SupplierID, supplier.Contacts)
	})
}

// Delete deletes a supplier and its contacts
func (r *GormSupplierRepository) Delete(ctx context.Context, id int64) error {
	return withinTx(ctx, r.db, func(ctx context.Context) error {
		db := conn(ctx, r.db)
		if err := deleteContacts(db, partner.OwnerSupplier, id); err != nil {
			return err
		}
		result := db.Delete(&partner.Supplier{}, "supplier_id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}
