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

var customerList = listQuery{
	searchColumns: []string{"customer_code", "full_name", "tax_reg_no", "email"},
	sortFields:    CustomerSortFields,
	defaultSort:   "customer_id",
	hasIsActive:   true,
}

// GormCustomerRepository implements CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByID finds a customer with its contacts
func (r *GormCustomerRepository) FindByID(ctx context.Context, id int64) (*partner.Customer, error) {
	var customer partner.Customer
	if err := conn(ctx, r.db).Preload("Contacts").First(&customer, "customer_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &customer, nil
}

// FindAll finds one page of customers matching the filter
func (r *GormCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Customer, int64, error) {
	return findPage[partner.Customer](conn(ctx, r.db), customerList, filter)
}

// Search returns active customers matching text for pickers
func (r *GormCustomerRepository) Search(ctx context.Context, text string, limit int) ([]partner.Customer, error) {
	var customers []partner.Customer
	query := whereContains(conn(ctx, r.db).Where("is_active = ?", true), text, "customer_code", "full_name", "tax_reg_no")
	if err := query.Order("full_name ASC").Limit(limit).Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

// ExistsByCode reports whether another customer uses code
func (r *GormCustomerRepository) ExistsByCode(ctx context.Context, code string, excludeID int64) (bool, error) {
	var count int64
	err := conn(ctx, r.db).Model(&partner.Customer{}).
		Where("customer_code = ? AND customer_id <> ?", strings.ToUpper(code), excludeID).
		Count(&count).Error
	return count > 0, err
}

// Save creates or updates a customer and replaces its contacts
func (r *GormCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	return withinTx(ctx, r.db, func(ctx context.Context) error {
		db := conn(ctx, r.db)
		if err := db.Omit(clause.Associations).Save(customer).Error; err != nil {
			return err
		}
		return replaceContacts(db, partner.OwnerCustomer, customer.CustomerID, customer.Contacts)
	})
}

// Delete deletes a customer and its contacts
func (r *GormCustomerRepository) Delete(ctx context.Context, id int64) error {
	return withinTx(ctx, r.db, func(ctx context.Context) error {
		db := conn(ctx, r.db)
		if err := deleteContacts(db, partner.OwnerCustomer, id); err != nil {
			return err
		}
		result := db.Delete(&partner.Customer{}, "customer_id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}
