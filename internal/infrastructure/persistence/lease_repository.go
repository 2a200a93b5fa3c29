package persistence

import (
	"context"
	"errors"

	"github.com/erp/backoffice/internal/domain/finance"
	"github.com/erp/backoffice/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var leaseInvoiceList = listQuery{
	searchColumns: []string{"invoice_no", "customer_name", "property_ref"},
	sortFields:    LeaseInvoiceSortFields,
	defaultSort:   "invoice_date",
	hasStatus:     true,
}

var leaseReceiptList = listQuery{
	searchColumns: []string{"receipt_no", "customer_name", "narration"},
	sortFields:    LeaseReceiptSortFields,
	defaultSort:   "receipt_date",
	hasStatus:     true,
}

// GormLeaseInvoiceRepository implements LeaseInvoiceRepository using GORM
type GormLeaseInvoiceRepository struct {
	db *gorm.DB
}

// NewGormLeaseInvoiceRepository creates a new GormLeaseInvoiceRepository
func NewGormLeaseInvoiceRepository(db *gorm.DB) *GormLeaseInvoiceRepository {
	return &GormLeaseInvoiceRepository{db: db}
}

// FindByID finds a lease invoice by its ID
func (r *GormLeaseInvoiceRepository) FindByID(ctx context.Context, id int64) (*finance.LeaseInvoice, error) {
	return findOne[finance.LeaseInvoice](conn(ctx, r.db), "lease_invoice_id = ?", id)
}

// FindByIDForUpdate loads the invoice with a row lock. SQLite serializes
// writers already and has no FOR UPDATE.
func (r *GormLeaseInvoiceRepository) FindByIDForUpdate(ctx context.Context, id int64) (*finance.LeaseInvoice, error) {
	db := conn(ctx, r.db)
	if isPostgres(db) {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return findOne[finance.LeaseInvoice](db, "lease_invoice_id = ?", id)
}

// FindAll finds one page of lease invoices matching the filter
func (r *GormLeaseInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]finance.LeaseInvoice, int64, error) {
	return findPage[finance.LeaseInvoice](conn(ctx, r.db), leaseInvoiceList, filter)
}

// FindOutstanding returns invoices of a customer with a positive balance, oldest due first
func (r *GormLeaseInvoiceRepository) FindOutstanding(ctx context.Context, customerID int64) ([]finance.LeaseInvoice, error) {
	var out []finance.LeaseInvoice
	err := conn(ctx, r.db).
		Where("customer_id = ? AND status <> ?", customerID, finance.LeaseInvoicePaid).
		Order("due_date ASC, lease_invoice_id ASC").
		Find(&out).Error
	return out, err
}

// Save creates or updates a lease invoice
func (r *GormLeaseInvoiceRepository) Save(ctx context.Context, inv *finance.LeaseInvoice) error {
	return conn(ctx, r.db).Save(inv).Error
}

// CountByCustomer counts the invoices of a customer
func (r *GormLeaseInvoiceRepository) CountByCustomer(ctx context.Context, customerID int64) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&finance.LeaseInvoice{}).
		Where("customer_id = ?", customerID).
		Count(&count).Error
	return count, err
}

// GormLeaseReceiptRepository implements LeaseReceiptRepository using GORM
type GormLeaseReceiptRepository struct {
	db *gorm.DB
}

// NewGormLeaseReceiptRepository creates a new GormLeaseReceiptRepository
func NewGormLeaseReceiptRepository(db *gorm.DB) *GormLeaseReceiptRepository {
	return &GormLeaseReceiptRepository{db: db}
}

// FindByID finds a receipt with its allocations
func (r *GormLeaseReceiptRepository) FindByID(ctx context.Context, id int64) (*finance.LeaseReceipt, error) {
	var rc finance.LeaseReceipt
	if err := conn(ctx, r.db).Preload("Allocations").First(&rc, "lease_receipt_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rc, nil
}

// FindAll finds one page of receipts without allocations
func (r *GormLeaseReceiptRepository) FindAll(ctx context.Context, filter shared.Filter) ([]finance.LeaseReceipt, int64, error) {
	return findPage[finance.LeaseReceipt](conn(ctx, r.db), leaseReceiptList, filter)
}

// Save creates or updates a receipt. Allocations are written once, with
// the receipt's first save.
func (r *GormLeaseReceiptRepository) Save(ctx context.Context, rc *finance.LeaseReceipt) error {
	return withinTx(ctx, r.db, func(ctx context.Context) error {
		db := conn(ctx, r.db)
		isNew := rc.LeaseReceiptID == 0
		if err := db.Omit(clause.Associations).Save(rc).Error; err != nil {
			return err
		}
		if !isNew || len(rc.Allocations) == 0 {
			return nil
		}
		for i := range rc.Allocations {
			rc.Allocations[i].LeaseReceiptID = rc.LeaseReceiptID
		}
		return db.Create(&rc.Allocations).Error
	})
}
