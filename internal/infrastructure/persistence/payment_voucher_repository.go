package persistence

import (
	"context"

	"github.com/erp/backoffice/internal/domain/finance"
	"github.com/erp/backoffice/internal/domain/shared"
	"gorm.io/gorm"
)

var paymentVoucherList = listQuery{
	searchColumns: []string{"voucher_no", "supplier_name", "narration", "cheque_no", "transaction_ref"},
	sortFields:    PaymentVoucherSortFields,
	defaultSort:   "voucher_date",
	hasStatus:     true,
}

// GormPaymentVoucherRepository implements PaymentVoucherRepository using GORM
type GormPaymentVoucherRepository struct {
	db *gorm.DB
}

// NewGormPaymentVoucherRepository creates a new GormPaymentVoucherRepository
func NewGormPaymentVoucherRepository(db *gorm.DB) *GormPaymentVoucherRepository {
	return &GormPaymentVoucherRepository{db: db}
}

// FindByID finds a payment voucher by its ID
func (r *GormPaymentVoucherRepository) FindByID(ctx context.Context, id int64) (*finance.PaymentVoucher, error) {
	return findOne[finance.PaymentVoucher](conn(ctx, r.db), "payment_voucher_id = ?", id)
}

// FindAll finds one page of payment vouchers matching the filter
func (r *GormPaymentVoucherRepository) FindAll(ctx context.Context, filter shared.Filter) ([]finance.PaymentVoucher, int64, error) {
	return findPage[finance.PaymentVoucher](conn(ctx, r.db), paymentVoucherList, filter)
}

// FindPending returns vouchers waiting for approval, oldest first
func (r *GormPaymentVoucherRepository) FindPending(ctx context.Context, filter shared.Filter) ([]finance.PaymentVoucher, int64, error) {
	filter.Status = string(finance.VoucherStatusPending)
	if filter.OrderBy == "" {
		filter.OrderBy = "VoucherDate"
		filter.OrderDir = "asc"
	}
	return findPage[finance.PaymentVoucher](conn(ctx, r.db), paymentVoucherList, filter)
}

// Save creates or updates a payment voucher
func (r *GormPaymentVoucherRepository) Save(ctx context.Context, pv *finance.PaymentVoucher) error {
	return conn(ctx, r.db).Save(pv).Error
}

// Delete deletes a payment voucher
func (r *GormPaymentVoucherRepository) Delete(ctx context.Context, id int64) error {
	result := conn(ctx, r.db).Delete(&finance.PaymentVoucher{}, "payment_voucher_id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountBySupplier counts the vouchers of a supplier
func (r *GormPaymentVoucherRepository) CountBySupplier(ctx context.Context, supplierID int64) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&finance.PaymentVoucher{}).
		Where("supplier_id = ?", supplierID).
		Count(&count).Error
	return count, err
}
