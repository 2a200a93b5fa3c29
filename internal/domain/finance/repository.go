package finance

import (
	"context"

	"github.com/erp/backoffice/internal/domain/shared"
)

// PettyCashRepository defines persistence for petty cash vouchers
type PettyCashRepository interface {
	FindByID(ctx context.Context, id int64) (*PettyCashVoucher, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]PettyCashVoucher, int64, error)
	// Save creates or updates the voucher and replaces its lines
	Save(ctx context.Context, v *PettyCashVoucher) error
	Delete(ctx context.Context, id int64) error
}

// PaymentVoucherRepository defines persistence for payment vouchers
type PaymentVoucherRepository interface {
	FindByID(ctx context.Context, id int64) (*PaymentVoucher, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]PaymentVoucher, int64, error)
	// FindPending returns vouchers waiting for approval, oldest first
	FindPending(ctx context.Context, filter shared.Filter) ([]PaymentVoucher, int64, error)
	Save(ctx context.Context, pv *PaymentVoucher) error
	Delete(ctx context.Context, id int64) error
	CountBySupplier(ctx context.Context, supplierID int64) (int64, error)
}

// LeaseInvoiceRepository defines persistence for lease invoices
type LeaseInvoiceRepository interface {
	FindByID(ctx context.Context, id int64) (*LeaseInvoice, error)
	// FindByIDForUpdate loads the invoice with a row lock inside a transaction
	FindByIDForUpdate(ctx context.Context, id int64) (*LeaseInvoice, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]LeaseInvoice, int64, error)
	// FindOutstanding returns invoices of a customer with a positive balance, oldest due first
	FindOutstanding(ctx context.Context, customerID int64) ([]LeaseInvoice, error)
	Save(ctx context.Context, inv *LeaseInvoice) error
	CountByCustomer(ctx context.Context, customerID int64) (int64, error)
}

// LeaseReceiptRepository defines persistence for lease receipts
type LeaseReceiptRepository interface {
	FindByID(ctx context.Context, id int64) (*LeaseReceipt, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]LeaseReceipt, int64, error)
	Save(ctx context.Context, r *LeaseReceipt) error
}
