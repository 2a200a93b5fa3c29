package finance

import (
	"context"
	"time"

	"github.com/erp/backoffice/internal/contract"
	"github.com/erp/backoffice/internal/domain/finance"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/infrastructure/logger"
	"github.com/erp/backoffice/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// PaymentVoucherService handles supplier payment vouchers
type PaymentVoucherService struct {
	repo      finance.PaymentVoucherRepository
	suppliers SupplierFinder
	numbers   shared.NumberGenerator
	tx        shared.Transactor
	metrics   *telemetry.BusinessMetrics
	now       func() time.Time
}

// NewPaymentVoucherService creates a new PaymentVoucherService. metrics may be nil.
func NewPaymentVoucherService(
	repo finance.PaymentVoucherRepository,
	suppliers SupplierFinder,
	numbers shared.NumberGenerator,
	tx shared.Transactor,
	metrics *telemetry.BusinessMetrics,
) *PaymentVoucherService {
	return &PaymentVoucherService{
		repo:      repo,
		suppliers: suppliers,
		numbers:   numbers,
		tx:        tx,
		metrics:   metrics,
		now:       time.Now,
	}
}

// Create numbers and stores a voucher. Its initial status follows the
// payment type: Cash and CreditCard are approved on creation, the rest
// wait in Pending.
func (s *PaymentVoucherService) Create(ctx context.Context, p contract.PaymentVoucherParams) (*finance.PaymentVoucher, error) {
	in, err := s.input(ctx, p)
	if err != nil {
		return nil, err
	}

	user := shared.ActorFrom(ctx)
	var pv *finance.PaymentVoucher
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		no, err := s.numbers.Next(ctx, shared.SeriesPaymentVoucher)
		if err != nil {
			return err
		}
		pv, err = finance.NewPaymentVoucher(no, in, user, s.now())
		if err != nil {
			return err
		}
		pv.Touch(user, s.now())
		return s.repo.Save(ctx, pv)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordCreated(ctx, telemetry.DocumentPaymentVoucher, pv.PaymentType.String(), pv.Amount)
	if pv.Status == finance.VoucherStatusApproved {
		s.metrics.RecordApproved(ctx, telemetry.DocumentPaymentVoucher)
	}
	logger.L(ctx).Info("Payment voucher created",
		zap.Int64("payment_voucher_id", pv.PaymentVoucherID),
		zap.String("voucher_no", pv.VoucherNo),
		zap.String("payment_type", pv.PaymentType.String()),
		zap.String("status", string(pv.Status)))
	return pv, nil
}

// Update replaces the fields of a Draft or Pending voucher. The status is
// left as it is; approval goes through Approve.
func (s *PaymentVoucherService) Update(ctx context.Context, p contract.UpdatePaymentVoucherParams) (*finance.PaymentVoucher, error) {
	pv, err := s.Get(ctx, p.PaymentVoucherID)
	if err != nil {
		return nil, err
	}
	in, err := s.input(ctx, p.PaymentVoucherParams)
	if err != nil {
		return nil, err
	}
	if err := pv.Update(in); err != nil {
		return nil, err
	}
	pv.Touch(shared.ActorFrom(ctx), s.now())
	if err := s.repo.Save(ctx, pv); err != nil {
		return nil, err
	}
	return pv, nil
}

// List returns a page of vouchers
func (s *PaymentVoucherService) List(ctx context.Context, p contract.ListParams) (shared.Paginated[finance.PaymentVoucher], error) {
	filter := p.Filter()
	items, total, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[finance.PaymentVoucher]{}, err
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// Pending returns the vouchers waiting for approval, oldest first
func (s *PaymentVoucherService) Pending(ctx context.Context, p contract.ListParams) (shared.Paginated[finance.PaymentVoucher], error) {
	filter := p.Filter()
	items, total, err := s.repo.FindPending(ctx, filter)
	if err != nil {
		return shared.Paginated[finance.PaymentVoucher]{}, err
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// Get returns one voucher
func (s *PaymentVoucherService) Get(ctx context.Context, id int64) (*finance.PaymentVoucher, error) {
	pv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Payment voucher", id)
	}
	return pv, nil
}

// Exists returns NOT_FOUND when the voucher does not exist
func (s *PaymentVoucherService) Exists(ctx context.Context, id int64) error {
	_, err := s.Get(ctx, id)
	return err
}

// Delete removes a voucher that has not been approved
func (s *PaymentVoucherService) Delete(ctx context.Context, id int64) (*contract.DeleteResult, error) {
	pv, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !pv.CanDelete() {
		return nil, shared.NewDomainErrorf("INVALID_STATE", "Cannot delete voucher in %s status", pv.Status)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, notFound(err, "Payment voucher", id)
	}
	logger.L(ctx).Info("Payment voucher deleted", zap.Int64("payment_voucher_id", id))
	return &contract.DeleteResult{ID: id, Deleted: true}, nil
}

// Approve approves a Draft or Pending voucher as the calling user
func (s *PaymentVoucherService) Approve(ctx context.Context, p contract.ApprovePaymentVoucherParams) (pv *finance.PaymentVoucher, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment_voucher", "approve", attribute.Int64("payment_voucher_id", p.PaymentVoucherID))
	defer func() { telemetry.EndSpan(span, err) }()

	pv, err = s.Get(ctx, p.PaymentVoucherID)
	if err != nil {
		return nil, err
	}
	if err = pv.Approve(shared.ActorFrom(ctx), p.ApprovalRemarks, s.now()); err != nil {
		return nil, err
	}
	pv.Touch(shared.ActorFrom(ctx), s.now())
	if err = s.repo.Save(ctx, pv); err != nil {
		return nil, err
	}

	s.metrics.RecordApproved(ctx, telemetry.DocumentPaymentVoucher)
	logger.L(ctx).Info("Payment voucher approved", zap.String("voucher_no", pv.VoucherNo))
	return pv, nil
}

// Reverse reverses an approved voucher
func (s *PaymentVoucherService) Reverse(ctx context.Context, p contract.ReversePaymentVoucherParams) (pv *finance.PaymentVoucher, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment_voucher", "reverse", attribute.Int64("payment_voucher_id", p.PaymentVoucherID))
	defer func() { telemetry.EndSpan(span, err) }()

	pv, err = s.Get(ctx, p.PaymentVoucherID)
	if err != nil {
		return nil, err
	}
	if err = pv.Reverse(shared.ActorFrom(ctx), p.ReversalReason, s.now()); err != nil {
		return nil, err
	}
	pv.Touch(shared.ActorFrom(ctx), s.now())
	if err = s.repo.Save(ctx, pv); err != nil {
		return nil, err
	}

	s.metrics.RecordReversed(ctx, telemetry.DocumentPaymentVoucher)
	logger.L(ctx).Info("Payment voucher reversed",
		zap.String("voucher_no", pv.VoucherNo),
		zap.String("reason", p.ReversalReason))
	return pv, nil
}

// CountBySupplier counts the vouchers raised for a supplier
func (s *PaymentVoucherService) CountBySupplier(ctx context.Context, supplierID int64) (int64, error) {
	return s.repo.CountBySupplier(ctx, supplierID)
}

func (s *PaymentVoucherService) input(ctx context.Context, p contract.PaymentVoucherParams) (finance.PaymentVoucherInput, error) {
	supplier, err := s.suppliers.FindByID(ctx, p.SupplierID)
	if err != nil {
		return finance.PaymentVoucherInput{}, invalidReference(err, "INVALID_SUPPLIER", "Supplier", p.SupplierID)
	}
	if !supplier.IsActive {
		return finance.PaymentVoucherInput{}, shared.NewDomainErrorf("INVALID_SUPPLIER", "Supplier %s is inactive", supplier.SupplierCode)
	}
	return finance.PaymentVoucherInput{
		VoucherDate:  p.VoucherDate,
		SupplierID:   supplier.SupplierID,
		SupplierName: supplier.SupplierName,
		Payment:      p.Details(),
		Amount:       p.Amount,
		Narration:    p.Narration,
		SaveAsDraft:  p.SaveAsDraft,
	}, nil
}
