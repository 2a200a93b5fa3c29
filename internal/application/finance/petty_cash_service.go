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

// PettyCashService handles petty cash vouchers
type PettyCashService struct {
	repo    finance.PettyCashRepository
	numbers shared.NumberGenerator
	tx      shared.Transactor
	metrics *telemetry.BusinessMetrics
	now     func() time.Time
}

// NewPettyCashService creates a new PettyCashService. metrics may be nil.
func NewPettyCashService(
	repo finance.PettyCashRepository,
	numbers shared.NumberGenerator,
	tx shared.Transactor,
	metrics *telemetry.BusinessMetrics,
) *PettyCashService {
	return &PettyCashService{
		repo:    repo,
		numbers: numbers,
		tx:      tx,
		metrics: metrics,
		now:     time.Now,
	}
}

// Create numbers and stores a pending voucher whose lines balance
func (s *PettyCashService) Create(ctx context.Context, p contract.PettyCashParams) (*finance.PettyCashVoucher, error) {
	var v *finance.PettyCashVoucher
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		no, err := s.numbers.Next(ctx, shared.SeriesPettyCash)
		if err != nil {
			return err
		}
		v, err = finance.NewPettyCashVoucher(no, p.VoucherDate, p.PaidTo, p.Description, p.DomainLines())
		if err != nil {
			return err
		}
		v.Touch(shared.ActorFrom(ctx), s.now())
		return s.repo.Save(ctx, v)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordCreated(ctx, telemetry.DocumentPettyCash, "", v.TotalAmount)
	logger.L(ctx).Info("Petty cash voucher created",
		zap.Int64("petty_cash_id", v.PettyCashID),
		zap.String("voucher_no", v.VoucherNo),
		zap.String("total", v.TotalAmount.StringFixed(2)))
	return v, nil
}

// Update replaces the header and lines of a Draft or Pending voucher
func (s *PettyCashService) Update(ctx context.Context, p contract.UpdatePettyCashParams) (*finance.PettyCashVoucher, error) {
	v, err := s.Get(ctx, p.PettyCashID)
	if err != nil {
		return nil, err
	}
	if err := v.Update(p.VoucherDate, p.PaidTo, p.Description, p.DomainLines()); err != nil {
		return nil, err
	}
	v.Touch(shared.ActorFrom(ctx), s.now())
	if err := s.repo.Save(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

// List returns a page of vouchers
func (s *PettyCashService) List(ctx context.Context, p contract.ListParams) (shared.Paginated[finance.PettyCashVoucher], error) {
	filter := p.Filter()
	items, total, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[finance.PettyCashVoucher]{}, err
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// Get returns one voucher with its lines
func (s *PettyCashService) Get(ctx context.Context, id int64) (*finance.PettyCashVoucher, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Petty cash voucher", id)
	}
	return v, nil
}

// Delete removes a voucher that has not been approved
func (s *PettyCashService) Delete(ctx context.Context, id int64) (*contract.DeleteResult, error) {
	v, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !v.CanDelete() {
		return nil, shared.NewDomainErrorf("INVALID_STATE", "Cannot delete voucher in %s status", v.Status)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, notFound(err, "Petty cash voucher", id)
	}
	logger.L(ctx).Info("Petty cash voucher deleted", zap.Int64("petty_cash_id", id))
	return &contract.DeleteResult{ID: id, Deleted: true}, nil
}

// Approve approves a Draft or Pending voucher as the calling user
func (s *PettyCashService) Approve(ctx context.Context, p contract.ApprovePettyCashParams) (v *finance.PettyCashVoucher, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "petty_cash", "approve", attribute.Int64("petty_cash_id", p.PettyCashID))
	defer func() { telemetry.EndSpan(span, err) }()

	v, err = s.Get(ctx, p.PettyCashID)
	if err != nil {
		return nil, err
	}
	if err = v.Approve(shared.ActorFrom(ctx), p.ApprovalRemarks, s.now()); err != nil {
		return nil, err
	}
	v.Touch(shared.ActorFrom(ctx), s.now())
	if err = s.repo.Save(ctx, v); err != nil {
		return nil, err
	}

	s.metrics.RecordApproved(ctx, telemetry.DocumentPettyCash)
	logger.L(ctx).Info("Petty cash voucher approved", zap.String("voucher_no", v.VoucherNo))
	return v, nil
}

// Reverse reverses an approved voucher
func (s *PettyCashService) Reverse(ctx context.Context, p contract.ReversePettyCashParams) (v *finance.PettyCashVoucher, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "petty_cash", "reverse", attribute.Int64("petty_cash_id", p.PettyCashID))
	defer func() { telemetry.EndSpan(span, err) }()

	v, err = s.Get(ctx, p.PettyCashID)
	if err != nil {
		return nil, err
	}
	if err = v.Reverse(shared.ActorFrom(ctx), p.ReversalReason, s.now()); err != nil {
		return nil, err
	}
	v.Touch(shared.ActorFrom(ctx), s.now())
	if err = s.repo.Save(ctx, v); err != nil {
		return nil, err
	}

	s.metrics.RecordReversed(ctx, telemetry.DocumentPettyCash)
	logger.L(ctx).Info("Petty cash voucher reversed",
		zap.String("voucher_no", v.VoucherNo),
		zap.String("reason", p.ReversalReason))
	return v, nil
}
