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

// LeaseInvoiceService raises rent invoices against customers
type LeaseInvoiceService struct {
	repo      finance.LeaseInvoiceRepository
	customers CustomerFinder
	numbers   shared.NumberGenerator
	tx        shared.Transactor
	metrics   *telemetry.BusinessMetrics
	now       func() time.Time
}

// NewLeaseInvoiceService creates a new LeaseInvoiceService. metrics may be nil.
func NewLeaseInvoiceService(
	repo finance.LeaseInvoiceRepository,
	customers CustomerFinder,
	numbers shared.NumberGenerator,
	tx shared.Transactor,
	metrics *telemetry.BusinessMetrics,
) *LeaseInvoiceService {
	return &LeaseInvoiceService{
		repo:      repo,
		customers: customers,
		numbers:   numbers,
		tx:        tx,
		metrics:   metrics,
		now:       time.Now,
	}
}

// Create numbers and stores an open invoice
func (s *LeaseInvoiceService) Create(ctx context.Context, p contract.LeaseInvoiceParams) (*finance.LeaseInvoice, error) {
	customer, err := s.customers.FindByID(ctx, p.CustomerID)
	if err != nil {
		return nil, invalidReference(err, "INVALID_CUSTOMER", "Customer", p.CustomerID)
	}

	var inv *finance.LeaseInvoice
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		no, err := s.numbers.Next(ctx, shared.SeriesLeaseInvoice)
		if err != nil {
			return err
		}
		inv, err = finance.NewLeaseInvoice(no, customer.CustomerID, customer.FullName, p.PropertyRef, p.InvoiceDate, p.DueDate, p.Amount)
		if err != nil {
			return err
		}
		inv.Touch(shared.ActorFrom(ctx), s.now())
		return s.repo.Save(ctx, inv)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordCreated(ctx, telemetry.DocumentLeaseInvoice, "", inv.Amount)
	logger.L(ctx).Info("Lease invoice created",
		zap.Int64("lease_invoice_id", inv.LeaseInvoiceID),
		zap.String("invoice_no", inv.InvoiceNo))
	return inv, nil
}

// List returns a page of invoices
func (s *LeaseInvoiceService) List(ctx context.Context, p contract.ListParams) (shared.Paginated[finance.LeaseInvoice], error) {
	filter := p.Filter()
	items, total, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[finance.LeaseInvoice]{}, err
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// Get returns one invoice
func (s *LeaseInvoiceService) Get(ctx context.Context, id int64) (*finance.LeaseInvoice, error) {
	inv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Lease invoice", id)
	}
	return inv, nil
}

// CountByCustomer counts the invoices raised against a customer
func (s *LeaseInvoiceService) CountByCustomer(ctx context.Context, customerID int64) (int64, error) {
	return s.repo.CountByCustomer(ctx, customerID)
}

// LeaseReceiptService records customer receipts and allocates them to
// outstanding lease invoices.
type LeaseReceiptService struct {
	repo      finance.LeaseReceiptRepository
	invoices  finance.LeaseInvoiceRepository
	customers CustomerFinder
	numbers   shared.NumberGenerator
	tx        shared.Transactor
	metrics   *telemetry.BusinessMetrics
	now       func() time.Time
}

// NewLeaseReceiptService creates a new LeaseReceiptService. metrics may be nil.
func NewLeaseReceiptService(
	repo finance.LeaseReceiptRepository,
	invoices finance.LeaseInvoiceRepository,
	customers CustomerFinder,
	numbers shared.NumberGenerator,
	tx shared.Transactor,
	metrics *telemetry.BusinessMetrics,
) *LeaseReceiptService {
	return &LeaseReceiptService{
		repo:      repo,
		invoices:  invoices,
		customers: customers,
		numbers:   numbers,
		tx:        tx,
		metrics:   metrics,
		now:       time.Now,
	}
}

// Create posts a receipt and applies its allocations to the invoice
// balances in one transaction. An allocation above an invoice balance or
// to another customer's invoice rolls the whole receipt back.
func (s *LeaseReceiptService) Create(ctx context.Context, p contract.LeaseReceiptParams) (r *finance.LeaseReceipt, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "lease_receipt", "create",
		attribute.Int64("customer_id", p.CustomerID),
		attribute.Int("allocations", len(p.Allocations)))
	defer func() { telemetry.EndSpan(span, err) }()

	customer, err := s.customers.FindByID(ctx, p.CustomerID)
	if err != nil {
		return nil, invalidReference(err, "INVALID_CUSTOMER", "Customer", p.CustomerID)
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		allocations := make([]finance.ReceiptAllocation, 0, len(p.Allocations))
		invoices := make([]*finance.LeaseInvoice, 0, len(p.Allocations))
		for _, a := range p.Allocations {
			inv, err := s.invoices.FindByIDForUpdate(ctx, a.LeaseInvoiceID)
			if err != nil {
				return invalidReference(err, "INVALID_ALLOCATION", "Lease invoice", a.LeaseInvoiceID)
			}
			if inv.CustomerID != customer.CustomerID {
				return shared.NewDomainErrorf("INVALID_ALLOCATION", "Invoice %s belongs to another customer", inv.InvoiceNo)
			}
			allocations = append(allocations, finance.ReceiptAllocation{
				LeaseInvoiceID:  inv.LeaseInvoiceID,
				InvoiceNo:       inv.InvoiceNo,
				AllocatedAmount: a.AllocatedAmount.Round(2),
			})
			invoices = append(invoices, inv)
		}

		no, err := s.numbers.Next(ctx, shared.SeriesLeaseReceipt)
		if err != nil {
			return err
		}
		r, err = finance.NewLeaseReceipt(no, finance.LeaseReceiptInput{
			ReceiptDate:  p.ReceiptDate,
			CustomerID:   customer.CustomerID,
			CustomerName: customer.FullName,
			Payment:      p.Details(),
			Amount:       p.Amount,
			Narration:    p.Narration,
			Allocations:  allocations,
		})
		if err != nil {
			return err
		}

		user := shared.ActorFrom(ctx)
		for i, inv := range invoices {
			if err := inv.ApplyPayment(allocations[i].AllocatedAmount); err != nil {
				return err
			}
			inv.Touch(user, s.now())
			if err := s.invoices.Save(ctx, inv); err != nil {
				return err
			}
		}
		r.Touch(user, s.now())
		return s.repo.Save(ctx, r)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordCreated(ctx, telemetry.DocumentLeaseReceipt, r.PaymentType.String(), r.Amount)
	logger.L(ctx).Info("Lease receipt posted",
		zap.Int64("lease_receipt_id", r.LeaseReceiptID),
		zap.String("receipt_no", r.ReceiptNo),
		zap.Int("allocations", len(r.Allocations)),
		zap.String("unallocated", r.UnallocatedAmount.StringFixed(2)))
	return r, nil
}

// Reverse marks a posted receipt reversed and gives its allocations back
// to the invoices.
func (s *LeaseReceiptService) Reverse(ctx context.Context, p contract.ReverseLeaseReceiptParams) (r *finance.LeaseReceipt, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "lease_receipt", "reverse", attribute.Int64("lease_receipt_id", p.LeaseReceiptID))
	defer func() { telemetry.EndSpan(span, err) }()

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		r, err = s.repo.FindByID(ctx, p.LeaseReceiptID)
		if err != nil {
			return notFound(err, "Lease receipt", p.LeaseReceiptID)
		}
		user := shared.ActorFrom(ctx)
		if err := r.Reverse(user, p.ReversalReason, s.now()); err != nil {
			return err
		}
		for _, a := range r.Allocations {
			inv, err := s.invoices.FindByIDForUpdate(ctx, a.LeaseInvoiceID)
			if err != nil {
				return err
			}
			if err := inv.RevertPayment(a.AllocatedAmount); err != nil {
				return err
			}
			inv.Touch(user, s.now())
			if err := s.invoices.Save(ctx, inv); err != nil {
				return err
			}
		}
		r.Touch(user, s.now())
		return s.repo.Save(ctx, r)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordReversed(ctx, telemetry.DocumentLeaseReceipt)
	logger.L(ctx).Info("Lease receipt reversed",
		zap.String("receipt_no", r.ReceiptNo),
		zap.String("reason", p.ReversalReason))
	return r, nil
}

// List returns a page of receipts
func (s *LeaseReceiptService) List(ctx context.Context, p contract.ListParams) (shared.Paginated[finance.LeaseReceipt], error) {
	filter := p.Filter()
	items, total, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[finance.LeaseReceipt]{}, err
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// Get returns one receipt with its allocations
func (s *LeaseReceiptService) Get(ctx context.Context, id int64) (*finance.LeaseReceipt, error) {
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Lease receipt", id)
	}
	return r, nil
}

// Outstanding returns the invoices of a customer that still carry a
// balance, oldest due first.
func (s *LeaseReceiptService) Outstanding(ctx context.Context, p contract.OutstandingParams) ([]finance.LeaseInvoice, error) {
	if _, err := s.customers.FindByID(ctx, p.CustomerID); err != nil {
		return nil, notFound(err, "Customer", p.CustomerID)
	}
	items, err := s.invoices.FindOutstanding(ctx, p.CustomerID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []finance.LeaseInvoice{}
	}
	return items, nil
}
