package partner

import (
	"context"
	"time"

	"github.com/erp/backoffice/internal/contract"
	"github.com/erp/backoffice/internal/domain/masterdata"
	"github.com/erp/backoffice/internal/domain/partner"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// CustomerReferences counts the documents raised against a customer
type CustomerReferences interface {
	CountByCustomer(ctx context.Context, customerID int64) (int64, error)
}

// CustomerService handles customer-related business operations
type CustomerService struct {
	customerRepo partner.CustomerRepository
	refs         references
	usage        CustomerReferences
	attachments  AttachmentCleaner
	now          func() time.Time
}

// NewCustomerService creates a new CustomerService. usage and attachments
// may be nil.
func NewCustomerService(
	customerRepo partner.CustomerRepository,
	lookups masterdata.LookupRepository,
	cities CityFinder,
	usage CustomerReferences,
	attachments AttachmentCleaner,
) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		refs:         references{lookups: lookups, cities: cities},
		usage:        usage,
		attachments:  attachments,
		now:          time.Now,
	}
}

// Create creates a new customer
func (s *CustomerService) Create(ctx context.Context, p contract.CustomerParams) (*partner.Customer, error) {
	in, err := s.input(ctx, p)
	if err != nil {
		return nil, err
	}
	customer, err := partner.NewCustomer(in)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUniqueCode(ctx, customer.CustomerCode, 0); err != nil {
		return nil, err
	}

	customer.Touch(shared.ActorFrom(ctx), s.now())
	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}
	logger.L(ctx).Info("Customer created",
		zap.Int64("customer_id", customer.CustomerID),
		zap.String("code", customer.CustomerCode))
	return customer, nil
}

// Update replaces the editable fields and contacts of a customer
func (s *CustomerService) Update(ctx context.Context, p contract.UpdateCustomerParams) (*partner.Customer, error) {
	customer, err := s.customerRepo.FindByID(ctx, p.CustomerID)
	if err != nil {
		return nil, notFound(err, "Customer", p.CustomerID)
	}
	in, err := s.input(ctx, p.CustomerParams)
	if err != nil {
		return nil, err
	}
	if err := customer.Apply(in); err != nil {
		return nil, err
	}
	if err := s.ensureUniqueCode(ctx, customer.CustomerCode, customer.CustomerID); err != nil {
		return nil, err
	}

	customer.Touch(shared.ActorFrom(ctx), s.now())
	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// List returns a page of customers
func (s *CustomerService) List(ctx context.Context, p contract.ListParams) (shared.Paginated[partner.Customer], error) {
	filter := p.Filter()
	items, total, err := s.customerRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[partner.Customer]{}, err
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// Get returns one customer with its contacts
func (s *CustomerService) Get(ctx context.Context, id int64) (*partner.Customer, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Customer", id)
	}
	return customer, nil
}

// Delete removes a customer without lease invoices, with its contacts
// and attachments.
func (s *CustomerService) Delete(ctx context.Context, id int64) (*contract.DeleteResult, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if s.usage != nil {
		n, err := s.usage.CountByCustomer(ctx, id)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			return nil, shared.NewDomainErrorf("IN_USE", "Customer has %d lease invoices and cannot be deleted", n)
		}
	}
	if err := s.customerRepo.Delete(ctx, id); err != nil {
		return nil, notFound(err, "Customer", id)
	}
	if s.attachments != nil {
		if err := s.attachments.DeleteOwner(ctx, partner.OwnerCustomer, id); err != nil {
			logger.L(ctx).Warn("Failed to delete customer attachments", zap.Int64("customer_id", id), zap.Error(err))
		}
	}
	logger.L(ctx).Info("Customer deleted", zap.Int64("customer_id", id))
	return &contract.DeleteResult{ID: id, Deleted: true}, nil
}

// Search returns active customers for a picker
func (s *CustomerService) Search(ctx context.Context, p contract.SearchParams) ([]partner.Customer, error) {
	items, err := s.customerRepo.Search(ctx, p.SearchText, p.Limit())
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []partner.Customer{}
	}
	return items, nil
}

// Exists returns NOT_FOUND when the customer does not exist
func (s *CustomerService) Exists(ctx context.Context, id int64) error {
	_, err := s.Get(ctx, id)
	return err
}

func (s *CustomerService) input(ctx context.Context, p contract.CustomerParams) (partner.CustomerInput, error) {
	loc, err := s.refs.location(ctx, p.CountryID, p.CityID)
	if err != nil {
		return partner.CustomerInput{}, err
	}
	contacts, err := s.refs.contacts(ctx, p.Contacts)
	if err != nil {
		return partner.CustomerInput{}, err
	}
	return partner.CustomerInput{
		CustomerCode: p.CustomerCode,
		CustomerType: partner.CustomerType(p.CustomerType),
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		FullName:     p.FullName,
		AccountName:  p.AccountName,
		TaxRegNo:     p.TaxRegNo,
		Email:        p.Email,
		Phone:        p.Phone,
		Mobile:       p.Mobile,
		Address:      p.Address,
		CountryID:    p.CountryID,
		CountryName:  loc.CountryName,
		CityID:       p.CityID,
		CityName:     loc.CityName,
		CreditLimit:  p.CreditLimit,
		CreditDays:   p.CreditDays,
		IsActive:     p.IsActive,
		Remarks:      p.Remarks,
		Contacts:     contacts,
	}, nil
}

func (s *CustomerService) ensureUniqueCode(ctx context.Context, code string, excludeID int64) error {
	exists, err := s.customerRepo.ExistsByCode(ctx, code, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainErrorf("ALREADY_EXISTS", "Customer code %s already exists", code)
	}
	return nil
}
