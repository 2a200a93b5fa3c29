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

// SupplierReferences counts the payment vouchers raised for a supplier
type SupplierReferences interface {
	CountBySupplier(ctx context.Context, supplierID int64) (int64, error)
}

// SupplierService handles supplier-related business operations
type SupplierService struct {
	supplierRepo partner.SupplierRepository
	refs         references
	usage        SupplierReferences
	attachments  AttachmentCleaner
	now          func() time.Time
}

// NewSupplierService creates a new SupplierService. usage and attachments
// may be nil.
func NewSupplierService(
	supplierRepo partner.SupplierRepository,
	lookups masterdata.LookupRepository,
	cities CityFinder,
	usage SupplierReferences,
	attachments AttachmentCleaner,
) *SupplierService {
	return &SupplierService{
		supplierRepo: supplierRepo,
		refs:         references{lookups: lookups, cities: cities},
		usage:        usage,
		attachments:  attachments,
		now:          time.Now,
	}
}

// Create creates a new supplier
func (s *SupplierService) Create(ctx context.Context, p contract.SupplierParams) (*partner.Supplier, error) {
	in, err := s.input(ctx, p)
	if err != nil {
		return nil, err
	}
	supplier, err := partner.NewSupplier(in)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUniqueCode(ctx, supplier.SupplierCode, 0); err != nil {
		return nil, err
	}

	supplier.Touch(shared.ActorFrom(ctx), s.now())
	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}
	logger.L(ctx).Info("Supplier created",
		zap.Int64("supplier_id", supplier.SupplierID),
		zap.String("code", supplier.SupplierCode))
	return supplier, nil
}

// Update replaces the editable fields and contacts of a supplier
func (s *SupplierService) Update(ctx context.Context, p contract.UpdateSupplierParams) (*partner.Supplier, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, p.SupplierID)
	if err != nil {
		return nil, notFound(err, "Supplier", p.SupplierID)
	}
	in, err := s.input(ctx, p.SupplierParams)
	if err != nil {
		return nil, err
	}
	if err := supplier.Apply(in); err != nil {
		return nil, err
	}
	if err := s.ensureUniqueCode(ctx, supplier.SupplierCode, supplier.SupplierID); err != nil {
		return nil, err
	}

	supplier.Touch(shared.ActorFrom(ctx), s.now())
	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

// List returns a page of suppliers
func (s *SupplierService) List(ctx context.Context, p contract.ListParams) (shared.Paginated[partner.Supplier], error) {
	filter := p.Filter()
	items, total, err := s.supplierRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[partner.Supplier]{}, err
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// Get returns one supplier with its contacts
func (s *SupplierService) Get(ctx context.Context, id int64) (*partner.Supplier, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Supplier", id)
	}
	return supplier, nil
}

// Delete removes a supplier that has no payment vouchers
func (s *SupplierService) Delete(ctx context.Context, id int64) (*contract.DeleteResult, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if s.usage != nil {
		n, err := s.usage.CountBySupplier(ctx, id)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			return nil, shared.NewDomainErrorf("IN_USE", "Supplier has %d payment vouchers and cannot be deleted", n)
		}
	}
	if err := s.supplierRepo.Delete(ctx, id); err != nil {
		return nil, notFound(err, "Supplier", id)
	}
	if s.attachments != nil {
		if err := s.attachments.DeleteOwner(ctx, partner.OwnerSupplier, id); err != nil {
			logger.L(ctx).Warn("Failed to delete supplier attachments", zap.Int64("supplier_id", id), zap.Error(err))
		}
	}
	logger.L(ctx).Info("Supplier deleted", zap.Int64("supplier_id", id))
	return &contract.DeleteResult{ID: id, Deleted: true}, nil
}

// Search returns active suppliers for a picker
func (s *SupplierService) Search(ctx context.Context, p contract.SearchParams) ([]partner.Supplier, error) {
	items, err := s.supplierRepo.Search(ctx, p.SearchText, p.Limit())
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []partner.Supplier{}
	}
	return items, nil
}

// Exists returns NOT_FOUND when the supplier does not exist
func (s *SupplierService) Exists(ctx context.Context, id int64) error {
	_, err := s.Get(ctx, id)
	return err
}

func (s *SupplierService) input(ctx context.Context, p contract.SupplierParams) (partner.SupplierInput, error) {
	loc, err := s.refs.location(ctx, p.CountryID, p.CityID)
	if err != nil {
		return partner.SupplierInput{}, err
	}
	contacts, err := s.refs.contacts(ctx, p.Contacts)
	if err != nil {
		return partner.SupplierInput{}, err
	}
	return partner.SupplierInput{
		SupplierCode:     p.SupplierCode,
		SupplierName:     p.SupplierName,
		AccountName:      p.AccountName,
		TaxRegNo:         p.TaxRegNo,
		VATRegNo:         p.VATRegNo,
		ContactPerson:    p.ContactPerson,
		Email:            p.Email,
		Phone:            p.Phone,
		Address:          p.Address,
		CountryID:        p.CountryID,
		CountryName:      loc.CountryName,
		CityID:           p.CityID,
		CityName:         loc.CityName,
		BankName:         p.BankName,
		BankAccountNo:    p.BankAccountNo,
		IBAN:             p.IBAN,
		PaymentTermsDays: p.PaymentTermsDays,
		IsActive:         p.IsActive,
		Remarks:          p.Remarks,
		Contacts:         contacts,
	}, nil
}

func (s *SupplierService) ensureUniqueCode(ctx context.Context, code string, excludeID int64) error {
	exists, err := s.supplierRepo.ExistsByCode(ctx, code, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainErrorf("ALREADY_EXISTS", "Supplier code %s already exists", code)
	}
	return nil
}
