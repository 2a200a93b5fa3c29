package dispatch

import (
	"context"

	"github.com/erp/backoffice/internal/application/finance"
	"github.com/erp/backoffice/internal/application/masterdata"
	"github.com/erp/backoffice/internal/application/partner"
	"github.com/erp/backoffice/internal/contract"
	domainmd "github.com/erp/backoffice/internal/domain/masterdata"
)

// Services are the application services behind the family endpoints.
// A nil service leaves its family unregistered.
type Services struct {
	Customers       *partner.CustomerService
	Suppliers       *partner.SupplierService
	Cities          *masterdata.CityService
	Lookups         *masterdata.LookupService
	Attachments     *masterdata.AttachmentService
	PettyCash       *finance.PettyCashService
	PaymentVouchers *finance.PaymentVoucherService
	LeaseInvoices   *finance.LeaseInvoiceService
	LeaseReceipts   *finance.LeaseReceiptService
}

// NewFromServices registers every family mode against svc
func NewFromServices(validator *contract.Validator, svc Services) *Dispatcher {
	d := New(validator)

	if s := svc.Customers; s != nil {
		d.Register(contract.FamilyCustomers, contract.ModeCreate, Bind(s.Create))
		d.Register(contract.FamilyCustomers, contract.ModeUpdate, Bind(s.Update))
		d.Register(contract.FamilyCustomers, contract.ModeList, Bind(s.List))
		d.Register(contract.FamilyCustomers, contract.ModeGet, Bind(func(ctx context.Context, p contract.CustomerIDParams) (any, error) {
			return s.Get(ctx, p.CustomerID)
		}))
		d.Register(contract.FamilyCustomers, contract.ModeDelete, Bind(func(ctx context.Context, p contract.CustomerIDParams) (*contract.DeleteResult, error) {
			return s.Delete(ctx, p.CustomerID)
		}))
		d.Register(contract.FamilyCustomers, contract.ModeSearch, Bind(s.Search))
		d.registerAttachments(contract.FamilyCustomers, domainmd.OwnerCustomer, svc.Attachments)
	}

	if s := svc.Suppliers; s != nil {
		d.Register(contract.FamilySuppliers, contract.ModeCreate, Bind(s.Create))
		d.Register(contract.FamilySuppliers, contract.ModeUpdate, Bind(s.Update))
		d.Register(contract.FamilySuppliers, contract.ModeList, Bind(s.List))
		d.Register(contract.FamilySuppliers, contract.ModeGet, Bind(func(ctx context.Context, p contract.SupplierIDParams) (any, error) {
			return s.Get(ctx, p.SupplierID)
		}))
		d.Register(contract.FamilySuppliers, contract.ModeDelete, Bind(func(ctx context.Context, p contract.SupplierIDParams) (*contract.DeleteResult, error) {
			return s.Delete(ctx, p.SupplierID)
		}))
		d.Register(contract.FamilySuppliers, contract.ModeSearch, Bind(s.Search))
		d.registerAttachments(contract.FamilySuppliers, domainmd.OwnerSupplier, svc.Attachments)
	}

	if s := svc.Cities; s != nil {
		d.Register(contract.FamilyCities, contract.ModeCreate, Bind(s.Create))
		d.Register(contract.FamilyCities, contract.ModeUpdate, Bind(s.Update))
		d.Register(contract.FamilyCities, contract.ModeList, Bind(s.List))
		d.Register(contract.FamilyCities, contract.ModeGet, Bind(func(ctx context.Context, p contract.CityIDParams) (any, error) {
			return s.Get(ctx, p.CityID)
		}))
		d.Register(contract.FamilyCities, contract.ModeDelete, Bind(func(ctx context.Context, p contract.CityIDParams) (*contract.DeleteResult, error) {
			return s.Delete(ctx, p.CityID)
		}))
		d.Register(contract.FamilyCities, contract.ModeSearch, Bind(s.Search))
	}

	if s := svc.PettyCash; s != nil {
		d.Register(contract.FamilyPettyCash, contract.ModeCreate, Bind(s.Create))
		d.Register(contract.FamilyPettyCash, contract.ModeUpdate, Bind(s.Update))
		d.Register(contract.FamilyPettyCash, contract.ModeList, Bind(s.List))
		d.Register(contract.FamilyPettyCash, contract.ModeGet, Bind(func(ctx context.Context, p contract.PettyCashIDParams) (any, error) {
			return s.Get(ctx, p.PettyCashID)
		}))
		d.Register(contract.FamilyPettyCash, contract.ModeDelete, Bind(func(ctx context.Context, p contract.PettyCashIDParams) (*contract.DeleteResult, error) {
			return s.Delete(ctx, p.PettyCashID)
		}))
		d.Register(contract.FamilyPettyCash, contract.ModeApprove, Bind(s.Approve))
		d.Register(contract.FamilyPettyCash, contract.ModeReverse, Bind(s.Reverse))
	}

	if s := svc.PaymentVouchers; s != nil {
		d.Register(contract.FamilyPaymentVouchers, contract.ModeCreate, Bind(s.Create))
		d.Register(contract.FamilyPaymentVouchers, contract.ModeUpdate, Bind(s.Update))
		d.Register(contract.FamilyPaymentVouchers, contract.ModeList, Bind(s.List))
		d.Register(contract.FamilyPaymentVouchers, contract.ModeGet, Bind(func(ctx context.Context, p contract.PaymentVoucherIDParams) (any, error) {
			return s.Get(ctx, p.PaymentVoucherID)
		}))
		d.Register(contract.FamilyPaymentVouchers, contract.ModeDelete, Bind(func(ctx context.Context, p contract.PaymentVoucherIDParams) (*contract.DeleteResult, error) {
			return s.Delete(ctx, p.PaymentVoucherID)
		}))
		d.Register(contract.FamilyPaymentVouchers, contract.ModeApprove, Bind(s.Approve))
		d.Register(contract.FamilyPaymentVouchers, contract.ModeReverse, Bind(s.Reverse))
		d.Register(contract.FamilyPaymentVouchers, contract.ModePending, Bind(s.Pending))
		d.registerAttachments(contract.FamilyPaymentVouchers, domainmd.OwnerPaymentVoucher, svc.Attachments)
	}

	if s := svc.LeaseInvoices; s != nil {
		d.Register(contract.FamilyLeaseInvoices, contract.ModeCreate, Bind(s.Create))
		d.Register(contract.FamilyLeaseInvoices, contract.ModeList, Bind(s.List))
		d.Register(contract.FamilyLeaseInvoices, contract.ModeGet, Bind(func(ctx context.Context, p contract.LeaseInvoiceIDParams) (any, error) {
			return s.Get(ctx, p.LeaseInvoiceID)
		}))
	}

	if s := svc.LeaseReceipts; s != nil {
		d.Register(contract.FamilyLeaseReceipts, contract.ModeCreate, Bind(s.Create))
		d.Register(contract.FamilyLeaseReceipts, contract.ModeList, Bind(s.List))
		d.Register(contract.FamilyLeaseReceipts, contract.ModeGet, Bind(func(ctx context.Context, p contract.LeaseReceiptIDParams) (any, error) {
			return s.Get(ctx, p.LeaseReceiptID)
		}))
		d.Register(contract.FamilyLeaseReceipts, contract.ModeReverse, Bind(s.Reverse))
		d.Register(contract.FamilyLeaseReceipts, contract.ModePending, Bind(s.Outstanding))
	}

	if s := svc.Lookups; s != nil {
		d.Register(contract.FamilyLookups, contract.LookupCountries, BindNoParams(s.Countries))
		d.Register(contract.FamilyLookups, contract.LookupContactTypes, BindNoParams(s.ContactTypes))
		d.Register(contract.FamilyLookups, contract.LookupDocTypes, BindNoParams(s.DocTypes))
		d.Register(contract.FamilyLookups, contract.LookupCitiesByCountry, Bind(func(ctx context.Context, p contract.CitiesByCountryParams) (any, error) {
			return s.CitiesByCountry(ctx, p.CountryID)
		}))
		d.Register(contract.FamilyLookups, contract.LookupPaymentTypes, BindNoParams(s.PaymentTypes))
	}

	return d
}

func (d *Dispatcher) registerAttachments(f contract.Family, ownerType string, s *masterdata.AttachmentService) {
	if s == nil {
		return
	}
	d.Register(f, contract.ModeUploadAttachment, Bind(func(ctx context.Context, p contract.UploadAttachmentParams) (any, error) {
		return s.Upload(ctx, ownerType, p)
	}))
	d.Register(f, contract.ModeGetAttachment, Bind(func(ctx context.Context, p contract.AttachmentIDParams) (any, error) {
		return s.Get(ctx, ownerType, p.AttachmentID)
	}))
	d.Register(f, contract.ModeDeleteAttachment, Bind(func(ctx context.Context, p contract.AttachmentIDParams) (*contract.DeleteResult, error) {
		return s.Delete(ctx, ownerType, p.AttachmentID)
	}))
	d.Register(f, contract.ModeListAttachments, Bind(func(ctx context.Context, p contract.OwnerParams) (any, error) {
		return s.List(ctx, ownerType, p.OwnerID)
	}))
}
