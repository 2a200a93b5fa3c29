package client

import (
	"context"
	"fmt"

	"github.com/erp/backoffice/internal/contract"
	"github.com/erp/backoffice/internal/domain/finance"
	"github.com/erp/backoffice/internal/domain/masterdata"
	"github.com/erp/backoffice/internal/domain/partner"
	"golang.org/x/sync/errgroup"
)

// Page is one page of a list mode
type Page[T any] struct {
	Items []T
	Meta  PageMeta
}

// Service is the entity service of one family
type Service[T any] struct {
	c      *Client
	family contract.Family
}

// NewService returns the entity service of family
func NewService[T any](c *Client, family contract.Family) *Service[T] {
	return &Service[T]{c: c, family: family}
}

// Family returns the family the service calls
func (s *Service[T]) Family() contract.Family { return s.family }

// Call runs any mode of the family, see Client.Call
func (s *Service[T]) Call(ctx context.Context, mode contract.Mode, params, out any) (*PageMeta, error) {
	return s.c.Call(ctx, s.family, mode, params, out)
}

// List runs the paged list mode
func (s *Service[T]) List(ctx context.Context, p contract.ListParams) (*Page[T], error) {
	page := &Page[T]{}
	meta, err := s.Call(ctx, contract.ModeList, p, &page.Items)
	if err != nil {
		return nil, err
	}
	if meta != nil {
		page.Meta = *meta
	}
	return page, nil
}

// Get runs the get-by-ID mode with the family's ID bag
func (s *Service[T]) Get(ctx context.Context, params any) (*T, error) {
	return s.record(ctx, contract.ModeGet, params)
}

// Create runs the create mode
func (s *Service[T]) Create(ctx context.Context, params any) (*T, error) {
	return s.record(ctx, contract.ModeCreate, params)
}

// Update runs the update mode
func (s *Service[T]) Update(ctx context.Context, params any) (*T, error) {
	return s.record(ctx, contract.ModeUpdate, params)
}

// Approve runs the approve mode
func (s *Service[T]) Approve(ctx context.Context, params any) (*T, error) {
	return s.record(ctx, contract.ModeApprove, params)
}

// Reverse runs the reverse mode
func (s *Service[T]) Reverse(ctx context.Context, params any) (*T, error) {
	return s.record(ctx, contract.ModeReverse, params)
}

// Search runs the picker search mode
func (s *Service[T]) Search(ctx context.Context, p contract.SearchParams) ([]T, error) {
	var out []T
	if _, err := s.Call(ctx, contract.ModeSearch, p, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete runs the delete mode without asking; see ConfirmDelete
func (s *Service[T]) Delete(ctx context.Context, params any) (*contract.DeleteResult, error) {
	var res contract.DeleteResult
	if _, err := s.Call(ctx, contract.ModeDelete, params, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *Service[T]) record(ctx context.Context, mode contract.Mode, params any) (*T, error) {
	var out T
	if _, err := s.Call(ctx, mode, params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Services bundles the entity service of every family
type Services struct {
	Customers       *Service[partner.Customer]
	Suppliers       *Service[partner.Supplier]
	Cities          *Service[masterdata.City]
	PettyCash       *Service[finance.PettyCashVoucher]
	PaymentVouchers *Service[finance.PaymentVoucher]
	LeaseInvoices   *Service[finance.LeaseInvoice]
	LeaseReceipts   *Service[finance.LeaseReceipt]
	Lookups         *Lookups
}

// NewServices builds the entity services over c
func NewServices(c *Client) *Services {
	return &Services{
		Customers:       NewService[partner.Customer](c, contract.FamilyCustomers),
		Suppliers:       NewService[partner.Supplier](c, contract.FamilySuppliers),
		Cities:          NewService[masterdata.City](c, contract.FamilyCities),
		PettyCash:       NewService[finance.PettyCashVoucher](c, contract.FamilyPettyCash),
		PaymentVouchers: NewService[finance.PaymentVoucher](c, contract.FamilyPaymentVouchers),
		LeaseInvoices:   NewService[finance.LeaseInvoice](c, contract.FamilyLeaseInvoices),
		LeaseReceipts:   NewService[finance.LeaseReceipt](c, contract.FamilyLeaseReceipts),
		Lookups:         &Lookups{c: c},
	}
}

// PendingPaymentVouchers lists vouchers waiting for approval
func (s *Services) PendingPaymentVouchers(ctx context.Context, p contract.ListParams) (*Page[finance.PaymentVoucher], error) {
	page := &Page[finance.PaymentVoucher]{}
	meta, err := s.PaymentVouchers.Call(ctx, contract.ModePending, p, &page.Items)
	if err != nil {
		return nil, err
	}
	if meta != nil {
		page.Meta = *meta
	}
	return page, nil
}

// OutstandingInvoices lists the open lease invoices of a customer
func (s *Services) OutstandingInvoices(ctx context.Context, customerID int64) ([]finance.LeaseInvoice, error) {
	var out []finance.LeaseInvoice
	_, err := s.LeaseReceipts.Call(ctx, contract.ModePending, contract.OutstandingParams{CustomerID: customerID}, &out)
	return out, err
}

// Lookups reads the reference data family
type Lookups struct {
	c *Client
}

func (l *Lookups) Countries(ctx context.Context) ([]masterdata.Country, error) {
	var out []masterdata.Country
	_, err := l.c.Call(ctx, contract.FamilyLookups, contract.LookupCountries, nil, &out)
	return out, err
}

func (l *Lookups) ContactTypes(ctx context.Context) ([]masterdata.ContactType, error) {
	var out []masterdata.ContactType
	_, err := l.c.Call(ctx, contract.FamilyLookups, contract.LookupContactTypes, nil, &out)
	return out, err
}

func (l *Lookups) DocTypes(ctx context.Context) ([]masterdata.DocType, error) {
	var out []masterdata.DocType
	_, err := l.c.Call(ctx, contract.FamilyLookups, contract.LookupDocTypes, nil, &out)
	return out, err
}

func (l *Lookups) CitiesByCountry(ctx context.Context, countryID int64) ([]masterdata.City, error) {
	var out []masterdata.City
	_, err := l.c.Call(ctx, contract.FamilyLookups, contract.LookupCitiesByCountry,
		contract.CitiesByCountryParams{CountryID: countryID}, &out)
	return out, err
}

func (l *Lookups) PaymentTypes(ctx context.Context) ([]finance.PaymentTypeInfo, error) {
	var out []finance.PaymentTypeInfo
	_, err := l.c.Call(ctx, contract.FamilyLookups, contract.LookupPaymentTypes, nil, &out)
	return out, err
}

// ReferenceData is what a partner form needs before it renders
type ReferenceData struct {
	Countries    []masterdata.Country
	ContactTypes []masterdata.ContactType
	DocTypes     []masterdata.DocType
}

// ReferenceData fetches countries, contact types and document types
// concurrently. The first failure cancels the other fetches.
func (l *Lookups) ReferenceData(ctx context.Context) (*ReferenceData, error) {
	var out ReferenceData
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.Countries, err = l.Countries(ctx)
		return err
	})
	g.Go(func() (err error) {
		out.ContactTypes, err = l.ContactTypes(ctx)
		return err
	})
	g.Go(func() (err error) {
		out.DocTypes, err = l.DocTypes(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load reference data: %w", err)
	}
	return &out, nil
}
