package partner

import (
	"context"
	"testing"

	"github.com/erp/backoffice/internal/contract"
	"github.com/erp/backoffice/internal/domain/masterdata"
	"github.com/erp/backoffice/internal/domain/partner"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Mock Repositories
// =============================================================================

type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id int64) (*partner.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Customer, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]partner.Customer), args.Get(1).(int64), args.Error(2)
}

func (m *MockCustomerRepository) Search(ctx context.Context, text string, limit int) ([]partner.Customer, error) {
	args := m.Called(ctx, text, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) ExistsByCode(ctx context.Context, code string, excludeID int64) (bool, error) {
	args := m.Called(ctx, code, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	args := m.Called(ctx, customer)
	if customer.CustomerID == 0 {
		customer.CustomerID = 42
	}
	return args.Error(0)
}

func (m *MockCustomerRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockLookupRepository struct {
	mock.Mock
}

func (m *MockLookupRepository) Countries(ctx context.Context) ([]masterdata.Country, error) {
	args := m.Called(ctx)
	return args.Get(0).([]masterdata.Country), args.Error(1)
}

func (m *MockLookupRepository) ContactTypes(ctx context.Context) ([]masterdata.ContactType, error) {
	args := m.Called(ctx)
	return args.Get(0).([]masterdata.ContactType), args.Error(1)
}

func (m *MockLookupRepository) DocTypes(ctx context.Context) ([]masterdata.DocType, error) {
	args := m.Called(ctx)
	return args.Get(0).([]masterdata.DocType), args.Error(1)
}

func (m *MockLookupRepository) FindCountry(ctx context.Context, id int64) (*masterdata.Country, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*masterdata.Country), args.Error(1)
}

func (m *MockLookupRepository) FindContactType(ctx context.Context, id int64) (*masterdata.ContactType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*masterdata.ContactType), args.Error(1)
}

func (m *MockLookupRepository) FindDocType(ctx context.Context, id int64) (*masterdata.DocType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*masterdata.DocType), args.Error(1)
}

type MockCityFinder struct {
	mock.Mock
}

func (m *MockCityFinder) FindByID(ctx context.Context, id int64) (*masterdata.City, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*masterdata.City), args.Error(1)
}

type MockReferences struct {
	mock.Mock
}

func (m *MockReferences) CountByCustomer(ctx context.Context, id int64) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReferences) CountBySupplier(ctx context.Context, id int64) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

type MockAttachmentCleaner struct {
	mock.Mock
}

func (m *MockAttachmentCleaner) DeleteOwner(ctx context.Context, ownerType string, ownerID int64) error {
	args := m.Called(ctx, ownerType, ownerID)
	return args.Error(0)
}

// =============================================================================
// Test Helpers
// =============================================================================

var uae = &masterdata.Country{CountryID: 1, CountryCode: "AE", CountryName: "United Arab Emirates"}

func customerParams() contract.CustomerParams {
	return contract.CustomerParams{
		CustomerCode: "c-100",
		CustomerType: "Individual",
		FirstName:    "Jane",
		LastName:     "Doe",
		TaxRegNo:     "TRN12345",
		CountryID:    1,
		CityID:       7,
		CreditLimit:  decimal.NewFromInt(2500),
		IsActive:     true,
		Contacts: []contract.ContactParams{
			{ContactTypeID: 2, ContactName: "Bob Ledger", IsPrimary: true},
		},
	}
}

type customerFixture struct {
	repo        *MockCustomerRepository
	lookups     *MockLookupRepository
	cities      *MockCityFinder
	usage       *MockReferences
	attachments *MockAttachmentCleaner
	svc         *CustomerService
}

func newCustomerFixture() *customerFixture {
	f := &customerFixture{
		repo:        new(MockCustomerRepository),
		lookups:     new(MockLookupRepository),
		cities:      new(MockCityFinder),
		usage:       new(MockReferences),
		attachments: new(MockAttachmentCleaner),
	}
	f.svc = NewCustomerService(f.repo, f.lookups, f.cities, f.usage, f.attachments)
	return f
}

// =============================================================================
// Tests
// =============================================================================

func TestCustomerService_Create(t *testing.T) {
	ctx := shared.WithActor(context.Background(), "alice")

	t.Run("resolves names and derives full name", func(t *testing.T) {
		f := newCustomerFixture()
		f.lookups.On("FindCountry", ctx, int64(1)).Return(uae, nil)
		f.cities.On("FindByID", ctx, int64(7)).Return(&masterdata.City{CityID: 7, CityName: "Dubai", CountryID: 1}, nil)
		f.lookups.On("FindContactType", ctx, int64(2)).Return(&masterdata.ContactType{ContactTypeID: 2, ContactTypeName: "Accountant"}, nil)
		f.repo.On("ExistsByCode", ctx, "C-100", int64(0)).Return(false, nil)
		f.repo.On("Save", ctx, mock.AnythingOfType("*partner.Customer")).Return(nil)

		c, err := f.svc.Create(ctx, customerParams())
		require.NoError(t, err)

		assert.Equal(t, int64(42), c.CustomerID)
		assert.Equal(t, "C-100", c.CustomerCode)
		assert.Equal(t, "Jane Doe", c.FullName)
		assert.Equal(t, "Jane Doe", c.AccountName)
		assert.Equal(t, "United Arab Emirates", c.CountryName)
		assert.Equal(t, "Dubai", c.CityName)
		assert.Equal(t, "Accountant", c.Contacts[0].ContactTypeName)
		assert.Equal(t, "alice", c.CreatedBy)
		f.repo.AssertExpectations(t)
	})

	t.Run("rejects a city of another country", func(t *testing.T) {
		f := newCustomerFixture()
		f.lookups.On("FindCountry", ctx, int64(1)).Return(uae, nil)
		f.cities.On("FindByID", ctx, int64(7)).Return(&masterdata.City{CityID: 7, CityName: "Muscat", CountryID: 3}, nil)

		_, err := f.svc.Create(ctx, customerParams())
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "INVALID_CITY", de.Code)
		f.repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects a duplicate code", func(t *testing.T) {
		f := newCustomerFixture()
		f.lookups.On("FindCountry", ctx, int64(1)).Return(uae, nil)
		f.cities.On("FindByID", ctx, int64(7)).Return(&masterdata.City{CityID: 7, CityName: "Dubai", CountryID: 1}, nil)
		f.lookups.On("FindContactType", ctx, int64(2)).Return(&masterdata.ContactType{ContactTypeID: 2, ContactTypeName: "Accountant"}, nil)
		f.repo.On("ExistsByCode", ctx, "C-100", int64(0)).Return(true, nil)

		_, err := f.svc.Create(ctx, customerParams())
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("unknown country", func(t *testing.T) {
		f := newCustomerFixture()
		f.lookups.On("FindCountry", ctx, int64(1)).Return(nil, shared.ErrNotFound)

		_, err := f.svc.Create(ctx, customerParams())
		assert.ErrorContains(t, err, "Country 1 does not exist")
	})
}

func TestCustomerService_Update_KeepsManualFullName(t *testing.T) {
	ctx := context.Background()
	f := newCustomerFixture()

	existing, err := partner.NewCustomer(partner.CustomerInput{
		CustomerCode: "C-100", CustomerType: partner.CustomerTypeIndividual,
		FirstName: "Jane", LastName: "Doe", FullName: "Dr. Jane Doe",
		TaxRegNo: "TRN12345", CountryID: 1,
	})
	require.NoError(t, err)
	existing.CustomerID = 5

	p := contract.UpdateCustomerParams{CustomerID: 5, CustomerParams: customerParams()}
	p.CityID = 0
	p.Contacts = nil
	p.LastName = "Smith"
	p.FullName = "Dr. Jane Doe"

	f.repo.On("FindByID", ctx, int64(5)).Return(existing, nil)
	f.lookups.On("FindCountry", ctx, int64(1)).Return(uae, nil)
	f.repo.On("ExistsByCode", ctx, "C-100", int64(5)).Return(false, nil)
	f.repo.On("Save", ctx, existing).Return(nil)

	c, err := f.svc.Update(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, "Smith", c.LastName)
	assert.Equal(t, "Dr. Jane Doe", c.FullName)
	assert.Equal(t, "Dr. Jane Doe", c.AccountName)
}

func TestCustomerService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("removes customer and attachments", func(t *testing.T) {
		f := newCustomerFixture()
		f.repo.On("FindByID", ctx, int64(5)).Return(&partner.Customer{CustomerID: 5}, nil)
		f.usage.On("CountByCustomer", ctx, int64(5)).Return(int64(0), nil)
		f.repo.On("Delete", ctx, int64(5)).Return(nil)
		f.attachments.On("DeleteOwner", ctx, partner.OwnerCustomer, int64(5)).Return(nil)

		res, err := f.svc.Delete(ctx, 5)
		require.NoError(t, err)
		assert.Equal(t, &contract.DeleteResult{ID: 5, Deleted: true}, res)
		f.attachments.AssertExpectations(t)
	})

	t.Run("refuses a customer with invoices", func(t *testing.T) {
		f := newCustomerFixture()
		f.repo.On("FindByID", ctx, int64(5)).Return(&partner.Customer{CustomerID: 5}, nil)
		f.usage.On("CountByCustomer", ctx, int64(5)).Return(int64(3), nil)

		_, err := f.svc.Delete(ctx, 5)
		assert.ErrorIs(t, err, shared.ErrInUse)
		f.repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("names the missing customer", func(t *testing.T) {
		f := newCustomerFixture()
		f.repo.On("FindByID", ctx, int64(9)).Return(nil, shared.ErrNotFound)

		_, err := f.svc.Delete(ctx, 9)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.EqualError(t, err, "Customer 9 not found")
	})
}

func TestCustomerService_List(t *testing.T) {
	ctx := context.Background()
	f := newCustomerFixture()
	items := []partner.Customer{{CustomerID: 1}, {CustomerID: 2}}
	f.repo.On("FindAll", ctx, mock.MatchedBy(func(fl shared.Filter) bool {
		return fl.Page == 2 && fl.PageSize == 2 && fl.Search == "doe"
	})).Return(items, int64(5), nil)

	page, err := f.svc.List(ctx, contract.ListParams{PageNumber: 2, PageSize: 2, SearchText: " doe "})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 3, page.TotalPages)
}
