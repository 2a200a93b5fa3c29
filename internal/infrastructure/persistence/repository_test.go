package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/erp/backoffice/internal/domain/finance"
	"github.com/erp/backoffice/internal/domain/masterdata"
	"github.com/erp/backoffice/internal/domain/partner"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCustomer(t *testing.T, code, first, last string) *partner.Customer {
	t.Helper()
	c, err := partner.NewCustomer(partner.CustomerInput{
		CustomerCode: code,
		CustomerType: partner.CustomerTypeIndividual,
		FirstName:    first,
		LastName:     last,
		TaxRegNo:     "TRN-" + code,
		CountryID:    1,
		CountryName:  "United Arab Emirates",
		IsActive:     true,
	})
	require.NoError(t, err)
	return c
}

func TestGormCustomerRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDatabase(t)
	repo := NewGormCustomerRepository(db.DB)

	c := newTestCustomer(t, "C001", "Jane", "Doe")
	c.Contacts = []partner.Contact{
		{ContactTypeID: 1, ContactTypeName: "Owner", ContactName: "Jane Doe", IsPrimary: true},
		{ContactTypeID: 2, ContactTypeName: "Accountant", ContactName: "Bob Ledger"},
	}
	require.NoError(t, repo.Save(ctx, c))
	require.NotZero(t, c.CustomerID)

	t.Run("find by id preloads contacts", func(t *testing.T) {
		got, err := repo.FindByID(ctx, c.CustomerID)
		require.NoError(t, err)
		assert.Equal(t, "Jane Doe", got.FullName)
		assert.Equal(t, "Jane Doe", got.AccountName)
		require.Len(t, got.Contacts, 2)
		assert.Equal(t, partner.OwnerCustomer, got.Contacts[0].OwnerType)
	})

	t.Run("save replaces contacts", func(t *testing.T) {
		c.Contacts = []partner.Contact{{ContactTypeID: 3, ContactTypeName: "Sales", ContactName: "Sam"}}
		require.NoError(t, repo.Save(ctx, c))

		got, err := repo.FindByID(ctx, c.CustomerID)
		require.NoError(t, err)
		require.Len(t, got.Contacts, 1)
		assert.Equal(t, "Sam", got.Contacts[0].ContactName)
	})

	t.Run("exists by code ignores the record itself", func(t *testing.T) {
		exists, err := repo.ExistsByCode(ctx, "c001", 0)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByCode(ctx, "C001", c.CustomerID)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("find all filters and pages", func(t *testing.T) {
		other := newTestCustomer(t, "C002", "John", "Smith")
		other.IsActive = false
		require.NoError(t, repo.Save(ctx, other))

		items, total, err := repo.FindAll(ctx, shared.Filter{Search: "smith"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, items, 1)
		assert.Equal(t, "C002", items[0].CustomerCode)

		active := true
		items, total, err = repo.FindAll(ctx, shared.Filter{IsActive: &active, PageSize: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, "C001", items[0].CustomerCode)
	})

	t.Run("search escapes wildcards and skips inactive", func(t *testing.T) {
		found, err := repo.Search(ctx, "%", 10)
		require.NoError(t, err)
		assert.Empty(t, found)

		found, err = repo.Search(ctx, "jane", 10)
		require.NoError(t, err)
		require.Len(t, found, 1)

		found, err = repo.Search(ctx, "john", 10)
		require.NoError(t, err)
		assert.Empty(t, found)
	})

	t.Run("delete removes customer and contacts", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, c.CustomerID))

		_, err := repo.FindByID(ctx, c.CustomerID)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		var count int64
		require.NoError(t, db.DB.Model(&partner.Contact{}).Where("owner_id = ?", c.CustomerID).Count(&count).Error)
		assert.Zero(t, count)

		assert.ErrorIs(t, repo.Delete(ctx, c.CustomerID), shared.ErrNotFound)
	})
}

func TestGormSupplierRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDatabase(t)
	repo := NewGormSupplierRepository(db.DB)

	s, err := partner.NewSupplier(partner.SupplierInput{
		SupplierCode: "S001",
		SupplierName: "Acme Trading",
		TaxRegNo:     "TRN-S001",
		CountryID:    1,
		IBAN:         "ae07 0331 2345 6789 0123 456",
		IsActive:     true,
		Contacts:     []partner.Contact{{ContactTypeID: 1, ContactTypeName: "Owner", ContactName: "Ali"}},
	})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, s))

	got, err := repo.FindByID(ctx, s.SupplierID)
	require.NoError(t, err)
	assert.Equal(t, "AE070331234567890123456", got.IBAN)
	assert.Equal(t, "Acme Trading", got.AccountName)
	require.Len(t, got.Contacts, 1)
	assert.Equal(t, partner.OwnerSupplier, got.Contacts[0].OwnerType)

	found, err := repo.Search(ctx, "acme", 5)
	require.NoError(t, err)
	assert.Len(t, found, 1)

	require.NoError(t, repo.Delete(ctx, s.SupplierID))
	_, err = repo.FindByID(ctx, s.SupplierID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormCityRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDatabase(t)
	repo := NewGormCityRepository(db.DB)

	dubai, err := masterdata.NewCity("DXB", "Dubai", 1, "United Arab Emirates", true)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, dubai))
	closed, err := masterdata.NewCity("OLD", "Old Town", 1, "United Arab Emirates", false)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, closed))

	t.Run("find by country returns active cities only", func(t *testing.T) {
		cities, err := repo.FindByCountry(ctx, 1)
		require.NoError(t, err)
		require.Len(t, cities, 1)
		assert.Equal(t, "DXB", cities[0].CityCode)
	})

	t.Run("is referenced by customers", func(t *testing.T) {
		ref, err := repo.IsReferenced(ctx, dubai.CityID)
		require.NoError(t, err)
		assert.False(t, ref)

		c := newTestCustomer(t, "C100", "Mia", "Khan")
		c.CityID = dubai.CityID
		require.NoError(t, NewGormCustomerRepository(db.DB).Save(ctx, c))

		ref, err = repo.IsReferenced(ctx, dubai.CityID)
		require.NoError(t, err)
		assert.True(t, ref)
	})

	t.Run("delete missing city", func(t *testing.T) {
		assert.ErrorIs(t, repo.Delete(ctx, 9999), shared.ErrNotFound)
	})
}

func TestGormPettyCashRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDatabase(t)
	repo := NewGormPettyCashRepository(db.DB)

	lines := []finance.PettyCashLine{
		{AccountCode: "6100", Description: "Taxi", Debit: decimal.NewFromInt(50)},
		{AccountCode: "6110", Description: "Tea", Debit: decimal.NewFromInt(25)},
		{AccountCode: "1010", Description: "Cash", Credit: decimal.NewFromInt(75)},
	}
	v, err := finance.NewPettyCashVoucher("PC-000001", shared.NewDate(2024, 3, 1), "Office", "", lines)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, v))

	got, err := repo.FindByID(ctx, v.PettyCashID)
	require.NoError(t, err)
	require.Len(t, got.Lines, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{got.Lines[0].LineNo, got.Lines[1].LineNo, got.Lines[2].LineNo})
	assert.True(t, got.TotalAmount.Equal(decimal.NewFromInt(75)))
	assert.Equal(t, shared.NewDate(2024, 3, 1), got.VoucherDate)

	require.NoError(t, got.Update(got.VoucherDate, "Office", "trimmed", []finance.PettyCashLine{
		{AccountCode: "6100", Debit: decimal.NewFromInt(10)},
		{AccountCode: "1010", Credit: decimal.NewFromInt(10)},
	}))
	require.NoError(t, repo.Save(ctx, got))

	var lineCount int64
	require.NoError(t, db.DB.Model(&finance.PettyCashLine{}).Count(&lineCount).Error)
	assert.Equal(t, int64(2), lineCount)

	require.NoError(t, repo.Delete(ctx, v.PettyCashID))
	require.NoError(t, db.DB.Model(&finance.PettyCashLine{}).Count(&lineCount).Error)
	assert.Zero(t, lineCount)
}

func TestGormPaymentVoucherRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDatabase(t)
	repo := NewGormPaymentVoucherRepository(db.DB)
	now := time.Now()

	newVoucher := func(no string, date shared.Date, pt finance.PaymentType, details finance.PaymentDetails) *finance.PaymentVoucher {
		details.PaymentType = pt
		pv, err := finance.NewPaymentVoucher(no, finance.PaymentVoucherInput{
			VoucherDate:  date,
			SupplierID:   7,
			SupplierName: "Acme",
			Payment:      details,
			Amount:       decimal.NewFromInt(100),
		}, "tester", now)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, pv))
		return pv
	}

	transfer := finance.PaymentDetails{BankName: "ENBD", BankAccountNo: "123", TransactionRef: "TX1"}
	newVoucher("PV-000001", shared.NewDate(2024, 2, 1), finance.PaymentTypeBankTransfer, transfer)
	newVoucher("PV-000002", shared.NewDate(2024, 1, 1), finance.PaymentTypeBankTransfer, transfer)
	newVoucher("PV-000003", shared.NewDate(2024, 1, 15), finance.PaymentTypeCash, finance.PaymentDetails{})

	pending, total, err := repo.FindPending(ctx, shared.Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, pending, 2)
	assert.Equal(t, "PV-000002", pending[0].VoucherNo)
	assert.Equal(t, "TX1", pending[0].TransactionRef)

	count, err := repo.CountBySupplier(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestGormLeaseRepositories(t *testing.T) {
	ctx := context.Background()
	db := newTestDatabase(t)
	invoices := NewGormLeaseInvoiceRepository(db.DB)
	receipts := NewGormLeaseReceiptRepository(db.DB)
	tx := NewGormTransactor(db.DB)

	newInvoice := func(no string, due shared.Date) *finance.LeaseInvoice {
		inv, err := finance.NewLeaseInvoice(no, 3, "Jane Doe", "UNIT-101",
			shared.NewDate(2024, 1, 1), due, decimal.NewFromInt(1000))
		require.NoError(t, err)
		require.NoError(t, invoices.Save(ctx, inv))
		return inv
	}
	late := newInvoice("LI-000001", shared.NewDate(2024, 3, 1))
	early := newInvoice("LI-000002", shared.NewDate(2024, 2, 1))

	outstanding, err := invoices.FindOutstanding(ctx, 3)
	require.NoError(t, err)
	require.Len(t, outstanding, 2)
	assert.Equal(t, early.LeaseInvoiceID, outstanding[0].LeaseInvoiceID)

	receipt, err := finance.NewLeaseReceipt("LR-000001", finance.LeaseReceiptInput{
		ReceiptDate: shared.NewDate(2024, 2, 2),
		CustomerID:  3,
		Payment:     finance.PaymentDetails{PaymentType: finance.PaymentTypeCash},
		Amount:      decimal.NewFromInt(1200),
		Allocations: []finance.ReceiptAllocation{
			{LeaseInvoiceID: early.LeaseInvoiceID, InvoiceNo: early.InvoiceNo, AllocatedAmount: decimal.NewFromInt(1000)},
			{LeaseInvoiceID: late.LeaseInvoiceID, InvoiceNo: late.InvoiceNo, AllocatedAmount: decimal.NewFromInt(200)},
		},
	})
	require.NoError(t, err)

	err = tx.WithinTx(ctx, func(ctx context.Context) error {
		for _, a := range receipt.Allocations {
			inv, err := invoices.FindByIDForUpdate(ctx, a.LeaseInvoiceID)
			if err != nil {
				return err
			}
			if err := inv.ApplyPayment(a.AllocatedAmount); err != nil {
				return err
			}
			if err := invoices.Save(ctx, inv); err != nil {
				return err
			}
		}
		return receipts.Save(ctx, receipt)
	})
	require.NoError(t, err)

	got, err := receipts.FindByID(ctx, receipt.LeaseReceiptID)
	require.NoError(t, err)
	require.Len(t, got.Allocations, 2)

	outstanding, err = invoices.FindOutstanding(ctx, 3)
	require.NoError(t, err)
	require.Len(t, outstanding, 1)
	assert.Equal(t, finance.LeaseInvoicePartiallyPaid, outstanding[0].Status)
	assert.True(t, outstanding[0].Balance.Equal(decimal.NewFromInt(800)))

	count, err := invoices.CountByCustomer(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestGormTransactor_RollsBack(t *testing.T) {
	ctx := context.Background()
	db := newTestDatabase(t)
	repo := NewGormCustomerRepository(db.DB)
	boom := errors.New("boom")

	err := NewGormTransactor(db.DB).WithinTx(ctx, func(ctx context.Context) error {
		if err := repo.Save(ctx, newTestCustomer(t, "R001", "Roll", "Back")); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	exists, err := repo.ExistsByCode(ctx, "R001", 0)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGormNumberGenerator(t *testing.T) {
	ctx := context.Background()
	db := newTestDatabase(t)
	gen := NewGormNumberGenerator(db.DB)

	first, err := gen.Next(ctx, shared.SeriesPaymentVoucher)
	require.NoError(t, err)
	second, err := gen.Next(ctx, shared.SeriesPaymentVoucher)
	require.NoError(t, err)
	other, err := gen.Next(ctx, shared.SeriesPettyCash)
	require.NoError(t, err)

	assert.Equal(t, "PV-000001", first)
	assert.Equal(t, "PV-000002", second)
	assert.Equal(t, "PC-000001", other)
}

func TestGormAttachmentRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDatabase(t)
	repo := NewGormAttachmentRepository(db.DB)

	for _, name := range []string{"a.pdf", "b.png"} {
		ct := "application/pdf"
		if name == "b.png" {
			ct = "image/png"
		}
		a, err := masterdata.NewAttachment(masterdata.AttachmentInput{
			OwnerType:       masterdata.OwnerSupplier,
			OwnerID:         5,
			DocType:         masterdata.DocType{DocTypeID: 2, DocTypeName: "VAT Certificate"},
			FileName:        name,
			FileContentType: ct,
			FileSize:        10,
		})
		require.NoError(t, err)
		a.StorageKey = "attachments/" + name
		require.NoError(t, repo.Save(ctx, a))
	}

	list, err := repo.FindByOwner(ctx, masterdata.OwnerSupplier, 5)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "VAT Certificate", list[0].DocumentName)

	removed, err := repo.DeleteByOwner(ctx, masterdata.OwnerSupplier, 5)
	require.NoError(t, err)
	assert.Len(t, removed, 2)

	list, err = repo.FindByOwner(ctx, masterdata.OwnerSupplier, 5)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	db := newTestDatabase(t)
	opts := SeedOptions{AdminUsername: "admin", AdminPassword: "Admin1234"}

	require.NoError(t, Seed(ctx, db.DB, opts))
	require.NoError(t, Seed(ctx, db.DB, opts))

	lookups := NewGormLookupRepository(db.DB)
	countries, err := lookups.Countries(ctx)
	require.NoError(t, err)
	assert.Len(t, countries, len(DefaultCountries))
	docTypes, err := lookups.DocTypes(ctx)
	require.NoError(t, err)
	assert.Len(t, docTypes, len(DefaultDocTypes))

	admin, err := NewGormUserRepository(db.DB).FindByUsername(ctx, "ADMIN")
	require.NoError(t, err)
	assert.True(t, admin.VerifyPassword("Admin1234"))
}
