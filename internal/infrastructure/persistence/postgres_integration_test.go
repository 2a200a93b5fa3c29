//go:build integration

package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/erp/backoffice/internal/domain/finance"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/infrastructure/migration"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newPostgresDB starts a throwaway PostgreSQL container with the schema migrated
func newPostgresDB(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("erp_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("admin123"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	m, err := migration.New(sqlDB, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, m.Up())
	return db
}

func TestPostgres_ReceiptPostingLocksInvoices(t *testing.T) {
	ctx := context.Background()
	db := newPostgresDB(t)
	require.NoError(t, Seed(ctx, db, SeedOptions{}))

	customers := NewGormCustomerRepository(db)
	invoices := NewGormLeaseInvoiceRepository(db)
	receipts := NewGormLeaseReceiptRepository(db)
	numbers := NewGormNumberGenerator(db)
	tx := NewGormTransactor(db)

	c := newTestCustomer(t, "PG001", "Post", "Gres")
	require.NoError(t, customers.Save(ctx, c))

	invNo, err := numbers.Next(ctx, shared.SeriesLeaseInvoice)
	require.NoError(t, err)
	inv, err := finance.NewLeaseInvoice(invNo, c.CustomerID, c.FullName, "UNIT-9",
		shared.NewDate(2024, 5, 1), shared.NewDate(2024, 5, 31), decimal.NewFromInt(500))
	require.NoError(t, err)
	require.NoError(t, invoices.Save(ctx, inv))

	err = tx.WithinTx(ctx, func(ctx context.Context) error {
		locked, err := invoices.FindByIDForUpdate(ctx, inv.LeaseInvoiceID)
		if err != nil {
			return err
		}
		if err := locked.ApplyPayment(decimal.NewFromInt(500)); err != nil {
			return err
		}
		if err := invoices.Save(ctx, locked); err != nil {
			return err
		}
		no, err := numbers.Next(ctx, shared.SeriesLeaseReceipt)
		if err != nil {
			return err
		}
		rc, err := finance.NewLeaseReceipt(no, finance.LeaseReceiptInput{
			ReceiptDate: shared.NewDate(2024, 5, 10),
			CustomerID:  c.CustomerID,
			Payment:     finance.PaymentDetails{PaymentType: finance.PaymentTypeCash},
			Amount:      decimal.NewFromInt(500),
			Allocations: []finance.ReceiptAllocation{
				{LeaseInvoiceID: locked.LeaseInvoiceID, InvoiceNo: locked.InvoiceNo, AllocatedAmount: decimal.NewFromInt(500)},
			},
		})
		if err != nil {
			return err
		}
		return receipts.Save(ctx, rc)
	})
	require.NoError(t, err)

	outstanding, err := invoices.FindOutstanding(ctx, c.CustomerID)
	require.NoError(t, err)
	require.Empty(t, outstanding)
}
