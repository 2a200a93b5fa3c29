package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/erp/backoffice/internal/domain/identity"
	"github.com/erp/backoffice/internal/domain/masterdata"
	"github.com/erp/backoffice/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultCountries is the reference country list loaded on first start
var DefaultCountries = []masterdata.Country{
	{CountryCode: "AE", CountryName: "United Arab Emirates"},
	{CountryCode: "SA", CountryName: "Saudi Arabia"},
	{CountryCode: "OM", CountryName: "Oman"},
	{CountryCode: "QA", CountryName: "Qatar"},
	{CountryCode: "KW", CountryName: "Kuwait"},
	{CountryCode: "BH", CountryName: "Bahrain"},
	{CountryCode: "IN", CountryName: "India"},
	{CountryCode: "GB", CountryName: "United Kingdom"},
	{CountryCode: "US", CountryName: "United States"},
}

// DefaultContactTypes is the reference contact type list
var DefaultContactTypes = []masterdata.ContactType{
	{ContactTypeName: "Owner"},
	{ContactTypeName: "Accountant"},
	{ContactTypeName: "Sales"},
	{ContactTypeName: "Purchasing"},
	{ContactTypeName: "Emergency"},
}

// DefaultDocTypes is the reference document type list
var DefaultDocTypes = []masterdata.DocType{
	{DocTypeName: "Trade License", RequiresExpiry: true},
	{DocTypeName: "VAT Certificate", RequiresExpiry: false},
	{DocTypeName: "Passport Copy", RequiresExpiry: true},
	{DocTypeName: "Emirates ID", RequiresExpiry: true},
	{DocTypeName: "Contract", RequiresExpiry: false},
	{DocTypeName: "Invoice Copy", RequiresExpiry: false},
	{DocTypeName: "Other", RequiresExpiry: false},
}

// SeedOptions controls which bootstrap records are created
type SeedOptions struct {
	AdminUsername string
	AdminPassword string
}

// Seed inserts reference data and the administrator account. Existing rows
// are left untouched so Seed can run on every start.
func Seed(ctx context.Context, db *gorm.DB, opts SeedOptions) error {
	return withinTx(ctx, db, func(ctx context.Context) error {
		tx := conn(ctx, db)
		if err := insertMissing(tx, DefaultCountries, "country_code"); err != nil {
			return fmt.Errorf("seed countries: %w", err)
		}
		if err := insertMissing(tx, DefaultContactTypes, "contact_type_name"); err != nil {
			return fmt.Errorf("seed contact types: %w", err)
		}
		if err := insertMissing(tx, DefaultDocTypes, "doc_type_name"); err != nil {
			return fmt.Errorf("seed doc types: %w", err)
		}
		if opts.AdminUsername == "" {
			return nil
		}
		return seedAdmin(ctx, db, opts)
	})
}

func insertMissing[T any](tx *gorm.DB, rows []T, key string) error {
	// copy so the package-level slices keep zero IDs
	batch := append([]T(nil), rows...)
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: key}},
		DoNothing: true,
	}).Create(&batch).Error
}

func seedAdmin(ctx context.Context, db *gorm.DB, opts SeedOptions) error {
	users := NewGormUserRepository(db)
	_, err := users.FindByUsername(ctx, opts.AdminUsername)
	if err == nil {
		return nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return err
	}
	admin, err := identity.NewUser(opts.AdminUsername, opts.AdminPassword, "Administrator")
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	admin.Touch("system", time.Now())
	return users.Save(ctx, admin)
}
