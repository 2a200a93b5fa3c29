// Package finance implements the petty cash, payment voucher and lease
// families.
package finance

import (
	"context"
	"errors"

	"github.com/erp/backoffice/internal/domain/partner"
	"github.com/erp/backoffice/internal/domain/shared"
)

// SupplierFinder loads the supplier a payment voucher is made out to
type SupplierFinder interface {
	FindByID(ctx context.Context, id int64) (*partner.Supplier, error)
}

// CustomerFinder loads the customer of a lease document
type CustomerFinder interface {
	FindByID(ctx context.Context, id int64) (*partner.Customer, error)
}

// notFound replaces the generic repository NOT_FOUND with one naming the record
func notFound(err error, entity string, id int64) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NotFound(entity, id)
	}
	return err
}

// invalidReference turns a missing referenced record into a validation failure
func invalidReference(err error, code, entity string, id int64) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewDomainErrorf(code, "%s %d does not exist", entity, id)
	}
	return err
}
