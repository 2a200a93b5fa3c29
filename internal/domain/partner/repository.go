package partner

import (
	"context"

	"github.com/erp/backoffice/internal/domain/shared"
)

// CustomerRepository defines the interface for customer persistence
type CustomerRepository interface {
	FindByID(ctx context.Context, id int64) (*Customer, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Customer, int64, error)
	// Search matches code, name or tax number for pickers
	Search(ctx context.Context, text string, limit int) ([]Customer, error)
	ExistsByCode(ctx context.Context, code string, excludeID int64) (bool, error)
	// Save creates or updates the customer and replaces its contacts
	Save(ctx context.Context, customer *Customer) error
	Delete(ctx context.Context, id int64) error
}

// SupplierRepository defines the interface for supplier persistence
type SupplierRepository interface {
	FindByID(ctx context.Context, id int64) (*Supplier, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Supplier, int64, error)
	Search(ctx context.Context, text string, limit int) ([]Supplier, error)
	ExistsByCode(ctx context.Context, code string, excludeID int64) (bool, error)
	Save(ctx context.Context, supplier *Supplier) error
	Delete(ctx context.Context, id int64) error
}
