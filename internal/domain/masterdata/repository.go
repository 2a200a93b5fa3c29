package masterdata

import (
	"context"

	"github.com/erp/backoffice/internal/domain/shared"
)

// LookupRepository reads reference data
type LookupRepository interface {
	Countries(ctx context.Context) ([]Country, error)
	ContactTypes(ctx context.Context) ([]ContactType, error)
	DocTypes(ctx context.Context) ([]DocType, error)
	FindCountry(ctx context.Context, id int64) (*Country, error)
	FindContactType(ctx context.Context, id int64) (*ContactType, error)
	FindDocType(ctx context.Context, id int64) (*DocType, error)
}

// CityRepository defines the interface for city persistence
type CityRepository interface {
	FindByID(ctx context.Context, id int64) (*City, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]City, int64, error)
	// FindByCountry returns the active cities of a country ordered by name
	FindByCountry(ctx context.Context, countryID int64) ([]City, error)
	Search(ctx context.Context, text string, limit int) ([]City, error)
	ExistsByCode(ctx context.Context, code string, excludeID int64) (bool, error)
	// IsReferenced reports whether a customer or supplier points at the city
	IsReferenced(ctx context.Context, id int64) (bool, error)
	Save(ctx context.Context, city *City) error
	Delete(ctx context.Context, id int64) error
}

// AttachmentRepository defines the interface for attachment metadata
type AttachmentRepository interface {
	FindByID(ctx context.Context, id int64) (*Attachment, error)
	FindByOwner(ctx context.Context, ownerType string, ownerID int64) ([]Attachment, error)
	Save(ctx context.Context, a *Attachment) error
	Delete(ctx context.Context, id int64) error
	DeleteByOwner(ctx context.Context, ownerType string, ownerID int64) ([]Attachment, error)
}
