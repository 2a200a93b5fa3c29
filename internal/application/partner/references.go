// Package partner implements the customer and supplier families.
package partner

import (
	"context"
	"errors"

	"github.com/erp/backoffice/internal/contract"
	"github.com/erp/backoffice/internal/domain/masterdata"
	"github.com/erp/backoffice/internal/domain/partner"
	"github.com/erp/backoffice/internal/domain/shared"
)

// AttachmentCleaner removes the documents of a deleted owner record
type AttachmentCleaner interface {
	DeleteOwner(ctx context.Context, ownerType string, ownerID int64) error
}

// CityFinder loads a city by its ID
type CityFinder interface {
	FindByID(ctx context.Context, id int64) (*masterdata.City, error)
}

// references resolves the reference IDs of a partner form into the
// denormalized display names stored next to them.
type references struct {
	lookups masterdata.LookupRepository
	cities  CityFinder
}

type location struct {
	CountryName string
	CityName    string
}

func (r references) location(ctx context.Context, countryID, cityID int64) (location, error) {
	country, err := r.lookups.FindCountry(ctx, countryID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return location{}, shared.NewDomainErrorf("INVALID_COUNTRY", "Country %d does not exist", countryID)
		}
		return location{}, err
	}
	loc := location{CountryName: country.CountryName}
	if cityID == 0 {
		return loc, nil
	}

	city, err := r.cities.FindByID(ctx, cityID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return location{}, shared.NewDomainErrorf("INVALID_CITY", "City %d does not exist", cityID)
		}
		return location{}, err
	}
	if city.CountryID != countryID {
		return location{}, shared.NewDomainErrorf("INVALID_CITY", "City %s is not in %s", city.CityName, country.CountryName)
	}
	loc.CityName = city.CityName
	return loc, nil
}

func (r references) contacts(ctx context.Context, in []contract.ContactParams) ([]partner.Contact, error) {
	out := make([]partner.Contact, 0, len(in))
	names := make(map[int64]string)
	for _, c := range in {
		name, ok := names[c.ContactTypeID]
		if !ok {
			ct, err := r.lookups.FindContactType(ctx, c.ContactTypeID)
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return nil, shared.NewDomainErrorf("INVALID_CONTACT", "Contact type %d does not exist", c.ContactTypeID)
				}
				return nil, err
			}
			name = ct.ContactTypeName
			names[c.ContactTypeID] = name
		}
		out = append(out, partner.Contact{
			ContactTypeID:   c.ContactTypeID,
			ContactTypeName: name,
			ContactName:     c.ContactName,
			Phone:           c.Phone,
			Email:           c.Email,
			IsPrimary:       c.IsPrimary,
		})
	}
	return out, nil
}

// notFound replaces the generic repository NOT_FOUND with one naming the record
func notFound(err error, entity string, id int64) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NotFound(entity, id)
	}
	return err
}
