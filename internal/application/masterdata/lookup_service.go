// Package masterdata implements the reference data, city and attachment
// operations.
package masterdata

import (
	"context"

	"github.com/erp/backoffice/internal/domain/finance"
	"github.com/erp/backoffice/internal/domain/masterdata"
)

// LookupReader serves the read-only reference lists. The cached lookups
// of the cache package implement it.
type LookupReader interface {
	masterdata.LookupRepository
	CitiesByCountry(ctx context.Context, countryID int64) ([]masterdata.City, error)
}

// CityCacheInvalidator drops cached city lists after a city write
type CityCacheInvalidator interface {
	InvalidateCities(ctx context.Context)
}

// LookupService handles the lookup family
type LookupService struct {
	lookups LookupReader
}

// NewLookupService creates a new LookupService
func NewLookupService(lookups LookupReader) *LookupService {
	return &LookupService{lookups: lookups}
}

// Countries returns every country
func (s *LookupService) Countries(ctx context.Context) ([]masterdata.Country, error) {
	return s.lookups.Countries(ctx)
}

// ContactTypes returns every contact type
func (s *LookupService) ContactTypes(ctx context.Context) ([]masterdata.ContactType, error) {
	return s.lookups.ContactTypes(ctx)
}

// DocTypes returns every document type
func (s *LookupService) DocTypes(ctx context.Context) ([]masterdata.DocType, error) {
	return s.lookups.DocTypes(ctx)
}

// CitiesByCountry returns the active cities of a country. An unknown
// country is NOT_FOUND rather than an empty list.
func (s *LookupService) CitiesByCountry(ctx context.Context, countryID int64) ([]masterdata.City, error) {
	if _, err := s.lookups.FindCountry(ctx, countryID); err != nil {
		return nil, err
	}
	return s.lookups.CitiesByCountry(ctx, countryID)
}

// PaymentTypes returns the payment types with their field requirements
func (s *LookupService) PaymentTypes(context.Context) ([]finance.PaymentTypeInfo, error) {
	return finance.PaymentTypes(), nil
}
