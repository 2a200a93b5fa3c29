package masterdata

import (
	"context"
	"time"

	"github.com/erp/backoffice/internal/contract"
	"github.com/erp/backoffice/internal/domain/masterdata"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// CityService handles the cities family
type CityService struct {
	cityRepo masterdata.CityRepository
	lookups  masterdata.LookupRepository
	cache    CityCacheInvalidator
	now      func() time.Time
}

// NewCityService creates a new CityService. cache may be nil.
func NewCityService(cityRepo masterdata.CityRepository, lookups masterdata.LookupRepository, cache CityCacheInvalidator) *CityService {
	return &CityService{
		cityRepo: cityRepo,
		lookups:  lookups,
		cache:    cache,
		now:      time.Now,
	}
}

// Create creates a new city
func (s *CityService) Create(ctx context.Context, p contract.CityParams) (*masterdata.City, error) {
	country, err := s.lookups.FindCountry(ctx, p.CountryID)
	if err != nil {
		return nil, err
	}
	city, err := masterdata.NewCity(p.CityCode, p.CityName, country.CountryID, country.CountryName, p.IsActive)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUniqueCode(ctx, city.CityCode, 0); err != nil {
		return nil, err
	}

	city.Touch(shared.ActorFrom(ctx), s.now())
	if err := s.cityRepo.Save(ctx, city); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	logger.L(ctx).Info("City created", zap.Int64("city_id", city.CityID), zap.String("code", city.CityCode))
	return city, nil
}

// Update replaces the editable fields of a city
func (s *CityService) Update(ctx context.Context, p contract.UpdateCityParams) (*masterdata.City, error) {
	city, err := s.cityRepo.FindByID(ctx, p.CityID)
	if err != nil {
		return nil, err
	}
	country, err := s.lookups.FindCountry(ctx, p.CountryID)
	if err != nil {
		return nil, err
	}
	if err := city.Update(p.CityCode, p.CityName, country.CountryID, country.CountryName, p.IsActive); err != nil {
		return nil, err
	}
	if err := s.ensureUniqueCode(ctx, city.CityCode, city.CityID); err != nil {
		return nil, err
	}

	city.Touch(shared.ActorFrom(ctx), s.now())
	if err := s.cityRepo.Save(ctx, city); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return city, nil
}

// List returns a page of cities
func (s *CityService) List(ctx context.Context, p contract.ListParams) (shared.Paginated[masterdata.City], error) {
	filter := p.Filter()
	items, total, err := s.cityRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[masterdata.City]{}, err
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// Get returns one city
func (s *CityService) Get(ctx context.Context, id int64) (*masterdata.City, error) {
	return s.cityRepo.FindByID(ctx, id)
}

// Delete removes a city that no customer or supplier references
func (s *CityService) Delete(ctx context.Context, id int64) (*contract.DeleteResult, error) {
	if _, err := s.cityRepo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	referenced, err := s.cityRepo.IsReferenced(ctx, id)
	if err != nil {
		return nil, err
	}
	if referenced {
		return nil, shared.NewDomainError("IN_USE", "City is used by customers or suppliers")
	}
	if err := s.cityRepo.Delete(ctx, id); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return &contract.DeleteResult{ID: id, Deleted: true}, nil
}

// Search returns cities for a picker
func (s *CityService) Search(ctx context.Context, p contract.SearchParams) ([]masterdata.City, error) {
	return s.cityRepo.Search(ctx, p.SearchText, p.Limit())
}

func (s *CityService) ensureUniqueCode(ctx context.Context, code string, excludeID int64) error {
	exists, err := s.cityRepo.ExistsByCode(ctx, code, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainErrorf("ALREADY_EXISTS", "City code %s already exists", code)
	}
	return nil
}

func (s *CityService) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.InvalidateCities(ctx)
	}
}
