package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/erp/backoffice/internal/domain/masterdata"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/infrastructure/logger"
	"go.uber.org/zap"
)

const (
	keyCountries    = "lookups:countries"
	keyContactTypes = "lookups:contact-types"
	keyDocTypes     = "lookups:doc-types"
	prefixCities    = "lookups:cities:"
)

// CityLister is the part of the city repository the lookup cache reads
type CityLister interface {
	FindByCountry(ctx context.Context, countryID int64) ([]masterdata.City, error)
}

// CachedLookups serves reference data through a Store. A failing store is
// logged and bypassed; lookups never fail because of the cache.
type CachedLookups struct {
	repo   masterdata.LookupRepository
	cities CityLister
	store  Store
	ttl    time.Duration
}

// NewCachedLookups wraps repo and cities with store
func NewCachedLookups(repo masterdata.LookupRepository, cities CityLister, store Store, ttl time.Duration) *CachedLookups {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &CachedLookups{repo: repo, cities: cities, store: store, ttl: ttl}
}

// Countries returns all countries
func (c *CachedLookups) Countries(ctx context.Context) ([]masterdata.Country, error) {
	return cached(ctx, c, keyCountries, c.repo.Countries)
}

// ContactTypes returns all contact types
func (c *CachedLookups) ContactTypes(ctx context.Context) ([]masterdata.ContactType, error) {
	return cached(ctx, c, keyContactTypes, c.repo.ContactTypes)
}

// DocTypes returns all document types
func (c *CachedLookups) DocTypes(ctx context.Context) ([]masterdata.DocType, error) {
	return cached(ctx, c, keyDocTypes, c.repo.DocTypes)
}

// CitiesByCountry returns the active cities of a country
func (c *CachedLookups) CitiesByCountry(ctx context.Context, countryID int64) ([]masterdata.City, error) {
	return cached(ctx, c, prefixCities+strconv.FormatInt(countryID, 10), func(ctx context.Context) ([]masterdata.City, error) {
		return c.cities.FindByCountry(ctx, countryID)
	})
}

// FindCountry finds a country in the cached list
func (c *CachedLookups) FindCountry(ctx context.Context, id int64) (*masterdata.Country, error) {
	list, err := c.Countries(ctx)
	if err != nil {
		return nil, err
	}
	return find(list, func(x masterdata.Country) bool { return x.CountryID == id })
}

// FindContactType finds a contact type in the cached list
func (c *CachedLookups) FindContactType(ctx context.Context, id int64) (*masterdata.ContactType, error) {
	list, err := c.ContactTypes(ctx)
	if err != nil {
		return nil, err
	}
	return find(list, func(x masterdata.ContactType) bool { return x.ContactTypeID == id })
}

// FindDocType finds a document type in the cached list
func (c *CachedLookups) FindDocType(ctx context.Context, id int64) (*masterdata.DocType, error) {
	list, err := c.DocTypes(ctx)
	if err != nil {
		return nil, err
	}
	return find(list, func(x masterdata.DocType) bool { return x.DocTypeID == id })
}

// InvalidateCities drops every cached city list
func (c *CachedLookups) InvalidateCities(ctx context.Context) {
	if err := c.store.DeletePrefix(ctx, prefixCities); err != nil {
		logger.L(ctx).Warn("Failed to invalidate city cache", zap.Error(err))
	}
}

func cached[T any](ctx context.Context, c *CachedLookups, key string, load func(context.Context) ([]T, error)) ([]T, error) {
	log := logger.L(ctx)
	if raw, ok, err := c.store.Get(ctx, key); err != nil {
		log.Warn("Lookup cache read failed", zap.String("key", key), zap.Error(err))
	} else if ok {
		var out []T
		if err := json.Unmarshal(raw, &out); err == nil {
			return out, nil
		}
		log.Warn("Discarding undecodable cache entry", zap.String("key", key))
	}

	out, err := load(ctx)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	raw, err := json.Marshal(out)
	if err == nil {
		err = c.store.Set(ctx, key, raw, c.ttl)
	}
	if err != nil {
		log.Warn("Lookup cache write failed", zap.String("key", key), zap.Error(err))
	}
	return out, nil
}

func find[T any](list []T, match func(T) bool) (*T, error) {
	for i := range list {
		if match(list[i]) {
			return &list[i], nil
		}
	}
	return nil, shared.ErrNotFound
}

var _ masterdata.LookupRepository = (*CachedLookups)(nil)
