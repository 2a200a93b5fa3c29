package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/erp/backoffice/internal/domain/masterdata"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Hour)
	defer s.Close()

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	t.Run("get returns stored copy", func(t *testing.T) {
		value := []byte("abc")
		require.NoError(t, s.Set(ctx, "k", value, time.Minute))
		value[0] = 'x'

		got, ok, err := s.Get(ctx, "k")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []byte("abc"), got)
	})

	t.Run("expired entries are misses and get swept", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "short", []byte("1"), time.Second))
		now = now.Add(2 * time.Second)

		_, ok, err := s.Get(ctx, "short")
		require.NoError(t, err)
		assert.False(t, ok)

		s.cleanup()
		_, present := s.entries["short"]
		assert.False(t, present)
	})

	t.Run("delete prefix", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, prefixCities+"1", []byte("a"), time.Minute))
		require.NoError(t, s.Set(ctx, prefixCities+"2", []byte("b"), time.Minute))
		require.NoError(t, s.Set(ctx, keyCountries, []byte("c"), time.Minute))

		require.NoError(t, s.DeletePrefix(ctx, prefixCities))

		_, ok, _ := s.Get(ctx, prefixCities+"1")
		assert.False(t, ok)
		_, ok, _ = s.Get(ctx, keyCountries)
		assert.True(t, ok)
	})

	t.Run("close is idempotent", func(t *testing.T) {
		other := NewMemoryStore(time.Hour)
		assert.NoError(t, other.Close())
		assert.NoError(t, other.Close())
	})
}

type mockLookupRepository struct {
	mock.Mock
}

func (m *mockLookupRepository) Countries(ctx context.Context) ([]masterdata.Country, error) {
	args := m.Called(ctx)
	return args.Get(0).([]masterdata.Country), args.Error(1)
}

func (m *mockLookupRepository) ContactTypes(ctx context.Context) ([]masterdata.ContactType, error) {
	args := m.Called(ctx)
	return args.Get(0).([]masterdata.ContactType), args.Error(1)
}

func (m *mockLookupRepository) DocTypes(ctx context.Context) ([]masterdata.DocType, error) {
	args := m.Called(ctx)
	return args.Get(0).([]masterdata.DocType), args.Error(1)
}

func (m *mockLookupRepository) FindCountry(ctx context.Context, id int64) (*masterdata.Country, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*masterdata.Country), args.Error(1)
}

func (m *mockLookupRepository) FindContactType(ctx context.Context, id int64) (*masterdata.ContactType, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*masterdata.ContactType), args.Error(1)
}

func (m *mockLookupRepository) FindDocType(ctx context.Context, id int64) (*masterdata.DocType, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*masterdata.DocType), args.Error(1)
}

type mockCityLister struct {
	mock.Mock
}

func (m *mockCityLister) FindByCountry(ctx context.Context, countryID int64) ([]masterdata.City, error) {
	args := m.Called(ctx, countryID)
	return args.Get(0).([]masterdata.City), args.Error(1)
}

type failingStore struct{}

var errRefused = errors.New("connection refused")

func (failingStore) Get(context.Context, string) ([]byte, bool, error) { return nil, false, errRefused }

func (failingStore) Set(context.Context, string, []byte, time.Duration) error { return errRefused }

func (failingStore) Delete(context.Context, ...string) error { return errRefused }

func (failingStore) DeletePrefix(context.Context, string) error { return errRefused }

func (failingStore) Close() error { return nil }

func TestCachedLookups(t *testing.T) {
	ctx := context.Background()

	t.Run("loads once then serves from cache", func(t *testing.T) {
		repo := new(mockLookupRepository)
		repo.On("Countries", mock.Anything).
			Return([]masterdata.Country{{CountryID: 1, CountryCode: "AE", CountryName: "United Arab Emirates"}}, nil).
			Once()
		store := NewMemoryStore(time.Hour)
		defer store.Close()
		c := NewCachedLookups(repo, new(mockCityLister), store, time.Minute)

		first, err := c.Countries(ctx)
		require.NoError(t, err)
		second, err := c.Countries(ctx)
		require.NoError(t, err)

		assert.Equal(t, first, second)
		repo.AssertExpectations(t)
	})

	t.Run("find uses the cached list", func(t *testing.T) {
		repo := new(mockLookupRepository)
		repo.On("DocTypes", mock.Anything).
			Return([]masterdata.DocType{{DocTypeID: 4, DocTypeName: "Trade License", RequiresExpiry: true}}, nil)
		store := NewMemoryStore(time.Hour)
		defer store.Close()
		c := NewCachedLookups(repo, new(mockCityLister), store, time.Minute)

		dt, err := c.FindDocType(ctx, 4)
		require.NoError(t, err)
		assert.True(t, dt.RequiresExpiry)

		_, err = c.FindDocType(ctx, 5)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("city invalidation forces reload", func(t *testing.T) {
		cities := new(mockCityLister)
		cities.On("FindByCountry", mock.Anything, int64(1)).
			Return([]masterdata.City{{CityID: 1, CityName: "Dubai"}}, nil).
			Twice()
		store := NewMemoryStore(time.Hour)
		defer store.Close()
		c := NewCachedLookups(new(mockLookupRepository), cities, store, time.Minute)

		_, err := c.CitiesByCountry(ctx, 1)
		require.NoError(t, err)
		_, err = c.CitiesByCountry(ctx, 1)
		require.NoError(t, err)
		c.InvalidateCities(ctx)
		_, err = c.CitiesByCountry(ctx, 1)
		require.NoError(t, err)

		cities.AssertExpectations(t)
	})

	t.Run("store failures fall through to the repository", func(t *testing.T) {
		repo := new(mockLookupRepository)
		repo.On("ContactTypes", mock.Anything).
			Return([]masterdata.ContactType{{ContactTypeID: 1, ContactTypeName: "Owner"}}, nil)
		c := NewCachedLookups(repo, new(mockCityLister), failingStore{}, time.Minute)

		list, err := c.ContactTypes(ctx)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("repository errors are returned", func(t *testing.T) {
		repo := new(mockLookupRepository)
		repo.On("Countries", mock.Anything).Return([]masterdata.Country(nil), errors.New("db down"))
		store := NewMemoryStore(time.Hour)
		defer store.Close()
		c := NewCachedLookups(repo, new(mockCityLister), store, time.Minute)

		_, err := c.Countries(ctx)
		assert.EqualError(t, err, "db down")
	})
}

func TestStoreFactory_RedisDisabled(t *testing.T) {
	store, err := NewStoreFactory(config.RedisConfig{Enabled: false}).CreateStore()
	require.NoError(t, err)
	defer store.Close()
	assert.IsType(t, &MemoryStore{}, store)
}

func TestStoreFactory_FallbackDisabled(t *testing.T) {
	_, err := NewStoreFactory(
		config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: 1},
		WithInMemoryFallback(false),
	).CreateStore()
	assert.ErrorContains(t, err, "redis required")
}
