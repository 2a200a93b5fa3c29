package identity

import (
	"context"
	"testing"
	"time"

	"github.com/erp/backoffice/internal/contract"
	"github.com/erp/backoffice/internal/domain/identity"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/infrastructure/auth"
	"github.com/erp/backoffice/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id int64) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func newTestUser(t *testing.T) *identity.User {
	t.Helper()
	u, err := identity.NewUser("admin", "Passw0rd!", "Administrator")
	require.NoError(t, err)
	u.UserID = 1
	return u
}

func newAuthService(repo *MockUserRepository) (*AuthService, *auth.JWTService, *auth.InMemoryTokenBlacklist) {
	jwtSvc := auth.NewJWTService(config.JWTConfig{Secret: "test-secret-test-secret-test-secret", Expiration: time.Hour, Issuer: "erp-test"})
	blacklist := auth.NewInMemoryTokenBlacklist()
	return NewAuthService(repo, jwtSvc, blacklist, nil, zap.NewNop()), jwtSvc, blacklist
}

func TestAuthService_Login_Success(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepository)
	svc, jwtSvc, _ := newAuthService(repo)
	user := newTestUser(t)

	repo.On("FindByUsername", ctx, "admin").Return(user, nil)
	repo.On("Save", ctx, user).Return(nil)

	res, err := svc.Login(ctx, contract.LoginParams{Username: " Admin ", Password: "Passw0rd!"})
	require.NoError(t, err)

	claims, err := jwtSvc.Validate(res.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(1), claims.UserID)
	assert.Equal(t, "Administrator", claims.DisplayName)
	assert.Equal(t, "admin", res.User.Username)
	assert.NotNil(t, user.LastLoginAt)
	repo.AssertExpectations(t)
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepository)
	svc, _, _ := newAuthService(repo)

	repo.On("FindByUsername", ctx, "ghost").Return(nil, shared.ErrNotFound)

	_, err := svc.Login(ctx, contract.LoginParams{Username: "ghost", Password: "whatever"})
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "INVALID_CREDENTIALS", de.Code)
}

func TestAuthService_Login_LocksAfterRepeatedFailures(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepository)
	svc, _, _ := newAuthService(repo)
	user := newTestUser(t)
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	repo.On("FindByUsername", ctx, "admin").Return(user, nil)
	repo.On("Save", ctx, user).Return(nil)

	for i := 1; i < identity.MaxFailedAttempts; i++ {
		_, err := svc.Login(ctx, contract.LoginParams{Username: "admin", Password: "wrong"})
		assert.ErrorContains(t, err, "Invalid username or password")
	}
	_, err := svc.Login(ctx, contract.LoginParams{Username: "admin", Password: "wrong"})
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "ACCOUNT_LOCKED", de.Code)

	// correct password is refused while locked
	_, err = svc.Login(ctx, contract.LoginParams{Username: "admin", Password: "Passw0rd!"})
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "ACCOUNT_LOCKED", de.Code)

	now = now.Add(identity.LockDuration + time.Second)
	_, err = svc.Login(ctx, contract.LoginParams{Username: "admin", Password: "Passw0rd!"})
	assert.NoError(t, err)
}

func TestAuthService_Logout_RevokesToken(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepository)
	svc, jwtSvc, blacklist := newAuthService(repo)

	tok, err := jwtSvc.Generate(auth.Subject{UserID: 1, Username: "admin"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, tok.Claims))

	revoked, err := blacklist.IsBlacklisted(ctx, tok.Claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)

	assert.Error(t, svc.Logout(ctx, &auth.Claims{}))
}

func TestAuthService_Me(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepository)
	svc, _, _ := newAuthService(repo)
	user := newTestUser(t)

	repo.On("FindByID", ctx, int64(1)).Return(user, nil)
	repo.On("FindByID", ctx, int64(2)).Return(nil, shared.ErrNotFound)

	got, err := svc.Me(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "admin", got.Username)

	_, err = svc.Me(ctx, 2)
	assert.ErrorContains(t, err, "User not found")
}
