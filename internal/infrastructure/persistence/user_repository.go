package persistence

import (
	"context"
	"strings"

	"github.com/erp/backoffice/internal/domain/identity"
	"gorm.io/gorm"
)

// GormUserRepository implements UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// FindByID finds a user by its ID
func (r *GormUserRepository) FindByID(ctx context.Context, id int64) (*identity.User, error) {
	return findOne[identity.User](conn(ctx, r.db), "user_id = ?", id)
}

// FindByUsername finds a user by its username, case-insensitively
func (r *GormUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	return findOne[identity.User](conn(ctx, r.db), "username = ?", strings.ToLower(strings.TrimSpace(username)))
}

// Save creates or updates a user
func (r *GormUserRepository) Save(ctx context.Context, user *identity.User) error {
	return conn(ctx, r.db).Save(user).Error
}
