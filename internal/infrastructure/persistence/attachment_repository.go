package persistence

import (
	"context"

	"github.com/erp/backoffice/internal/domain/masterdata"
	"github.com/erp/backoffice/internal/domain/shared"
	"gorm.io/gorm"
)

// GormAttachmentRepository implements AttachmentRepository using GORM
type GormAttachmentRepository struct {
	db *gorm.DB
}

// NewGormAttachmentRepository creates a new GormAttachmentRepository
func NewGormAttachmentRepository(db *gorm.DB) *GormAttachmentRepository {
	return &GormAttachmentRepository{db: db}
}

// FindByID finds attachment metadata by its ID
func (r *GormAttachmentRepository) FindByID(ctx context.Context, id int64) (*masterdata.Attachment, error) {
	return findOne[masterdata.Attachment](conn(ctx, r.db), "attachment_id = ?", id)
}

// FindByOwner lists the attachments of an owner, newest first
func (r *GormAttachmentRepository) FindByOwner(ctx context.Context, ownerType string, ownerID int64) ([]masterdata.Attachment, error) {
	var out []masterdata.Attachment
	err := conn(ctx, r.db).
		Where("owner_type = ? AND owner_id = ?", ownerType, ownerID).
		Order("attachment_id DESC").
		Find(&out).Error
	return out, err
}

// Save creates or updates attachment metadata
func (r *GormAttachmentRepository) Save(ctx context.Context, a *masterdata.Attachment) error {
	return conn(ctx, r.db).Save(a).Error
}

// Delete deletes attachment metadata
func (r *GormAttachmentRepository) Delete(ctx context.Context, id int64) error {
	result := conn(ctx, r.db).Delete(&masterdata.Attachment{}, "attachment_id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteByOwner removes every attachment of an owner and returns the
// removed rows so their stored objects can be deleted too.
func (r *GormAttachmentRepository) DeleteByOwner(ctx context.Context, ownerType string, ownerID int64) ([]masterdata.Attachment, error) {
	var removed []masterdata.Attachment
	err := withinTx(ctx, r.db, func(ctx context.Context) error {
		db := conn(ctx, r.db)
		if err := db.Where("owner_type = ? AND owner_id = ?", ownerType, ownerID).Find(&removed).Error; err != nil {
			return err
		}
		if len(removed) == 0 {
			return nil
		}
		return db.Where("owner_type = ? AND owner_id = ?", ownerType, ownerID).Delete(&masterdata.Attachment{}).Error
	})
	return removed, err
}
