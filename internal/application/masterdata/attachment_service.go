package masterdata

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/erp/backoffice/internal/contract"
	"github.com/erp/backoffice/internal/domain/masterdata"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ObjectStorage keeps attachment bytes outside the database
type ObjectStorage interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// OwnerLookup reports whether the owner record of an attachment exists.
// It returns NOT_FOUND for a missing owner.
type OwnerLookup func(ctx context.Context, ownerID int64) error

// AttachmentService stores and serves the documents attached to customers,
// suppliers and payment vouchers.
type AttachmentService struct {
	attachmentRepo masterdata.AttachmentRepository
	lookups        masterdata.LookupRepository
	storage        ObjectStorage
	owners         map[string]OwnerLookup
	now            func() time.Time
}

// NewAttachmentService creates a new AttachmentService
func NewAttachmentService(attachmentRepo masterdata.AttachmentRepository, lookups masterdata.LookupRepository, storage ObjectStorage) *AttachmentService {
	return &AttachmentService{
		attachmentRepo: attachmentRepo,
		lookups:        lookups,
		storage:        storage,
		owners:         make(map[string]OwnerLookup),
		now:            time.Now,
	}
}

// RegisterOwner installs the existence check of an owner type. Uploads for
// owner types without a check only validate the owner id.
func (s *AttachmentService) RegisterOwner(ownerType string, lookup OwnerLookup) {
	s.owners[ownerType] = lookup
}

// Upload decodes the file, stores its bytes and records its metadata
func (s *AttachmentService) Upload(ctx context.Context, ownerType string, p contract.UploadAttachmentParams) (*masterdata.Attachment, error) {
	if lookup, ok := s.owners[ownerType]; ok {
		if err := lookup(ctx, p.OwnerID); err != nil {
			return nil, err
		}
	}
	docType, err := s.lookups.FindDocType(ctx, p.DocTypeID)
	if err != nil {
		return nil, err
	}
	data, err := base64.StdEncoding.DecodeString(p.FileContent)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_FILE_CONTENT", "File content is not valid base64")
	}
	if int64(len(data)) != p.FileSize {
		return nil, shared.NewDomainErrorf("FILE_SIZE_MISMATCH", "File size %d does not match the content length %d", p.FileSize, len(data))
	}

	att, err := masterdata.NewAttachment(masterdata.AttachmentInput{
		OwnerType:       ownerType,
		OwnerID:         p.OwnerID,
		DocType:         *docType,
		DocumentName:    p.DocumentName,
		FileName:        p.FileName,
		FileContentType: p.FileContentType,
		FileSize:        p.FileSize,
		ExpiryDate:      p.ExpiryDate,
	})
	if err != nil {
		return nil, err
	}
	att.StorageKey = fmt.Sprintf("%s/%d/%s-%s", att.OwnerType, att.OwnerID, uuid.NewString(), att.FileName)

	if err := s.storage.Put(ctx, att.StorageKey, data, att.FileContentType); err != nil {
		return nil, fmt.Errorf("store attachment: %w", err)
	}
	att.Touch(shared.ActorFrom(ctx), s.now())
	if err := s.attachmentRepo.Save(ctx, att); err != nil {
		if delErr := s.storage.Delete(ctx, att.StorageKey); delErr != nil {
			logger.L(ctx).Warn("Failed to remove orphaned attachment object",
				zap.String("key", att.StorageKey), zap.Error(delErr))
		}
		return nil, err
	}

	logger.L(ctx).Info("Attachment uploaded",
		zap.String("owner_type", att.OwnerType),
		zap.Int64("owner_id", att.OwnerID),
		zap.Int64("attachment_id", att.AttachmentID),
		zap.Int64("size", att.FileSize))
	return att, nil
}

// Get returns the metadata and base64 content of an attachment
func (s *AttachmentService) Get(ctx context.Context, ownerType string, id int64) (*contract.AttachmentFile, error) {
	att, err := s.find(ctx, ownerType, id)
	if err != nil {
		return nil, err
	}
	data, err := s.storage.Get(ctx, att.StorageKey)
	if err != nil {
		return nil, err
	}
	return &contract.AttachmentFile{
		Attachment:  *att,
		FileContent: base64.StdEncoding.EncodeToString(data),
	}, nil
}

// Delete removes an attachment and its stored bytes
func (s *AttachmentService) Delete(ctx context.Context, ownerType string, id int64) (*contract.DeleteResult, error) {
	att, err := s.find(ctx, ownerType, id)
	if err != nil {
		return nil, err
	}
	if err := s.attachmentRepo.Delete(ctx, id); err != nil {
		return nil, err
	}
	s.removeObjects(ctx, *att)
	return &contract.DeleteResult{ID: id, Deleted: true}, nil
}

// List returns the attachments of one owner without content
func (s *AttachmentService) List(ctx context.Context, ownerType string, ownerID int64) ([]masterdata.Attachment, error) {
	items, err := s.attachmentRepo.FindByOwner(ctx, ownerType, ownerID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []masterdata.Attachment{}
	}
	return items, nil
}

// DeleteOwner removes every attachment of an owner record that is being deleted
func (s *AttachmentService) DeleteOwner(ctx context.Context, ownerType string, ownerID int64) error {
	removed, err := s.attachmentRepo.DeleteByOwner(ctx, ownerType, ownerID)
	if err != nil {
		return err
	}
	s.removeObjects(ctx, removed...)
	return nil
}

func (s *AttachmentService) find(ctx context.Context, ownerType string, id int64) (*masterdata.Attachment, error) {
	att, err := s.attachmentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	// An attachment is only reachable through the family that owns it
	if att.OwnerType != ownerType {
		return nil, shared.NotFound("Attachment", id)
	}
	return att, nil
}

// removeObjects deletes stored bytes after the metadata is gone. Failures
// leave an orphaned object and are only logged.
func (s *AttachmentService) removeObjects(ctx context.Context, atts ...masterdata.Attachment) {
	for _, att := range atts {
		if err := s.storage.Delete(ctx, att.StorageKey); err != nil {
			logger.L(ctx).Warn("Failed to delete attachment object",
				zap.String("key", att.StorageKey), zap.Error(err))
		}
	}
}
