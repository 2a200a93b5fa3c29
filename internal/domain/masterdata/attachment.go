package masterdata

import (
	"path"
	"strings"

	"github.com/erp/backoffice/internal/domain/shared"
)

// Owner types that can carry attachments
const (
	OwnerCustomer       = "customer"
	OwnerSupplier       = "supplier"
	OwnerPaymentVoucher = "payment_voucher"
)

// MaxAttachmentSize bounds the decoded size of a single file
const MaxAttachmentSize = 10 << 20

var allowedContentTypes = map[string]bool{
	"application/pdf":    true,
	"image/png":          true,
	"image/jpeg":         true,
	"image/gif":          true,
	"image/webp":         true,
	"text/plain":         true,
	"text/csv":           true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/vnd.ms-excel": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
}

// IsValidOwnerType reports whether attachments can be stored for the owner type
func IsValidOwnerType(ownerType string) bool {
	switch ownerType {
	case OwnerCustomer, OwnerSupplier, OwnerPaymentVoucher:
		return true
	}
	return false
}

// IsAllowedContentType reports whether a file of this MIME type may be attached
func IsAllowedContentType(contentType string) bool {
	return allowedContentTypes[strings.ToLower(strings.TrimSpace(contentType))]
}

// Attachment is the metadata of a document stored for an owner record.
// The file bytes live in object storage under StorageKey.
type Attachment struct {
	AttachmentID    int64       `json:"AttachmentID" gorm:"primaryKey;autoIncrement"`
	OwnerType       string      `json:"OwnerType" gorm:"size:20;not null;index:idx_attachment_owner"`
	OwnerID         int64       `json:"OwnerID" gorm:"not null;index:idx_attachment_owner"`
	DocTypeID       int64       `json:"DocTypeID" gorm:"not null"`
	DocTypeName     string      `json:"DocTypeName" gorm:"size:100"`
	DocumentName    string      `json:"DocumentName" gorm:"size:150;not null"`
	FileName        string      `json:"FileName" gorm:"size:255;not null"`
	FileContentType string      `json:"FileContentType" gorm:"size:100;not null"`
	FileSize        int64       `json:"FileSize" gorm:"not null"`
	StorageKey      string      `json:"-" gorm:"size:300;not null;uniqueIndex"`
	ExpiryDate      shared.Date `json:"ExpiryDate" gorm:"type:date"`
	shared.Audit    `gorm:"embedded"`
}

// TableName returns the table name for GORM
func (Attachment) TableName() string {
	return "attachments"
}

// AttachmentInput carries the metadata of an upload
type AttachmentInput struct {
	OwnerType       string
	OwnerID         int64
	DocType         DocType
	DocumentName    string
	FileName        string
	FileContentType string
	FileSize        int64
	ExpiryDate      shared.Date
}

// NewAttachment validates upload metadata. DocumentName falls back to the
// document type name.
func NewAttachment(in AttachmentInput) (*Attachment, error) {
	if !IsValidOwnerType(in.OwnerType) {
		return nil, shared.NewDomainErrorf("INVALID_OWNER_TYPE", "Attachments are not supported for %q", in.OwnerType)
	}
	if in.OwnerID <= 0 {
		return nil, shared.NewDomainError("INVALID_OWNER", "Owner is required")
	}
	if in.DocType.DocTypeID <= 0 {
		return nil, shared.NewDomainError("INVALID_DOC_TYPE", "Document type is required")
	}
	fileName := path.Base(strings.ReplaceAll(strings.TrimSpace(in.FileName), "\\", "/"))
	if fileName == "" || fileName == "." || fileName == "/" {
		return nil, shared.NewDomainError("INVALID_FILE_NAME", "File name is required")
	}
	if !IsAllowedContentType(in.FileContentType) {
		return nil, shared.NewDomainErrorf("UNSUPPORTED_FILE_TYPE", "File type %q is not allowed", in.FileContentType)
	}
	if in.FileSize <= 0 {
		return nil, shared.NewDomainError("INVALID_FILE_SIZE", "File is empty")
	}
	if in.FileSize > MaxAttachmentSize {
		return nil, shared.NewDomainError("FILE_TOO_LARGE", "File exceeds the 10 MB limit")
	}
	if in.DocType.RequiresExpiry && !in.ExpiryDate.IsSet() {
		return nil, shared.NewDomainErrorf("EXPIRY_DATE_REQUIRED", "Expiry date is required for %s", in.DocType.DocTypeName)
	}

	name := strings.TrimSpace(in.DocumentName)
	if name == "" {
		name = in.DocType.DocTypeName
	}
	return &Attachment{
		OwnerType:       in.OwnerType,
		OwnerID:         in.OwnerID,
		DocTypeID:       in.DocType.DocTypeID,
		DocTypeName:     in.DocType.DocTypeName,
		DocumentName:    name,
		FileName:        fileName,
		FileContentType: strings.ToLower(strings.TrimSpace(in.FileContentType)),
		FileSize:        in.FileSize,
		ExpiryDate:      in.ExpiryDate,
	}, nil
}
