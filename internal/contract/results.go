package contract

import (
	"time"

	"github.com/erp/backoffice/internal/domain/identity"
	"github.com/erp/backoffice/internal/domain/masterdata"
)

// AttachmentFile is the result of the get-attachment mode
type AttachmentFile struct {
	masterdata.Attachment
	FileContent string `json:"FileContent"`
}

// DataURL returns a data: URL that previews the file
func (f AttachmentFile) DataURL() string {
	return "data:" + f.FileContentType + ";base64," + f.FileContent
}

// DeleteResult is returned by the delete modes
type DeleteResult struct {
	ID      int64 `json:"ID"`
	Deleted bool  `json:"Deleted"`
}

// LoginResult is returned by POST /api/auth/login
type LoginResult struct {
	Token     string        `json:"Token"`
	ExpiresAt time.Time     `json:"ExpiresAt"`
	User      identity.User `json:"User"`
}
