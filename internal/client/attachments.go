package client

import (
	"context"
	"encoding/base64"
	"net/http"

	"github.com/erp/backoffice/internal/contract"
	"github.com/erp/backoffice/internal/domain/masterdata"
	"github.com/erp/backoffice/internal/domain/shared"
)

// UploadFile describes a file picked for upload
type UploadFile struct {
	Name        string
	ContentType string // sniffed from the content when empty
	Content     []byte
}

// UploadParams encodes a file into the upload-attachment bag. FileSize is the
// raw byte length, matching what the server decodes.
func UploadParams(ownerID, docTypeID int64, documentName string, f UploadFile, expiry shared.Date) contract.UploadAttachmentParams {
	ct := f.ContentType
	if ct == "" {
		ct = http.DetectContentType(f.Content)
	}
	return contract.UploadAttachmentParams{
		OwnerID:         ownerID,
		DocTypeID:       docTypeID,
		DocumentName:    documentName,
		FileName:        f.Name,
		FileContentType: ct,
		FileSize:        int64(len(f.Content)),
		FileContent:     base64.StdEncoding.EncodeToString(f.Content),
		ExpiryDate:      expiry,
	}
}

// Upload attaches a file to a record of family
func (c *Client) Upload(ctx context.Context, family contract.Family, p contract.UploadAttachmentParams) (*masterdata.Attachment, error) {
	var out masterdata.Attachment
	if _, err := c.Call(ctx, family, contract.ModeUploadAttachment, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Attachment fetches one file; DataURL on the result previews it
func (c *Client) Attachment(ctx context.Context, family contract.Family, attachmentID int64) (*contract.AttachmentFile, error) {
	var out contract.AttachmentFile
	if _, err := c.Call(ctx, family, contract.ModeGetAttachment, contract.AttachmentIDParams{AttachmentID: attachmentID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Attachments lists the files of one record
func (c *Client) Attachments(ctx context.Context, family contract.Family, ownerID int64) ([]masterdata.Attachment, error) {
	var out []masterdata.Attachment
	_, err := c.Call(ctx, family, contract.ModeListAttachments, contract.OwnerParams{OwnerID: ownerID}, &out)
	return out, err
}
