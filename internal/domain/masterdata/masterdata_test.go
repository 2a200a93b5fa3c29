package masterdata

import (
	"testing"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCity(t *testing.T) {
	c, err := NewCity(" dxb ", " Dubai ", 1, "United Arab Emirates", true)
	require.NoError(t, err)
	assert.Equal(t, "DXB", c.CityCode)
	assert.Equal(t, "Dubai", c.CityName)

	_, err = NewCity("", "Dubai", 1, "", true)
	assert.ErrorContains(t, err, "City code")
	_, err = NewCity("X", "D", 1, "", true)
	assert.ErrorContains(t, err, "at least 2")
	_, err = NewCity("X", "Dubai", 0, "", true)
	assert.ErrorContains(t, err, "Country is required")
}

func attachmentInput() AttachmentInput {
	return AttachmentInput{
		OwnerType:       OwnerCustomer,
		OwnerID:         7,
		DocType:         DocType{DocTypeID: 2, DocTypeName: "Trade License", RequiresExpiry: true},
		FileName:        `C:\scans\license.pdf`,
		FileContentType: "application/PDF",
		FileSize:        1024,
		ExpiryDate:      shared.NewDate(2030, 1, 31),
	}
}

func TestNewAttachment(t *testing.T) {
	t.Run("defaults document name to doc type", func(t *testing.T) {
		a, err := NewAttachment(attachmentInput())
		require.NoError(t, err)
		assert.Equal(t, "Trade License", a.DocumentName)
		assert.Equal(t, "license.pdf", a.FileName)
		assert.Equal(t, "application/pdf", a.FileContentType)
	})

	t.Run("expiry required by doc type", func(t *testing.T) {
		in := attachmentInput()
		in.ExpiryDate = shared.Date{}
		_, err := NewAttachment(in)
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "EXPIRY_DATE_REQUIRED", de.Code)

		in.DocType.RequiresExpiry = false
		_, err = NewAttachment(in)
		assert.NoError(t, err)
	})

	t.Run("rejects bad metadata", func(t *testing.T) {
		cases := map[string]func(*AttachmentInput){
			"INVALID_OWNER_TYPE":    func(in *AttachmentInput) { in.OwnerType = "city" },
			"INVALID_OWNER":         func(in *AttachmentInput) { in.OwnerID = 0 },
			"UNSUPPORTED_FILE_TYPE": func(in *AttachmentInput) { in.FileContentType = "application/x-msdownload" },
			"INVALID_FILE_SIZE":     func(in *AttachmentInput) { in.FileSize = 0 },
			"FILE_TOO_LARGE":        func(in *AttachmentInput) { in.FileSize = MaxAttachmentSize + 1 },
			"INVALID_FILE_NAME":     func(in *AttachmentInput) { in.FileName = " " },
		}
		for code, mutate := range cases {
			in := attachmentInput()
			mutate(&in)
			_, err := NewAttachment(in)
			var de *shared.DomainError
			require.ErrorAs(t, err, &de, code)
			assert.Equal(t, code, de.Code)
		}
	})
}
