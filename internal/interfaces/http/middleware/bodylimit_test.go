package middleware

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/erp/backoffice/internal/contract"
	"github.com/erp/backoffice/internal/domain/masterdata"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// uploadBodyLimit is the default http.max_body_size
const uploadBodyLimit = 20 << 20

func uploadRouter() *gin.Engine {
	router := gin.New()
	router.Use(BodyLimit(uploadBodyLimit))
	router.POST("/api/customers", func(c *gin.Context) {
		var env contract.Envelope
		if err := c.ShouldBindJSON(&env); err != nil {
			c.String(http.StatusBadRequest, "unreadable body")
			return
		}
		params, err := contract.Decode(contract.FamilyCustomers, env.Mode, env.Parameters)
		if err == nil {
			err = contract.Validate(params)
		}
		if err != nil {
			c.String(http.StatusBadRequest, err.Error())
			return
		}
		c.JSON(http.StatusOK, gin.H{"FileSize": params.(*contract.UploadAttachmentParams).FileSize})
	})
	return router
}

func uploadBody(t *testing.T, size int) []byte {
	t.Helper()
	content := bytes.Repeat([]byte{0x5a}, size)
	env, err := contract.NewEnvelope(contract.ModeUploadAttachment, contract.UploadAttachmentParams{
		OwnerID:         7,
		DocTypeID:       2,
		FileName:        "lease.pdf",
		FileContentType: "application/pdf",
		FileSize:        int64(size),
		FileContent:     base64.StdEncoding.EncodeToString(content),
	})
	require.NoError(t, err)
	body, err := json.Marshal(env)
	require.NoError(t, err)
	return body
}

func TestBodyLimit_AttachmentUploads(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := uploadRouter()

	t.Run("largest accepted file fits", func(t *testing.T) {
		body := uploadBody(t, masterdata.MaxAttachmentSize)
		require.Less(t, len(body), uploadBodyLimit)

		req := httptest.NewRequest(http.MethodPost, "/api/customers", bytes.NewReader(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.JSONEq(t, `{"FileSize":10485760}`, w.Body.String())
	})

	t.Run("declared body over the limit", func(t *testing.T) {
		body := uploadBody(t, uploadBodyLimit*3/4+1)
		require.Greater(t, len(body), uploadBodyLimit)

		req := httptest.NewRequest(http.MethodPost, "/api/customers", bytes.NewReader(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_FILE_TOO_LARGE")
	})

	t.Run("streamed body over the limit", func(t *testing.T) {
		body := uploadBody(t, uploadBodyLimit*3/4+1)
		req := httptest.NewRequest(http.MethodPost, "/api/customers", bytes.NewReader(body))
		req.ContentLength = -1
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "unreadable body", w.Body.String())
	})

	t.Run("file one byte over the attachment size", func(t *testing.T) {
		body := uploadBody(t, masterdata.MaxAttachmentSize+1)
		req := httptest.NewRequest(http.MethodPost, "/api/customers", bytes.NewReader(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "FileSize")
	})
}
