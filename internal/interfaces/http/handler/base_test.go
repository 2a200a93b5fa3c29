package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/erp/backoffice/internal/contract"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/interfaces/http/dto"
	"github.com/erp/backoffice/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestContext(method, path string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, path, nil)
	c.Set(middleware.RequestIDKey, "req-1")
	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestBaseHandler_HandleError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"unknown mode", &contract.ModeError{Family: contract.FamilyCities, Mode: 42}, http.StatusBadRequest, dto.ErrCodeUnknownMode},
		{"decode", &contract.DecodeError{Err: errors.New("unexpected field")}, http.StatusBadRequest, dto.ErrCodeInvalidJSON},
		{"not found", shared.NotFound("Customer", 9), http.StatusNotFound, dto.ErrCodeNotFound},
		{"in use", shared.NewDomainError("IN_USE", "City is referenced"), http.StatusConflict, dto.ErrCodeInUse},
		{"invalid state", shared.NewDomainError("INVALID_STATE", "Voucher is approved"), http.StatusUnprocessableEntity, dto.ErrCodeInvalidState},
		{"business rule", shared.NewDomainError("UNBALANCED", "Voucher does not balance"), http.StatusUnprocessableEntity, "ERR_UNBALANCED"},
		{"wrapped domain", errors.Join(errors.New("ctx"), shared.ErrNotFound), http.StatusNotFound, dto.ErrCodeNotFound},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError, dto.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext(http.MethodPost, "/api/cities")
			h := &BaseHandler{}
			h.HandleError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			resp := decodeResponse(t, w)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.Equal(t, "req-1", resp.Error.RequestID)
		})
	}
}

func TestBaseHandler_HandleError_HidesInternalMessage(t *testing.T) {
	c, w := newTestContext(http.MethodPost, "/api/cities")
	(&BaseHandler{}).HandleError(c, errors.New("pq: password authentication failed"))

	resp := decodeResponse(t, w)
	assert.Equal(t, "An unexpected error occurred", resp.Error.Message)
	assert.Len(t, c.Errors, 1)
}

func TestBaseHandler_HandleError_Validation(t *testing.T) {
	c, w := newTestContext(http.MethodPost, "/api/customers")
	(&BaseHandler{}).HandleError(c, &contract.ValidationErrors{Errors: []contract.FieldError{
		{Field: "TaxRegNo", Message: "TaxRegNo is required"},
	}})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	require.Len(t, resp.Error.Details, 1)
	assert.Equal(t, dto.ValidationDetail{Field: "TaxRegNo", Message: "TaxRegNo is required"}, resp.Error.Details[0])
}

func TestBaseHandler_HandleError_Nil(t *testing.T) {
	c, w := newTestContext(http.MethodGet, "/")
	(&BaseHandler{}).HandleError(c, nil)
	assert.False(t, c.Writer.Written())
	assert.Empty(t, w.Body.String())
}

func TestBaseHandler_Success(t *testing.T) {
	t.Run("plain data", func(t *testing.T) {
		c, w := newTestContext(http.MethodGet, "/")
		(&BaseHandler{}).Success(c, map[string]int{"CityID": 3})

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		assert.True(t, resp.Success)
		assert.Nil(t, resp.Meta)
		assert.Equal(t, map[string]any{"CityID": float64(3)}, resp.Data)
	})

	t.Run("paginated data moves position to meta", func(t *testing.T) {
		c, w := newTestContext(http.MethodGet, "/")
		(&BaseHandler{}).Success(c, shared.NewPaginated([]string{"Dubai", "Sharjah"}, 12, 2, 2))

		resp := decodeResponse(t, w)
		assert.Equal(t, []any{"Dubai", "Sharjah"}, resp.Data)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, dto.Meta{Total: 12, Page: 2, PageSize: 2, TotalPages: 6}, *resp.Meta)
	})
}
