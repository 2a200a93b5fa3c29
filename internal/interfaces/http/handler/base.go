package handler

import (
	"errors"
	"net/http"

	"github.com/erp/backoffice/internal/contract"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/infrastructure/logger"
	"github.com/erp/backoffice/internal/interfaces/http/dto"
	"github.com/erp/backoffice/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

func getRequestID(c *gin.Context) string {
	return c.GetString(middleware.RequestIDKey)
}

// Success sends a success response. Paginated results carry their
// position in meta.
func (h *BaseHandler) Success(c *gin.Context, data any) {
	if page, ok := data.(shared.Pager); ok {
		c.JSON(http.StatusOK, dto.NewPagedResponse(page))
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, code, message string) {
	h.Error(c, http.StatusBadRequest, code, message)
}

// ValidationError sends a 400 validation error response with details
func (h *BaseHandler) ValidationError(c *gin.Context, errs *contract.ValidationErrors) {
	details := make([]dto.ValidationDetail, 0, len(errs.Errors))
	for _, fe := range errs.Errors {
		details = append(details, dto.ValidationDetail{Field: fe.Field, Message: fe.Message})
	}
	c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(
		"Request validation failed",
		getRequestID(c),
		details,
	))
}

// HandleError converts protocol, validation and domain errors to HTTP
// responses. Anything else is logged and reported as an internal error.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)

	var (
		modeErr   *contract.ModeError
		decodeErr *contract.DecodeError
		validErr  *contract.ValidationErrors
		domainErr *shared.DomainError
	)
	switch {
	case errors.As(err, &modeErr):
		h.BadRequest(c, dto.ErrCodeUnknownMode, modeErr.Error())
	case errors.As(err, &decodeErr):
		h.BadRequest(c, dto.ErrCodeInvalidJSON, decodeErr.Error())
	case errors.As(err, &validErr):
		h.ValidationError(c, validErr)
	case errors.As(err, &domainErr):
		h.Error(c, dto.DomainErrorStatus(domainErr.Code), domainErr.Code, domainErr.Message)
	default:
		logger.L(c.Request.Context()).Error("Unhandled error",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
		h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred")
	}
}
