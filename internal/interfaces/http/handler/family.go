package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/erp/backoffice/internal/contract"
	"github.com/erp/backoffice/internal/interfaces/http/dto"
	"github.com/erp/backoffice/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// Dispatcher runs one mode of a family
type Dispatcher interface {
	Dispatch(ctx context.Context, f contract.Family, env contract.Envelope) (any, error)
}

// FamilyHandler serves POST /api/:family
type FamilyHandler struct {
	BaseHandler
	dispatcher Dispatcher
}

// NewFamilyHandler creates a new family handler
func NewFamilyHandler(dispatcher Dispatcher) *FamilyHandler {
	return &FamilyHandler{dispatcher: dispatcher}
}

// Call godoc
// @Summary      Run a family operation
// @Description  Executes the operation selected by mode with the given parameters
// @Tags         families
// @Accept       json
// @Produce      json
// @Param        family   path string            true "Entity family" Enums(customers, suppliers, cities, petty-cash, payment-vouchers, lease-receipts, lease-invoices, lookups)
// @Param        request  body contract.Envelope true "Mode and parameters"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /{family} [post]
func (h *FamilyHandler) Call(c *gin.Context) {
	family := contract.Family(c.Param("family"))
	if len(contract.Modes(family)) == 0 {
		h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, "Unknown family "+string(family))
		return
	}

	var env contract.Envelope
	if err := c.ShouldBindJSON(&env); err != nil {
		if errors.Is(err, io.EOF) {
			h.BadRequest(c, dto.ErrCodeInvalidJSON, "Request body is empty")
			return
		}
		h.BadRequest(c, dto.ErrCodeInvalidJSON, "Request body must be {mode, parameters}")
		return
	}
	c.Set(middleware.RPCModeKey, env.Mode)

	result, err := h.dispatcher.Dispatch(c.Request.Context(), family, env)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// RegisterRoutes mounts the family endpoint
func (h *FamilyHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/:family", h.Call)
}
