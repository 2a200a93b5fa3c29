package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/erp/backoffice/internal/application/export"
	"github.com/erp/backoffice/internal/contract"
	"github.com/erp/backoffice/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// Exporter renders documents and lists for download
type Exporter interface {
	PaymentVoucherPDF(ctx context.Context, id int64) (*export.File, error)
	PettyCashPDF(ctx context.Context, id int64) (*export.File, error)
	LeaseReceiptPDF(ctx context.Context, id int64) (*export.File, error)
	CustomersXLSX(ctx context.Context, p contract.ListParams) (*export.File, error)
	SuppliersXLSX(ctx context.Context, p contract.ListParams) (*export.File, error)
	PaymentVouchersXLSX(ctx context.Context, p contract.ListParams) (*export.File, error)
}

// ExportHandler serves file downloads
type ExportHandler struct {
	BaseHandler
	exporter Exporter
}

// NewExportHandler creates a new export handler
func NewExportHandler(exporter Exporter) *ExportHandler {
	return &ExportHandler{exporter: exporter}
}

type pdfFunc func(ctx context.Context, id int64) (*export.File, error)

type xlsxFunc func(ctx context.Context, p contract.ListParams) (*export.File, error)

// PDF godoc
// @Summary      Download a document as PDF
// @Tags         exports
// @Produce      application/pdf
// @Param        document path string true "Document family" Enums(payment-vouchers, petty-cash, lease-receipts)
// @Param        id       path int    true "Document ID"
// @Success      200 {file} binary
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /exports/{document}/{id}/pdf [get]
func (h *ExportHandler) pdf(render pdfFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil || id <= 0 {
			h.BadRequest(c, dto.ErrCodeInvalidInput, "Document ID must be a positive integer")
			return
		}
		file, err := render(c.Request.Context(), id)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.send(c, file, "inline")
	}
}

// XLSX godoc
// @Summary      Download a list as a spreadsheet
// @Tags         exports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        list       path  string true  "List" Enums(customers, suppliers, payment-vouchers)
// @Param        search     query string false "Search text"
// @Param        sort       query string false "Sort column"
// @Param        direction  query string false "Sort direction" Enums(asc, desc)
// @Param        active     query bool   false "Only active or inactive rows"
// @Param        status     query string false "Status filter"
// @Success      200 {file} binary
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /exports/{list}/xlsx [get]
func (h *ExportHandler) xlsx(render xlsxFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := contract.ListParams{
			SearchText:    c.Query("search"),
			SortColumn:    c.Query("sort"),
			SortDirection: c.Query("direction"),
			Status:        c.Query("status"),
		}
		if raw := c.Query("active"); raw != "" {
			active, err := strconv.ParseBool(raw)
			if err != nil {
				h.BadRequest(c, dto.ErrCodeInvalidInput, "active must be true or false")
				return
			}
			p.IsActive = &active
		}
		file, err := render(c.Request.Context(), p)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.send(c, file, "attachment")
	}
}

func (h *ExportHandler) send(c *gin.Context, file *export.File, disposition string) {
	c.Header("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, file.Name))
	c.Data(http.StatusOK, file.ContentType, file.Content)
}

// RegisterRoutes mounts the export endpoints
func (h *ExportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/exports")
	group.GET("/payment-vouchers/:id/pdf", h.pdf(h.exporter.PaymentVoucherPDF))
	group.GET("/petty-cash/:id/pdf", h.pdf(h.exporter.PettyCashPDF))
	group.GET("/lease-receipts/:id/pdf", h.pdf(h.exporter.LeaseReceiptPDF))
	group.GET("/customers/xlsx", h.xlsx(h.exporter.CustomersXLSX))
	group.GET("/suppliers/xlsx", h.xlsx(h.exporter.SuppliersXLSX))
	group.GET("/payment-vouchers/xlsx", h.xlsx(h.exporter.PaymentVouchersXLSX))
}
