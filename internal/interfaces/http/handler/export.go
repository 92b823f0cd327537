package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/partnerpro/product-manager/internal/application/export"
	"github.com/partnerpro/product-manager/internal/domain/shared"
	"github.com/partnerpro/product-manager/internal/infrastructure/logger"
	"github.com/partnerpro/product-manager/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Exporter generates downloadable catalog files
type Exporter interface {
	ProductsCSV(ctx context.Context) (*export.File, error)
	ProductsPDF(ctx context.Context) (*export.File, error)
	DashboardPDF(ctx context.Context) (*export.File, error)
}

// ExportHandler serves CSV and PDF downloads
type ExportHandler struct {
	BaseHandler
	exports Exporter
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(exports Exporter) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// ProductsCSV godoc
// @ID           exportProductsCsv
// @Summary      Download the catalog as CSV
// @Tags         export
// @Produce      text/csv
// @Success      200 {file} file
// @Failure      500 {object} ErrorResponse
// @Router       /export/products/csv [get]
func (h *ExportHandler) ProductsCSV(c *gin.Context) {
	file, err := h.exports.ProductsCSV(c.Request.Context())
	h.sendFile(c, file, err)
}

// ProductsPDF godoc
// @ID           exportProductsPdf
// @Summary      Download the catalog report as PDF
// @Tags         export
// @Produce      application/pdf
// @Success      200 {file} file
// @Failure      500 {object} ErrorResponse
// @Router       /export/products/pdf [get]
func (h *ExportHandler) ProductsPDF(c *gin.Context) {
	file, err := h.exports.ProductsPDF(c.Request.Context())
	h.sendFile(c, file, err)
}

// DashboardPDF godoc
// @ID           exportDashboardPdf
// @Summary      Download the dashboard report as PDF
// @Tags         export
// @Produce      application/pdf
// @Success      200 {file} file
// @Failure      500 {object} ErrorResponse
// @Router       /export/dashboard/pdf [get]
func (h *ExportHandler) DashboardPDF(c *gin.Context) {
	file, err := h.exports.DashboardPDF(c.Request.Context())
	h.sendFile(c, file, err)
}

// sendFile writes a generated file as an attachment. Failures that carry no
// domain code are reported as ERR_EXPORT_FAILED.
func (h *BaseHandler) sendFile(c *gin.Context, file *export.File, err error) {
	if err != nil {
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) {
			h.HandleError(c, err)
			return
		}
		logger.GetGinLogger(c).Error("Export failed", zap.Error(err))
		h.Error(c, http.StatusInternalServerError, dto.ErrCodeExportFailed, "Failed to generate file")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
