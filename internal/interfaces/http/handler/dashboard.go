package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/partnerpro/product-manager/internal/application/catalog"
)

// DashboardService computes the catalog summary
type DashboardService interface {
	Summary(ctx context.Context) (*catalogapp.DashboardResponse, error)
}

// DashboardHandler serves the aggregate catalog figures
type DashboardHandler struct {
	BaseHandler
	dashboardService DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Summary godoc
// @ID           getDashboard
// @Summary      Get dashboard figures
// @Description  Returns the product count and the average price rounded to two places
// @Tags         dashboard
// @Produce      json
// @Success      200 {object} APIResponse[catalogapp.DashboardResponse]
// @Failure      500 {object} ErrorResponse
// @Router       /dashboard [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	summary, err := h.dashboardService.Summary(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}
