package handler

import (
	"github.com/gin-gonic/gin"
	appreport "github.com/storefront/backend/internal/application/report"
)

// ReportHandler serves the admin dashboard and record exports
type ReportHandler struct {
	BaseHandler
	dashboard *appreport.DashboardService
	snapshots *appreport.SnapshotService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(dashboard *appreport.DashboardService, snapshots *appreport.SnapshotService) *ReportHandler {
	return &ReportHandler{dashboard: dashboard, snapshots: snapshots}
}

// Dashboard godoc
// @Summary      Dashboard statistics
// @Tags         admin-reports
// @Produce      json
// @Success      200 {object} dto.Response{data=appreport.DashboardStats}
// @Security     BearerAuth
// @Router       /admin/reports/dashboard [get]
func (h *ReportHandler) Dashboard(c *gin.Context) {
	stats, err := h.dashboard.Stats(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, stats)
}

// Products godoc
// @Summary      Product records
// @Tags         admin-reports
// @Produce      json
// @Success      200 {object} dto.Response{data=[]report.ProductRecord}
// @Security     BearerAuth
// @Router       /admin/reports/products [get]
func (h *ReportHandler) Products(c *gin.Context) {
	records, err := h.snapshots.Products(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, records)
}

// Orders godoc
// @Summary      Order records
// @Tags         admin-reports
// @Produce      json
// @Success      200 {object} dto.Response{data=[]report.OrderRecord}
// @Security     BearerAuth
// @Router       /admin/reports/orders [get]
func (h *ReportHandler) Orders(c *gin.Context) {
	records, err := h.snapshots.Orders(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, records)
}

// Customers godoc
// @Summary      Customer records
// @Tags         admin-reports
// @Produce      json
// @Success      200 {object} dto.Response{data=[]report.CustomerRecord}
// @Security     BearerAuth
// @Router       /admin/reports/customers [get]
func (h *ReportHandler) Customers(c *gin.Context) {
	records, err := h.snapshots.Customers(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, records)
}
