package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"librairie/internal/core/apperror"
	"librairie/internal/core/id"
	"librairie/internal/domain/sales"
	"librairie/internal/infrastructure/export"
)

// SalesHandler provides sale ledger endpoints.
type SalesHandler struct {
	*BaseHandler
	service  *sales.Service
	exporter *export.Exporter
}

// NewSalesHandler creates a new sales handler.
func NewSalesHandler(base *BaseHandler, service *sales.Service, exporter *export.Exporter) *SalesHandler {
	return &SalesHandler{BaseHandler: base, service: service, exporter: exporter}
}

// RegisterRoutes mounts the sales endpoints.
func (h *SalesHandler) RegisterRoutes(group *gin.RouterGroup) {
	s := group.Group("/sales")
	{
		s.GET("/day", h.GetByDay)
		s.GET("/month", h.GetByMonth)
		s.GET("/day/export", h.ExportDay)
		s.DELETE("/:id", h.Delete)
	}
}

// GetByDay returns the day report with its run-grouped carts.
// GET /api/v1/sales/day?date=YYYY-MM-DD
func (h *SalesHandler) GetByDay(c *gin.Context) {
	day, ok := h.parseDay(c)
	if !ok {
		return
	}

	report, err := h.service.GetSalesByDay(c.Request.Context(), day)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, report)
}

// GetByMonth returns the month roll-up.
// GET /api/v1/sales/month?year=2026&month=8
func (h *SalesHandler) GetByMonth(c *gin.Context) {
	now := time.Now().UTC()
	year := h.ParseIntQuery(c, "year", now.Year())
	month := h.ParseIntQuery(c, "month", int(now.Month()))
	if month < 1 || month > 12 {
		h.Error(c, apperror.NewValidation("invalid month").WithDetail("value", month))
		return
	}

	report, err := h.service.GetSalesByMonth(c.Request.Context(), year, time.Month(month))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, report)
}

// ExportDay streams the day's ledger as zstd-compressed CSV.
// GET /api/v1/sales/day/export?date=YYYY-MM-DD
func (h *SalesHandler) ExportDay(c *gin.Context) {
	day, ok := h.parseDay(c)
	if !ok {
		return
	}

	archive, err := h.exporter.DayArchive(c.Request.Context(), day)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+export.Filename(day)+`"`)
	c.Data(http.StatusOK, "application/zstd", archive)
}

// Delete soft-deletes a sale, restoring stock when an item id is supplied.
// DELETE /api/v1/sales/:id?itemId=...
func (h *SalesHandler) Delete(c *gin.Context) {
	saleID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	var itemID *id.ID
	if raw := c.Query("itemId"); raw != "" {
		parsed, err := id.Parse(raw)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid itemId").WithDetail("value", raw))
			return
		}
		itemID = &parsed
	}

	if err := h.service.DeleteSale(c.Request.Context(), saleID, itemID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

func (h *SalesHandler) parseDay(c *gin.Context) (time.Time, bool) {
	raw := c.Query("date")
	if raw == "" {
		return time.Now().UTC(), true
	}

	day, err := time.Parse("2006-01-02", raw)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid date, expected YYYY-MM-DD").WithDetail("value", raw))
		return time.Time{}, false
	}
	return day, true
}
