package handlers

import (
	"github.com/gin-gonic/gin"

	"librairie/internal/core/apperror"
	"librairie/internal/core/id"
	"librairie/internal/domain/order"
	"librairie/internal/infrastructure/http/v1/dto"
)

// OrderHandler provides special order endpoints.
type OrderHandler struct {
	*BaseHandler
	service *order.Service
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(base *BaseHandler, service *order.Service) *OrderHandler {
	return &OrderHandler{BaseHandler: base, service: service}
}

// RegisterRoutes mounts the order endpoints.
func (h *OrderHandler) RegisterRoutes(group *gin.RouterGroup) {
	orders := group.Group("/orders")
	{
		orders.POST("", h.Create)
		orders.GET("", h.List)
		orders.GET("/:id", h.GetByID)
		orders.PUT("/:id", h.Update)
		orders.DELETE("/:id", h.Delete)
	}
}

// Create adds a special order.
// POST /api/v1/orders
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	o, err := req.ToEntity()
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id in request").WithDetail("error", err.Error()))
		return
	}

	if err := h.service.Create(c.Request.Context(), o); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, o.ID.String())
}

// Update rewrites a special order.
// PUT /api/v1/orders/:id
func (h *OrderHandler) Update(c *gin.Context) {
	orderID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	o, err := h.service.GetByID(c.Request.Context(), orderID)
	if err != nil {
		h.Error(c, err)
		return
	}

	req.Apply(o)
	if err := h.service.Update(c.Request.Context(), o); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, o)
}

// Delete removes a special order.
// DELETE /api/v1/orders/:id
func (h *OrderHandler) Delete(c *gin.Context) {
	orderID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), orderID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// GetByID retrieves one special order.
// GET /api/v1/orders/:id
func (h *OrderHandler) GetByID(c *gin.Context) {
	orderID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	o, err := h.service.GetByID(c.Request.Context(), orderID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, o)
}

// List retrieves orders matching the filter, newest first.
// GET /api/v1/orders
func (h *OrderHandler) List(c *gin.Context) {
	var req dto.ListOrdersRequest
	if !h.BindQuery(c, &req) {
		return
	}

	filter := order.ListFilter{Limit: req.Limit, Offset: req.Offset}
	if req.Status != "" {
		status := order.Status(req.Status)
		filter.Status = &status
	}
	if req.CustomerID != "" {
		customerID, err := id.Parse(req.CustomerID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid customerId").WithDetail("value", req.CustomerID))
			return
		}
		filter.CustomerID = &customerID
	}

	orders, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse{Items: orders, Count: len(orders)})
}
