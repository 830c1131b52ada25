package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"librairie/internal/core/id"
	"librairie/internal/domain/customer"
	"librairie/internal/infrastructure/http/v1/dto"
)

// CustomerHandler provides customer and loyalty linkage endpoints.
type CustomerHandler struct {
	*BaseHandler
	service *customer.Service
}

// NewCustomerHandler creates a new customer handler.
func NewCustomerHandler(base *BaseHandler, service *customer.Service) *CustomerHandler {
	return &CustomerHandler{BaseHandler: base, service: service}
}

// RegisterRoutes mounts the customer endpoints.
func (h *CustomerHandler) RegisterRoutes(group *gin.RouterGroup) {
	customers := group.Group("/customers")
	{
		customers.POST("", h.Create)
		customers.GET("/search", h.Search)
		customers.GET("/selected", h.GetSelected)
		customers.PUT("/selected", h.SetSelected)
		customers.DELETE("/selected", h.ClearSelected)
		customers.GET("/:id", h.GetByID)
		customers.PUT("/:id", h.Update)
		customers.DELETE("/:id", h.Delete)
	}
}

// Create adds a customer.
// POST /api/v1/customers
func (h *CustomerHandler) Create(c *gin.Context) {
	var req dto.CreateCustomerRequest
	if !h.BindJSON(c, &req) {
		return
	}

	cust := req.ToEntity()
	if err := h.service.Create(c.Request.Context(), cust); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, cust.ID.String())
}

// Update rewrites a customer.
// PUT /api/v1/customers/:id
func (h *CustomerHandler) Update(c *gin.Context) {
	customerID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateCustomerRequest
	if !h.BindJSON(c, &req) {
		return
	}

	cust, err := h.service.GetByID(c.Request.Context(), customerID)
	if err != nil {
		h.Error(c, err)
		return
	}

	req.Apply(cust)
	if err := h.service.Update(c.Request.Context(), cust); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, cust)
}

// Delete removes a customer.
// DELETE /api/v1/customers/:id
func (h *CustomerHandler) Delete(c *gin.Context) {
	customerID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), customerID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// GetByID retrieves a customer with purchases and loyalty status.
// GET /api/v1/customers/:id
func (h *CustomerHandler) GetByID(c *gin.Context) {
	customerID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	cust, err := h.service.GetByID(c.Request.Context(), customerID)
	if err != nil {
		h.Error(c, err)
		return
	}

	loyalty, err := h.service.Loyalty(c.Request.Context(), cust)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.CustomerResponse{
		Customer: cust,
		Loyalty:  dto.NewLoyaltyResponse(loyalty),
	})
}

// Search matches customers on the diacritic-folded name key.
// GET /api/v1/customers/search?q=...&limit=...
func (h *CustomerHandler) Search(c *gin.Context) {
	limit := h.ParseIntQuery(c, "limit", 0)

	customers, err := h.service.Search(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse{Items: customers, Count: len(customers)})
}

// SetSelected links a customer to the caller's register slot.
// PUT /api/v1/customers/selected
func (h *CustomerHandler) SetSelected(c *gin.Context) {
	userID, ok := h.UserID(c)
	if !ok {
		return
	}

	var req dto.SelectCustomerRequest
	if !h.BindJSON(c, &req) {
		return
	}

	customerID, err := id.Parse(req.CustomerID)
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.SetSelected(c.Request.Context(), userID, req.AsideCart, customerID); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "customer selected")
}

// GetSelected returns the customer linked to the caller's slot.
// GET /api/v1/customers/selected?aside=true
func (h *CustomerHandler) GetSelected(c *gin.Context) {
	userID, ok := h.UserID(c)
	if !ok {
		return
	}

	selected, err := h.service.GetSelected(c.Request.Context(), userID, h.asideFlag(c))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, selected)
}

// ClearSelected unlinks the caller's slot.
// DELETE /api/v1/customers/selected?aside=true
func (h *CustomerHandler) ClearSelected(c *gin.Context) {
	userID, ok := h.UserID(c)
	if !ok {
		return
	}

	if err := h.service.ClearSelected(c.Request.Context(), userID, h.asideFlag(c)); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

func (h *CustomerHandler) asideFlag(c *gin.Context) bool {
	aside, _ := strconv.ParseBool(c.Query("aside"))
	return aside
}
