package handlers

import (
	"github.com/gin-gonic/gin"

	"librairie/internal/core/apperror"
	"librairie/internal/core/id"
	"librairie/internal/domain/cart"
	"librairie/internal/domain/settlement"
	"librairie/internal/infrastructure/http/v1/dto"
)

// CartHandler provides the register cart endpoints, settlement included.
type CartHandler struct {
	*BaseHandler
	carts      *cart.Service
	settlement *settlement.Engine
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(base *BaseHandler, carts *cart.Service, engine *settlement.Engine) *CartHandler {
	return &CartHandler{BaseHandler: base, carts: carts, settlement: engine}
}

// RegisterRoutes mounts the cart endpoints.
func (h *CartHandler) RegisterRoutes(group *gin.RouterGroup) {
	c := group.Group("/cart")
	{
		c.GET("", h.Get)
		c.GET("/aside", h.GetAside)
		c.POST("/items", h.AddItem)
		c.POST("/isbn", h.AddISBN)
		c.POST("/independent", h.AddIndependent)
		c.DELETE("/lines/:id", h.RemoveLine)
		c.POST("/aside", h.PutAside)
		c.POST("/reactivate", h.Reactivate)
		c.POST("/pay", h.Pay)
	}
}

// Get returns the active cart.
// GET /api/v1/cart
func (h *CartHandler) Get(c *gin.Context) {
	h.list(c, cart.SlotActive)
}

// GetAside returns the parked cart.
// GET /api/v1/cart/aside
func (h *CartHandler) GetAside(c *gin.Context) {
	h.list(c, cart.SlotAside)
}

func (h *CartHandler) list(c *gin.Context, slot cart.Slot) {
	userID, ok := h.UserID(c)
	if !ok {
		return
	}

	view, err := h.carts.List(c.Request.Context(), userID, slot)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewCartResponse(view))
}

// AddItem reserves stock and merges the item into the active cart.
// POST /api/v1/cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	userID, ok := h.UserID(c)
	if !ok {
		return
	}

	var req dto.AddItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	itemID, err := id.Parse(req.ItemID)
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.carts.AddItem(c.Request.Context(), userID, itemID, req.Quantity); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "item added")
}

// AddISBN resolves a scanned ISBN into a cart add. Lookup and stock
// failures come back in the body with a 200, so the register shows them
// inline instead of failing the scan.
// POST /api/v1/cart/isbn
func (h *CartHandler) AddISBN(c *gin.Context) {
	userID, ok := h.UserID(c)
	if !ok {
		return
	}

	var req dto.AddISBNRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.carts.AddByISBN(c.Request.Context(), userID, req.ISBN)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, result)
}

// AddIndependent records a one-off line with no catalog reference.
// POST /api/v1/cart/independent
func (h *CartHandler) AddIndependent(c *gin.Context) {
	userID, ok := h.UserID(c)
	if !ok {
		return
	}

	var req dto.AddIndependentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	line, err := h.carts.AddIndependent(c.Request.Context(), userID, req.ToIndependentLine())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, line)
}

// RemoveLine deletes a cart line, restoring stock for catalog items.
// DELETE /api/v1/cart/lines/:id
func (h *CartHandler) RemoveLine(c *gin.Context) {
	lineID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.carts.RemoveLine(c.Request.Context(), lineID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// PutAside parks the active cart.
// POST /api/v1/cart/aside
func (h *CartHandler) PutAside(c *gin.Context) {
	h.switchSlots(c, cart.SlotActive, cart.SlotAside)
}

// Reactivate brings the parked cart back.
// POST /api/v1/cart/reactivate
func (h *CartHandler) Reactivate(c *gin.Context) {
	h.switchSlots(c, cart.SlotAside, cart.SlotActive)
}

func (h *CartHandler) switchSlots(c *gin.Context, from, to cart.Slot) {
	userID, ok := h.UserID(c)
	if !ok {
		return
	}

	if err := h.carts.SwitchCarts(c.Request.Context(), userID, from, to); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "cart switched")
}

// Pay settles the active cart. An empty cart answers 200 with success=false
// rather than an error status.
// POST /api/v1/cart/pay
func (h *CartHandler) Pay(c *gin.Context) {
	userID, ok := h.UserID(c)
	if !ok {
		return
	}

	var req dto.PayRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.settlement.Pay(c.Request.Context(), userID, req.ToPayment())
	if err != nil {
		if apperror.IsEmptyCart(err) {
			h.OK(c, dto.PayResponse{Success: false})
			return
		}
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewPayResponse(result))
}
