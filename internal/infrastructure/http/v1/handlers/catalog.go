package handlers

import (
	"github.com/gin-gonic/gin"

	"librairie/internal/domain/catalog"
	"librairie/internal/infrastructure/http/v1/dto"
)

// CatalogHandler provides item catalog endpoints.
type CatalogHandler struct {
	*BaseHandler
	service *catalog.Service
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(base *BaseHandler, service *catalog.Service) *CatalogHandler {
	return &CatalogHandler{BaseHandler: base, service: service}
}

// RegisterRoutes mounts the catalog endpoints.
func (h *CatalogHandler) RegisterRoutes(group *gin.RouterGroup) {
	items := group.Group("/items")
	{
		items.POST("", h.Create)
		items.GET("", h.List)
		items.GET("/:id", h.GetByID)
		items.PUT("/:id", h.Update)
		items.GET("/isbn/:isbn", h.GetByISBN)
	}
}

// Create adds a catalog item.
// POST /api/v1/items
func (h *CatalogHandler) Create(c *gin.Context) {
	var req dto.CreateItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	item := req.ToEntity()
	if err := h.service.Create(c.Request.Context(), item); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, item.ID.String())
}

// Update rewrites a catalog item. Stock amount is untouched.
// PUT /api/v1/items/:id
func (h *CatalogHandler) Update(c *gin.Context) {
	itemID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	item, err := h.service.GetByID(c.Request.Context(), itemID)
	if err != nil {
		h.Error(c, err)
		return
	}

	req.Apply(item)
	if err := h.service.Update(c.Request.Context(), item); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, item)
}

// GetByID retrieves one item.
// GET /api/v1/items/:id
func (h *CatalogHandler) GetByID(c *gin.Context) {
	itemID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	item, err := h.service.GetByID(c.Request.Context(), itemID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, item)
}

// GetByISBN retrieves one item by ISBN.
// GET /api/v1/items/isbn/:isbn
func (h *CatalogHandler) GetByISBN(c *gin.Context) {
	item, err := h.service.GetByISBN(c.Request.Context(), c.Param("isbn"))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, item)
}

// List retrieves items matching the filter.
// GET /api/v1/items
func (h *CatalogHandler) List(c *gin.Context) {
	var req dto.ListItemsRequest
	if !h.BindQuery(c, &req) {
		return
	}

	filter := catalog.ListFilter{
		TitleLike:   req.Title,
		LowStock:    req.LowStock,
		LowStockMax: req.LowStockMax,
		Limit:       req.Limit,
		Offset:      req.Offset,
	}
	if req.Type != "" {
		itemType := catalog.ItemType(req.Type)
		filter.Type = &itemType
	}

	items, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse{Items: items, Count: len(items)})
}
