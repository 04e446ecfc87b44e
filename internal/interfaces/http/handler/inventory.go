package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	inventoryapp "github.com/nexerp/backend/internal/application/inventory"
)

// InventoryHandler handles stock API endpoints
type InventoryHandler struct {
	BaseHandler
	stockService *inventoryapp.StockService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(stockService *inventoryapp.StockService) *InventoryHandler {
	return &InventoryHandler{
		stockService: stockService,
	}
}

// stockLevelQuery identifies one stock level
type stockLevelQuery struct {
	ProductID  string `form:"product_id" binding:"required,uuid"`
	LocationID string `form:"location_id" binding:"required,uuid"`
}

// AdjustStock handles POST /stock/adjustments
func (h *InventoryHandler) AdjustStock(c *gin.Context) {
	var req inventoryapp.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	resp, err := h.stockService.AdjustStock(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// TransferStock handles POST /stock/transfers
func (h *InventoryHandler) TransferStock(c *gin.Context) {
	var req inventoryapp.TransferStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	resp, err := h.stockService.TransferStock(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetStockLevel handles GET /stock/levels
func (h *InventoryHandler) GetStockLevel(c *gin.Context) {
	var query stockLevelQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, "product_id and location_id query parameters are required")
		return
	}
	productID, _ := uuid.Parse(query.ProductID)
	locationID, _ := uuid.Parse(query.LocationID)

	resp, err := h.stockService.GetStockLevel(c.Request.Context(), productID, locationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetProductTotal handles GET /stock/products/:id/total
func (h *InventoryHandler) GetProductTotal(c *gin.Context) {
	productID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	total, err := h.stockService.GetTotalByProduct(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{
		"product_id":     productID,
		"total_quantity": total,
	})
}

// ListMovements handles GET /stock/movements
func (h *InventoryHandler) ListMovements(c *gin.Context) {
	var query stockLevelQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, "product_id and location_id query parameters are required")
		return
	}
	productID, _ := uuid.Parse(query.ProductID)
	locationID, _ := uuid.Parse(query.LocationID)

	movements, err := h.stockService.ListMovements(c.Request.Context(), productID, locationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, movements)
}

// RegisterRoutes registers stock routes
func (h *InventoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	stock := rg.Group("/stock")
	{
		stock.POST("/adjustments", h.AdjustStock)
		stock.POST("/transfers", h.TransferStock)
		stock.GET("/levels", h.GetStockLevel)
		stock.GET("/products/:id/total", h.GetProductTotal)
		stock.GET("/movements", h.ListMovements)
		stock.GET("/movements/reference/:ref", h.ListMovementsByReference)
	}
}

// ListMovementsByReference handles GET /stock/movements/reference/:ref
func (h *InventoryHandler) ListMovementsByReference(c *gin.Context) {
	referenceID := c.Param("ref")
	if referenceID == "" {
		h.BadRequest(c, "Reference ID is required")
		return
	}

	movements, err := h.stockService.ListMovementsByReference(c.Request.Context(), referenceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, movements)
}
