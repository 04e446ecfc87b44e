package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	posapp "github.com/nexerp/backend/internal/application/pos"
)

// POSHandler handles point-of-sale API endpoints
type POSHandler struct {
	BaseHandler
	orderService *posapp.OrderService
}

// NewPOSHandler creates a new POSHandler
func NewPOSHandler(orderService *posapp.OrderService) *POSHandler {
	return &POSHandler{
		orderService: orderService,
	}
}

// pricePreviewRequest asks how a single line would be priced without
// creating an order
type pricePreviewRequest struct {
	CatalogPrice       decimal.Decimal `json:"catalog_price" binding:"required"`
	RequestedUnitPrice decimal.Decimal `json:"requested_unit_price" binding:"required"`
}

// CreateOrder handles POST /pos/orders
func (h *POSHandler) CreateOrder(c *gin.Context) {
	var req posapp.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	resp, err := h.orderService.CreateOrder(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetOrder handles GET /pos/orders/:id
func (h *POSHandler) GetOrder(c *gin.Context) {
	orderID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	resp, err := h.orderService.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetOrderByNumber handles GET /pos/orders/number/:number
func (h *POSHandler) GetOrderByNumber(c *gin.Context) {
	number := c.Param("number")
	if number == "" {
		h.BadRequest(c, "Order number is required")
		return
	}

	resp, err := h.orderService.GetOrderByNumber(c.Request.Context(), number)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RegisterRoutes registers point-of-sale routes
func (h *POSHandler) RegisterRoutes(rg *gin.RouterGroup) {
	pos := rg.Group("/pos")
	{
		pos.POST("/orders", h.CreateOrder)
		pos.GET("/orders/:id", h.GetOrder)
		pos.GET("/orders/number/:number", h.GetOrderByNumber)
		pos.POST("/price-preview", h.PreviewLinePrice)
	}
}

// PreviewLinePrice handles POST /pos/price-preview
func (h *POSHandler) PreviewLinePrice(c *gin.Context) {
	var req pricePreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	price, err := h.orderService.PriceLine(actor, req.CatalogPrice, req.RequestedUnitPrice)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, price)
}
