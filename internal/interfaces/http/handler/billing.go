package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	billingapp "github.com/nexerp/backend/internal/application/billing"
)

// BillingHandler handles invoice and payment API endpoints
type BillingHandler struct {
	BaseHandler
	paymentService *billingapp.PaymentService
}

// NewBillingHandler creates a new BillingHandler
func NewBillingHandler(paymentService *billingapp.PaymentService) *BillingHandler {
	return &BillingHandler{
		paymentService: paymentService,
	}
}

// applyPaymentBody is the request body for applying a payment. The invoice
// comes from the path.
type applyPaymentBody struct {
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Method    string          `json:"method" binding:"required"`
	Reference string          `json:"reference"`
}

// CreateInvoice handles POST /invoices
func (h *BillingHandler) CreateInvoice(c *gin.Context) {
	var req billingapp.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.paymentService.CreateInvoice(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetInvoice handles GET /invoices/:id
func (h *BillingHandler) GetInvoice(c *gin.Context) {
	invoiceID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	resp, err := h.paymentService.GetInvoice(c.Request.Context(), invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// MarkInvoiceSent handles POST /invoices/:id/send
func (h *BillingHandler) MarkInvoiceSent(c *gin.Context) {
	invoiceID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	resp, err := h.paymentService.MarkInvoiceSent(c.Request.Context(), invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// MarkInvoiceOverdue handles POST /invoices/:id/overdue
func (h *BillingHandler) MarkInvoiceOverdue(c *gin.Context) {
	invoiceID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	resp, err := h.paymentService.MarkInvoiceOverdue(c.Request.Context(), invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CancelInvoice handles POST /invoices/:id/cancel
func (h *BillingHandler) CancelInvoice(c *gin.Context) {
	invoiceID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	var req billingapp.CancelInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.paymentService.CancelInvoice(c.Request.Context(), invoiceID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ApplyPayment handles POST /invoices/:id/payments
func (h *BillingHandler) ApplyPayment(c *gin.Context) {
	invoiceID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	var body applyPaymentBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	resp, err := h.paymentService.ApplyPayment(c.Request.Context(), actor, billingapp.ApplyPaymentRequest{
		InvoiceID: invoiceID,
		Amount:    body.Amount,
		Method:    body.Method,
		Reference: body.Reference,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ListPayments handles GET /invoices/:id/payments
func (h *BillingHandler) ListPayments(c *gin.Context) {
	invoiceID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	payments, err := h.paymentService.ListPayments(c.Request.Context(), invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payments)
}

// RegisterRoutes registers billing routes
func (h *BillingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	invoices := rg.Group("/invoices")
	{
		invoices.POST("", h.CreateInvoice)
		invoices.GET("/:id", h.GetInvoice)
		invoices.POST("/:id/send", h.MarkInvoiceSent)
		invoices.POST("/:id/overdue", h.MarkInvoiceOverdue)
		invoices.POST("/:id/cancel", h.CancelInvoice)
		invoices.POST("/:id/payments", h.ApplyPayment)
		invoices.GET("/:id/payments", h.ListPayments)
	}

	customers := rg.Group("/customers")
	{
		customers.GET("/:id/account", h.GetCustomerAccount)
	}
}

// GetCustomerAccount handles GET /customers/:id/account
func (h *BillingHandler) GetCustomerAccount(c *gin.Context) {
	customerID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	resp, err := h.paymentService.GetCustomerAccount(c.Request.Context(), customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
