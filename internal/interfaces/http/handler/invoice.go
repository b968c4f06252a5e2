package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	billingapp "github.com/dormbill/backend/internal/application/billing"
)

// InvoiceHandler handles invoice lifecycle API endpoints
type InvoiceHandler struct {
	BaseHandler
	invoices *billingapp.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoices *billingapp.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices}
}

// Generate creates a draft invoice for a room and period
func (h *InvoiceHandler) Generate(c *gin.Context) {
	var req billingapp.GenerateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	invoice, err := h.invoices.Generate(c.Request.Context(), req.RoomID, req.Month, req.Year)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, invoice)
}

// Get returns one invoice
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid invoice id")
		return
	}

	invoice, err := h.invoices.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// List returns invoices with paging
func (h *InvoiceHandler) List(c *gin.Context) {
	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	invoices, total, err := h.invoices.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, invoices, total, filter.Page, filter.PageSize)
}

// Settle pays an invoice from the deposit or in cash
func (h *InvoiceHandler) Settle(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid invoice id")
		return
	}
	var req billingapp.SettleInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	invoice, err := h.invoices.Settle(c.Request.Context(), id, req.Method, req.Reference, req.PaidAt)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// Cancel voids an invoice
func (h *InvoiceHandler) Cancel(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid invoice id")
		return
	}

	if err := h.invoices.Cancel(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Send pushes a single invoice to the tenant's channel
func (h *InvoiceHandler) Send(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid invoice id")
		return
	}

	invoice, err := h.invoices.Send(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// SendAll pushes every open invoice for a period
func (h *InvoiceHandler) SendAll(c *gin.Context) {
	var req billingapp.SendPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.invoices.SendAll(c.Request.Context(), req.Month, req.Year)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// SendForRoom pushes a room's invoices for a period
func (h *InvoiceHandler) SendForRoom(c *gin.Context) {
	roomID, err := parseIDParam(c, "roomId")
	if err != nil {
		h.BadRequest(c, "invalid room id")
		return
	}
	var req billingapp.SendPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.invoices.SendForRoom(c.Request.Context(), roomID, req.Month, req.Year)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// AddItem appends a line item to an invoice
func (h *InvoiceHandler) AddItem(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid invoice id")
		return
	}
	var req billingapp.InvoiceItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	invoice, err := h.invoices.AddItem(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// UpdateItem changes a line item
func (h *InvoiceHandler) UpdateItem(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid invoice id")
		return
	}
	itemID, err := parseIDParam(c, "itemId")
	if err != nil {
		h.BadRequest(c, "invalid item id")
		return
	}
	var req billingapp.InvoiceItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	invoice, err := h.invoices.UpdateItem(c.Request.Context(), id, itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// RemoveItem soft-deletes a line item
func (h *InvoiceHandler) RemoveItem(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid invoice id")
		return
	}
	itemID, err := parseIDParam(c, "itemId")
	if err != nil {
		h.BadRequest(c, "invalid item id")
		return
	}

	invoice, err := h.invoices.RemoveItem(c.Request.Context(), id, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// SetDiscount sets the invoice discount
func (h *InvoiceHandler) SetDiscount(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid invoice id")
		return
	}
	var req billingapp.DiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	invoice, err := h.invoices.SetDiscount(c.Request.Context(), id, req.Discount)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// SweepOverdue marks sent invoices past due as overdue
func (h *InvoiceHandler) SweepOverdue(c *gin.Context) {
	result, err := h.invoices.MarkOverdue(c.Request.Context(), time.Now())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
