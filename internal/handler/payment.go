package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"edupay/internal/domain"
	"edupay/internal/service"
)

// userIDHeader carries the authenticated user id, set by the upstream auth
// layer.
const userIDHeader = "X-User-ID"

// PaymentHandler handles HTTP requests for orders and payment status.
type PaymentHandler struct {
	orderService  *service.OrderService
	statusService *service.StatusService
	gateway       service.PaymentGateway
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(orderService *service.OrderService, statusService *service.StatusService, gw service.PaymentGateway) *PaymentHandler {
	return &PaymentHandler{
		orderService:  orderService,
		statusService: statusService,
		gateway:       gw,
	}
}

// CreateOrderRequest is the HTTP request body for creating a payment order.
// Exactly one of course_id, book_id or live_class_id may be set.
type CreateOrderRequest struct {
	Amount      float64           `json:"amount"`
	Currency    string            `json:"currency"`
	Receipt     string            `json:"receipt"`
	Notes       map[string]string `json:"notes"`
	CourseID    string            `json:"courseId"`
	BookID      string            `json:"bookId"`
	LiveClassID string            `json:"liveClassId"`
}

// OrderResponse is the HTTP response body for a created order.
type OrderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// itemRef resolves the single item reference from the request body.
func (r CreateOrderRequest) itemRef() (domain.ItemType, string, bool) {
	switch {
	case r.CourseID != "":
		return domain.ItemTypeCourse, r.CourseID, r.BookID == "" && r.LiveClassID == ""
	case r.BookID != "":
		return domain.ItemTypeBook, r.BookID, r.LiveClassID == ""
	case r.LiveClassID != "":
		return domain.ItemTypeLiveClass, r.LiveClassID, true
	}
	return "", "", true
}

// CreateOrder handles POST /v1/payments/order
func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if req.Amount <= 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "amount must be positive"})
		return
	}

	itemType, itemID, ok := req.itemRef()
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "multiple item references supplied"})
		return
	}

	userID := c.GetHeader(userIDHeader)
	if itemID != "" && userID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "user identity required for item purchase"})
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), service.CreateOrderRequest{
		Amount:   req.Amount,
		Currency: req.Currency,
		Receipt:  req.Receipt,
		Notes:    req.Notes,
		ItemType: itemType,
		ItemID:   itemID,
		UserID:   userID,
		ClientIP: c.ClientIP(),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusCreated, OrderResponse{
		ID:       order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
		Receipt:  order.Receipt,
		Status:   order.Status,
	})
}

// VerifyPaymentRequest is the client-side checkout confirmation body. Field
// names follow the gateway's checkout callback.
type VerifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}

// StatusResponse is the HTTP response body for a status query.
type StatusResponse struct {
	PaymentID   string `json:"paymentId"`
	OrderID     string `json:"orderId"`
	Status      string `json:"status"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	Processed   bool   `json:"processed"`
	IsTemporary bool   `json:"isTemporary"`
}

// VerifyPayment handles POST /v1/payments/verify
//
// Read-only: the answer is a status hint for the client UI. Finalization
// happens exclusively in the webhook reconciler.
func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	status, err := h.statusService.GetStatus(c.Request.Context(), service.StatusRequest{
		OrderID:   req.RazorpayOrderID,
		PaymentID: req.RazorpayPaymentID,
		Signature: req.RazorpaySignature,
		ClientIP:  c.ClientIP(),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, StatusResponse{
		PaymentID:   status.PaymentID,
		OrderID:     status.OrderID,
		Status:      status.Status,
		Amount:      status.Amount,
		Currency:    status.Currency,
		Processed:   status.Processed,
		IsTemporary: status.IsTemporary,
	})
}

// GetPayment handles GET /v1/payments/:id (debug/admin passthrough).
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	payment, err := h.gateway.FetchPayment(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondGatewayError(c, err)
		return
	}

	respondData(c, http.StatusOK, payment)
}

// GetOrder handles GET /v1/orders/:id (debug/admin passthrough).
func (h *PaymentHandler) GetOrder(c *gin.Context) {
	order, err := h.gateway.FetchOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondGatewayError(c, err)
		return
	}

	respondData(c, http.StatusOK, order)
}
