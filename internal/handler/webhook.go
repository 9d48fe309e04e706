package handler

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"edupay/internal/service"
)

// signatureHeader is the gateway's webhook signature header.
const signatureHeader = "X-Razorpay-Signature"

// WebhookHandler is the entrypoint for asynchronous gateway events.
type WebhookHandler struct {
	webhookService *service.WebhookService
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(webhookService *service.WebhookService) *WebhookHandler {
	return &WebhookHandler{webhookService: webhookService}
}

// WebhookResponse acknowledges a webhook delivery.
type WebhookResponse struct {
	Status           string `json:"status"`
	Event            string `json:"event,omitempty"`
	AlreadyProcessed bool   `json:"alreadyProcessed,omitempty"`
}

// HandleEvent handles POST /v1/webhooks/payment
//
// The body is read raw; no middleware may parse it before the signature
// check. Business failures are acknowledged with 200 so the gateway stops
// retrying deliveries that retries cannot fix. Only a signature failure
// returns 400.
func (h *WebhookHandler) HandleEvent(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unreadable body"})
		return
	}

	result, err := h.webhookService.ProcessEvent(
		c.Request.Context(),
		body,
		c.GetHeader(signatureHeader),
		c.ClientIP(),
	)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPaymentsDisabled):
			respondError(c, err)
		case errors.Is(err, service.ErrInvalidSignature):
			respondError(c, err)
		default:
			// Reconciliation failed for a reason a gateway retry cannot
			// fix; acknowledge so the delivery is not re-sent forever.
			log.Printf("[WEBHOOK] event not reconciled: %v", err)
			c.JSON(http.StatusOK, WebhookResponse{Status: "acknowledged"})
		}
		return
	}

	c.JSON(http.StatusOK, WebhookResponse{
		Status:           "ok",
		Event:            result.Event,
		AlreadyProcessed: result.AlreadyProcessed,
	})
}
