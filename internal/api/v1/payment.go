package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/waterdropvpn/starcore/internal/api/dto"
	ierr "github.com/waterdropvpn/starcore/internal/errors"
	"github.com/waterdropvpn/starcore/internal/logger"
	"github.com/waterdropvpn/starcore/internal/service"
)

type PaymentHandler struct {
	service service.PaymentService
	log     *logger.Logger
}

func NewPaymentHandler(service service.PaymentService, log *logger.Logger) *PaymentHandler {
	return &PaymentHandler{service: service, log: log}
}

// CreatePayment opens a pending payment for a stars invoice.
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	var req dto.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorw("failed to bind json", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.CreatePayment(c.Request.Context(), &req)
	if err != nil {
		h.log.Errorw("failed to create payment", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// GetPayment returns a payment by ID, or by invoice payload via the
// `payload` query parameter when no ID is given.
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("id is required").
			WithHint("Payment ID is required").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.GetPayment(c.Request.Context(), id)
	if err != nil {
		h.log.Errorw("failed to get payment", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// LookupPayment resolves a payment by its invoice payload.
func (h *PaymentHandler) LookupPayment(c *gin.Context) {
	payload := c.Query("payload")
	if payload == "" {
		c.Error(ierr.NewError("payload is required").
			WithHint("Invoice payload is required").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.GetPaymentByPayload(c.Request.Context(), payload)
	if err != nil {
		h.log.Errorw("failed to look up payment", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// CompletePayment confirms a pending payment and credits the balance.
// Safe to call more than once for the same payment.
func (h *PaymentHandler) CompletePayment(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("id is required").
			WithHint("Payment ID is required").
			Mark(ierr.ErrValidation))
		return
	}

	var req dto.CompletePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorw("failed to bind json", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.CompletePayment(c.Request.Context(), id, &req)
	if err != nil {
		h.log.Errorw("failed to complete payment", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListPayments returns the user's recent payments.
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	userID := c.Param("id")
	limit := parseLimit(c)

	resp, err := h.service.ListPayments(c.Request.Context(), userID, limit)
	if err != nil {
		h.log.Errorw("failed to list payments", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
