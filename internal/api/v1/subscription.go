package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/waterdropvpn/starcore/internal/api/dto"
	ierr "github.com/waterdropvpn/starcore/internal/errors"
	"github.com/waterdropvpn/starcore/internal/logger"
	"github.com/waterdropvpn/starcore/internal/service"
)

type SubscriptionHandler struct {
	service service.SubscriptionService
	log     *logger.Logger
}

func NewSubscriptionHandler(service service.SubscriptionService, log *logger.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{service: service, log: log}
}

// ListPlans returns the purchasable plan catalog.
func (h *SubscriptionHandler) ListPlans(c *gin.Context) {
	resp, err := h.service.GetPlans(c.Request.Context())
	if err != nil {
		h.log.Errorw("failed to list plans", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetPlan returns a single plan.
func (h *SubscriptionHandler) GetPlan(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("id is required").
			WithHint("Plan ID is required").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.GetPlan(c.Request.Context(), id)
	if err != nil {
		h.log.Errorw("failed to get plan", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Purchase buys a plan with the user's stars balance.
func (h *SubscriptionHandler) Purchase(c *gin.Context) {
	var req dto.PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorw("failed to bind json", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.Purchase(c.Request.Context(), &req)
	if err != nil {
		h.log.Errorw("failed to purchase plan", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// GetStatus reports the user's current access window.
func (h *SubscriptionHandler) GetStatus(c *gin.Context) {
	userID := c.Param("id")

	resp, err := h.service.Status(c.Request.Context(), userID)
	if err != nil {
		h.log.Errorw("failed to get subscription status", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
