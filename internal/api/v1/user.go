package v1

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/waterdropvpn/starcore/internal/api/dto"
	ierr "github.com/waterdropvpn/starcore/internal/errors"
	"github.com/waterdropvpn/starcore/internal/logger"
	"github.com/waterdropvpn/starcore/internal/service"
)

type UserHandler struct {
	service       service.UserService
	ledgerService service.LedgerService
	log           *logger.Logger
}

func NewUserHandler(service service.UserService, ledgerService service.LedgerService, log *logger.Logger) *UserHandler {
	return &UserHandler{service: service, ledgerService: ledgerService, log: log}
}

// RegisterUser creates or refreshes a user account.
func (h *UserHandler) RegisterUser(c *gin.Context) {
	var req dto.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorw("failed to bind json", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		h.log.Errorw("failed to register user", "error", err)
		c.Error(err)
		return
	}

	status := http.StatusOK
	if resp.Created {
		status = http.StatusCreated
	}
	c.JSON(status, resp)
}

// GetUser returns a user by ID. The external provider ID is accepted too,
// as `external:<id>`.
func (h *UserHandler) GetUser(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("id is required").
			WithHint("User ID is required").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.resolveUser(c, id)
	if err != nil {
		h.log.Errorw("failed to get user", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetProfile returns the aggregated account view.
func (h *UserHandler) GetProfile(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("id is required").
			WithHint("User ID is required").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.GetProfile(c.Request.Context(), id)
	if err != nil {
		h.log.Errorw("failed to get profile", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetBalance returns the user's stars balance.
func (h *UserHandler) GetBalance(c *gin.Context) {
	id := c.Param("id")

	balance, err := h.ledgerService.GetBalance(c.Request.Context(), id)
	if err != nil {
		h.log.Errorw("failed to get balance", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, &dto.BalanceResponse{
		UserID:      id,
		Balance:     balance.Balance,
		TotalEarned: balance.TotalEarned,
	})
}

// ListTransactions returns the user's recent ledger entries.
func (h *UserHandler) ListTransactions(c *gin.Context) {
	id := c.Param("id")
	limit := parseLimit(c)

	txns, err := h.ledgerService.ListTransactions(c.Request.Context(), id, limit)
	if err != nil {
		h.log.Errorw("failed to list transactions", "error", err)
		c.Error(err)
		return
	}

	items := make([]*dto.TransactionResponse, len(txns))
	for i, t := range txns {
		items[i] = dto.NewTransactionResponse(t)
	}
	c.JSON(http.StatusOK, items)
}

func (h *UserHandler) resolveUser(c *gin.Context, id string) (*dto.UserResponse, error) {
	if after, ok := strings.CutPrefix(id, "external:"); ok {
		externalID, err := strconv.ParseInt(after, 10, 64)
		if err != nil {
			return nil, ierr.WithError(err).
				WithHint("External user ID must be numeric").
				Mark(ierr.ErrValidation)
		}
		return h.service.GetUserByExternalID(c.Request.Context(), externalID)
	}
	return h.service.GetUser(c.Request.Context(), id)
}

func parseLimit(c *gin.Context) int {
	raw := c.Query("limit")
	if raw == "" {
		return 0
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}
