package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/waterdropvpn/starcore/internal/logger"
	"github.com/waterdropvpn/starcore/internal/service"
)

type CredentialHandler struct {
	service service.CredentialService
	log     *logger.Logger
}

func NewCredentialHandler(service service.CredentialService, log *logger.Logger) *CredentialHandler {
	return &CredentialHandler{service: service, log: log}
}

// GetCredential returns the user's active credential and connection
// links, issuing or reissuing one when needed.
func (h *CredentialHandler) GetCredential(c *gin.Context) {
	userID := c.Param("id")

	resp, err := h.service.Get(c.Request.Context(), userID)
	if err != nil {
		h.log.Errorw("failed to get credential", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// IssueCredential forces a fresh credential, superseding the current one.
func (h *CredentialHandler) IssueCredential(c *gin.Context) {
	userID := c.Param("id")

	resp, err := h.service.Issue(c.Request.Context(), userID)
	if err != nil {
		h.log.Errorw("failed to issue credential", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// RevokeCredential deactivates the user's credentials.
func (h *CredentialHandler) RevokeCredential(c *gin.Context) {
	userID := c.Param("id")

	if err := h.service.Revoke(c.Request.Context(), userID); err != nil {
		h.log.Errorw("failed to revoke credential", "error", err)
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}
