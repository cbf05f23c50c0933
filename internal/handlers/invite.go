package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ValidateInvite lets the client pre-check a link before showing the
// password form.
func (h HandlerSet) ValidateInvite(c *gin.Context) {
	invite, err := h.admin.ValidateInvite(c.Request.Context(), c.Param("token"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid":    true,
		"username": invite.Username,
	})
}

type redeemInviteRequest struct {
	Password string `json:"password" binding:"required"`
}

func (h HandlerSet) RedeemInvite(c *gin.Context) {
	var req redeemInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "password is required"})
		return
	}

	invite, err := h.admin.RedeemInvite(c.Request.Context(), c.Param("token"), req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"username": invite.Username,
	})
}
