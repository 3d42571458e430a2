package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetCurrentUser - GET /api/users/me
func (h *Handlers) GetCurrentUser(c *gin.Context) {
	identity, ok := callerIdentity(c)
	if !ok {
		return
	}

	user, err := h.services.Users.GetByID(c.Request.Context(), identity.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
