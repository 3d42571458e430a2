package handlers

import (
	"net/http"

	"hallbook/internal/models"

	"github.com/gin-gonic/gin"
)

// CreateCenter - POST /api/centers
func (h *Handlers) CreateCenter(c *gin.Context) {
	identity, ok := callerIdentity(c)
	if !ok {
		return
	}

	var req models.CreateCenterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	center, err := h.services.Centers.Create(c.Request.Context(), identity, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, center)
}

// ListCenters - GET /api/centers
func (h *Handlers) ListCenters(c *gin.Context) {
	centers, err := h.services.Centers.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, centers)
}

// GetCenter - GET /api/centers/:id
func (h *Handlers) GetCenter(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	center, err := h.services.Centers.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, center)
}

// UpdateCenter - PUT /api/centers/:id
func (h *Handlers) UpdateCenter(c *gin.Context) {
	identity, ok := callerIdentity(c)
	if !ok {
		return
	}

	id, ok := pathID(c)
	if !ok {
		return
	}

	var req models.UpdateCenterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	center, err := h.services.Centers.Update(c.Request.Context(), identity, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, center)
}

// DeleteCenter - DELETE /api/centers/:id
func (h *Handlers) DeleteCenter(c *gin.Context) {
	identity, ok := callerIdentity(c)
	if !ok {
		return
	}

	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.services.Centers.Delete(c.Request.Context(), identity, id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
