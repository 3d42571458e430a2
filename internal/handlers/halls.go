package handlers

import (
	"net/http"
	"strconv"

	"hallbook/internal/models"

	"github.com/gin-gonic/gin"
)

// CreateHall - POST /api/halls
func (h *Handlers) CreateHall(c *gin.Context) {
	identity, ok := callerIdentity(c)
	if !ok {
		return
	}

	var req models.CreateHallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hall, err := h.services.Halls.Create(c.Request.Context(), identity, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, hall)
}

// ListHalls - GET /api/halls
func (h *Handlers) ListHalls(c *gin.Context) {
	query := c.Query("query")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	halls, err := h.services.Halls.List(c.Request.Context(), query, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, halls)
}

// GetHall - GET /api/halls/:id
func (h *Handlers) GetHall(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	hall, err := h.services.Halls.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, hall)
}

// UpdateHall - PUT /api/halls/:id
func (h *Handlers) UpdateHall(c *gin.Context) {
	identity, ok := callerIdentity(c)
	if !ok {
		return
	}

	id, ok := pathID(c)
	if !ok {
		return
	}

	var req models.UpdateHallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hall, err := h.services.Halls.Update(c.Request.Context(), identity, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, hall)
}

// DeleteHall - DELETE /api/halls/:id
func (h *Handlers) DeleteHall(c *gin.Context) {
	identity, ok := callerIdentity(c)
	if !ok {
		return
	}

	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.services.Halls.Delete(c.Request.Context(), identity, id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListHallAccess - GET /api/halls/:id/access
func (h *Handlers) ListHallAccess(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if _, err := h.services.Halls.GetByID(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	grants, err := h.services.Access.HallGrants(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, grants)
}

// ListHallSchedules - GET /api/halls/:id/schedules
func (h *Handlers) ListHallSchedules(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var date *string
	if d := c.Query("date"); d != "" {
		date = &d
	}

	schedules, err := h.services.Schedules.ListByHall(c.Request.Context(), id, date)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, schedules)
}
