package handlers

import (
	"net/http"

	"hallbook/internal/models"

	"github.com/gin-gonic/gin"
)

// CreateSchedule - POST /api/schedules
func (h *Handlers) CreateSchedule(c *gin.Context) {
	identity, ok := callerIdentity(c)
	if !ok {
		return
	}

	var req models.CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	schedule, err := h.services.Schedules.Create(c.Request.Context(), identity, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, schedule)
}

// UpdateSchedule - PUT /api/schedules/:id
func (h *Handlers) UpdateSchedule(c *gin.Context) {
	identity, ok := callerIdentity(c)
	if !ok {
		return
	}

	id, ok := pathID(c)
	if !ok {
		return
	}

	var req models.UpdateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	schedule, err := h.services.Schedules.Update(c.Request.Context(), identity, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, schedule)
}

// DeleteSchedule - DELETE /api/schedules/:id
func (h *Handlers) DeleteSchedule(c *gin.Context) {
	identity, ok := callerIdentity(c)
	if !ok {
		return
	}

	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.services.Schedules.Delete(c.Request.Context(), identity, id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteAllSchedules - DELETE /api/schedules
func (h *Handlers) DeleteAllSchedules(c *gin.Context) {
	identity, ok := callerIdentity(c)
	if !ok {
		return
	}

	count, err := h.services.Schedules.DeleteAll(c.Request.Context(), identity)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.DeleteAllSchedulesResponse{Deleted: count})
}
