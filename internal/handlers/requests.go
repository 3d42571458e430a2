package handlers

import (
	"net/http"

	"hallbook/internal/models"

	"github.com/gin-gonic/gin"
)

// SubmitRequest - POST /api/requests
func (h *Handlers) SubmitRequest(c *gin.Context) {
	identity, ok := callerIdentity(c)
	if !ok {
		return
	}

	var req models.SubmitRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	request, err := h.services.Requests.Submit(c.Request.Context(), identity, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, request)
}

// ListRequests - GET /api/requests
func (h *Handlers) ListRequests(c *gin.Context) {
	var hallID *int64
	if v, ok := queryInt64(c, "hall_id"); ok {
		hallID = &v
	}

	var status *string
	if s := c.Query("status"); s != "" {
		status = &s
	}

	requests, err := h.services.Requests.List(c.Request.Context(), hallID, status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, requests)
}

// GetRequest - GET /api/requests/:id
func (h *Handlers) GetRequest(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	request, err := h.services.Requests.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, request)
}

// ApproveRequest - PATCH /api/requests/:id/approve
func (h *Handlers) ApproveRequest(c *gin.Context) {
	identity, ok := callerIdentity(c)
	if !ok {
		return
	}

	id, ok := pathID(c)
	if !ok {
		return
	}

	schedule, err := h.services.Requests.Approve(c.Request.Context(), identity, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, schedule)
}

// RejectRequest - PATCH /api/requests/:id/reject
func (h *Handlers) RejectRequest(c *gin.Context) {
	identity, ok := callerIdentity(c)
	if !ok {
		return
	}

	id, ok := pathID(c)
	if !ok {
		return
	}

	var req models.RejectRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.services.Requests.Reject(c.Request.Context(), identity, id, req.Reason); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusOK)
}

// AnswerRequest - PATCH /api/requests/:id/answer
func (h *Handlers) AnswerRequest(c *gin.Context) {
	identity, ok := callerIdentity(c)
	if !ok {
		return
	}

	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.services.Requests.Answer(c.Request.Context(), identity, id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusOK)
}

// UpdateRequest - PUT /api/requests/:id
func (h *Handlers) UpdateRequest(c *gin.Context) {
	identity, ok := callerIdentity(c)
	if !ok {
		return
	}

	id, ok := pathID(c)
	if !ok {
		return
	}

	var req models.UpdateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	request, err := h.services.Requests.Update(c.Request.Context(), identity, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, request)
}

// DeleteRequest - DELETE /api/requests/:id
func (h *Handlers) DeleteRequest(c *gin.Context) {
	identity, ok := callerIdentity(c)
	if !ok {
		return
	}

	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.services.Requests.Delete(c.Request.Context(), identity, id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// CreateRequestMessage - POST /api/requests/:id/messages
func (h *Handlers) CreateRequestMessage(c *gin.Context) {
	identity, ok := callerIdentity(c)
	if !ok {
		return
	}

	id, ok := pathID(c)
	if !ok {
		return
	}

	var req models.CreateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	message, err := h.services.Requests.AddMessage(c.Request.Context(), identity, id, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, message)
}

// ListRequestMessages - GET /api/requests/:id/messages
func (h *Handlers) ListRequestMessages(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	messages, err := h.services.Requests.ListMessages(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, messages)
}
