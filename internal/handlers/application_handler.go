package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/justsurfingit/careers-portal/internal/dtos"
	"github.com/justsurfingit/careers-portal/internal/models"
	"github.com/justsurfingit/careers-portal/internal/services"
)

// ApplicationHandler serves the JSON API over the visitor's form state.
type ApplicationHandler struct{}

func NewApplicationHandler() *ApplicationHandler {
	return &ApplicationHandler{}
}

// GetState is GET /application
func (h *ApplicationHandler) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, dtos.StateResponse{State: controllerFrom(c).Snapshot()})
}

// UpdateField is PATCH /application/fields
func (h *ApplicationHandler) UpdateField(c *gin.Context) {
	var req dtos.FieldUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}
	ctrl := controllerFrom(c)
	if err := ctrl.SetField(req.Field, req.Value); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dtos.StateResponse{State: ctrl.Snapshot()})
}

// SelectPosition is PUT /application/position
func (h *ApplicationHandler) SelectPosition(c *gin.Context) {
	var req dtos.PositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}
	p, ok := models.ParsePosition(req.Position)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown position: " + req.Position})
		return
	}
	ctrl := controllerFrom(c)
	ctrl.SetPosition(p)
	c.JSON(http.StatusOK, dtos.StateResponse{State: ctrl.Snapshot()})
}

// ApplyNow is POST /application/apply-now
func (h *ApplicationHandler) ApplyNow(c *gin.Context) {
	var req dtos.ApplyNowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}
	p, ok := models.ParsePosition(req.Position)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown position: " + req.Position})
		return
	}
	ctrl := controllerFrom(c)
	viewport := ctrl.ApplyNow(p)
	c.JSON(http.StatusOK, dtos.StateResponse{State: ctrl.Snapshot(), Viewport: &viewport})
}

// AttachResume is POST /application/resume
func (h *ApplicationHandler) AttachResume(c *gin.Context) {
	fh, err := c.FormFile("resume")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing resume file: " + err.Error()})
		return
	}
	ref, err := readResume(fh)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctrl := controllerFrom(c)
	ctrl.AttachResume(ref)
	c.JSON(http.StatusOK, dtos.StateResponse{State: ctrl.Snapshot()})
}

// DetachResume is DELETE /application/resume
func (h *ApplicationHandler) DetachResume(c *gin.Context) {
	ctrl := controllerFrom(c)
	ctrl.ClearResume()
	c.JSON(http.StatusOK, dtos.StateResponse{State: ctrl.Snapshot()})
}

// Submit is POST /application/submit
func (h *ApplicationHandler) Submit(c *gin.Context) {
	ctrl := controllerFrom(c)
	// A client hanging up does not abort the relay; the endpoint timeout bounds it.
	err := ctrl.Submit(context.WithoutCancel(c.Request.Context()))
	if err == nil {
		c.JSON(http.StatusOK, dtos.SubmitResponse{Success: true, State: ctrl.Snapshot()})
		return
	}

	var serr *services.SubmissionError
	if !errors.As(err, &serr) {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	_ = c.Error(serr)
	status := http.StatusBadGateway
	if serr.Kind == services.KindValidation {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, dtos.SubmitResponse{Message: serr.Message(), State: ctrl.Snapshot()})
}

// DismissNotification is DELETE /application/notification
func (h *ApplicationHandler) DismissNotification(c *gin.Context) {
	ctrl := controllerFrom(c)
	dismissed := ctrl.DismissSuccess()
	c.JSON(http.StatusOK, gin.H{"dismissed": dismissed, "notification": ctrl.Snapshot().Notification})
}
